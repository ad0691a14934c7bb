package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nsfid/nsfid/pkg/config"
	"github.com/nsfid/nsfid/pkg/types"
	"github.com/spf13/cobra"
)

var (
	driversConfigPath string
	driversFormat     string
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "Inspect the driver config",
	Long:  "Commands for listing and inspecting the drivers of a config file",
}

var driversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured drivers",
	Long:  "Display every driver in the config with its number of signatures",
	RunE:  runDriversList,
}

func init() {
	driversCmd.AddCommand(driversListCmd)
	driversListCmd.Flags().StringVarP(&driversConfigPath, "config", "c", "nsfid.cfg", "Driver config file")
	driversListCmd.Flags().StringVar(&driversFormat, "format", "table", "Output format: table, json")
}

// driverEntry is the JSON form of a configured driver.
type driverEntry struct {
	Name       string   `json:"name"`
	Signatures []string `json:"signatures"`
}

func runDriversList(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(logger).LoadFile(driversConfigPath)
	if err != nil {
		return err
	}

	switch driversFormat {
	case "json":
		return outputDriversJSON(cmd, cfg.Drivers)
	case "table":
		return outputDriversTable(cmd, cfg.Drivers)
	default:
		return fmt.Errorf("unknown output format: %s", driversFormat)
	}
}

func outputDriversJSON(cmd *cobra.Command, drivers []*types.Driver) error {
	entries := make([]driverEntry, 0, len(drivers))
	for _, d := range drivers {
		e := driverEntry{Name: d.Name, Signatures: make([]string, 0, len(d.Signatures))}
		for _, s := range d.Signatures {
			e.Signatures = append(e.Signatures, s.String())
		}
		entries = append(entries, e)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(entries)
}

func outputDriversTable(cmd *cobra.Command, drivers []*types.Driver) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Driver\tSignatures\n")
	fmt.Fprintf(w, "------\t----------\n")

	for _, d := range drivers {
		fmt.Fprintf(w, "%s\t%d\n", d.Name, len(d.Signatures))
		if !verbose {
			continue
		}
		for i, s := range d.Signatures {
			fmt.Fprintf(w, "  %d\t%s\n", i, truncate(s.String(), 72))
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-3]) + "..."
}
