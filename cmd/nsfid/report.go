package main

import (
	"fmt"
	"os"

	"github.com/nsfid/nsfid/pkg/datastore"
	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/report"
	"github.com/nsfid/nsfid/pkg/store"
	"github.com/nsfid/nsfid/pkg/types"
	"github.com/spf13/cobra"
)

var (
	reportDatastore        string
	reportFormat           string
	reportColor            string
	reportDrivers          string
	reportUnidentified     bool
	reportOnlyUnidentified bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from stored scan results",
	Long:  "Read results from a scan database and print the identification report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "nsfid.db", "Path to the scan database or datastore directory")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().StringVarP(&reportDrivers, "drivers", "s", "", "Only report these drivers (comma-separated)")
	reportCmd.Flags().BoolVarP(&reportUnidentified, "unidentified", "u", false, "Also report unidentified files")
	reportCmd.Flags().BoolVarP(&reportOnlyUnidentified, "only-unidentified", "o", false, "Only report unidentified files")
}

func runReport(cmd *cobra.Command, args []string) error {
	if reportDatastore == store.MemoryPath {
		return fmt.Errorf("cannot report from in-memory store")
	}
	if _, err := os.Stat(reportDatastore); err != nil {
		return fmt.Errorf("datastore not found: %s", reportDatastore)
	}

	filter, err := registry.ParseNames(reportDrivers)
	if err != nil {
		return err
	}

	s, err := store.New(store.Config{Path: datastore.DatabasePath(reportDatastore)})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	results, err := s.GetAllResults()
	if err != nil {
		return fmt.Errorf("retrieving results: %w", err)
	}
	counts, err := s.DriverCounts()
	if err != nil {
		return fmt.Errorf("retrieving driver counts: %w", err)
	}

	w, err := newWriter(cmd.OutOrStdout(), reportFormat, reportColor, "", report.Options{
		ListIdentified:   !reportOnlyUnidentified,
		ListUnidentified: reportUnidentified || reportOnlyUnidentified,
		Verbose:          verbose,
	})
	if err != nil {
		return err
	}

	view := report.StoredView{Filter: filter}
	for _, r := range results {
		w.File(r, view)
	}
	return w.Finish(storedFound(counts, filter), storedTotals(results))
}

// storedFound converts stored driver counts, dropping filtered drivers.
func storedFound(counts []store.DriverCount, filter registry.NameSet) []registry.DriverCount {
	var found []registry.DriverCount
	for _, c := range counts {
		if c.Files == 0 || !filter.Allows(c.Driver) {
			continue
		}
		found = append(found, registry.DriverCount{Name: c.Driver, Files: c.Files})
	}
	return found
}

func storedTotals(results []*types.Result) registry.Totals {
	var t registry.Totals
	for _, r := range results {
		t.Scanned++
		if r.Identified {
			t.Identified++
		} else {
			t.Unidentified++
		}
	}
	return t
}
