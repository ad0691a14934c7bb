package main

import (
	"fmt"
	"os"

	"github.com/nsfid/nsfid/pkg/config"
	"github.com/nsfid/nsfid/pkg/datastore"
	"github.com/nsfid/nsfid/pkg/enum"
	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/report"
	"github.com/nsfid/nsfid/pkg/scanner"
	"github.com/nsfid/nsfid/pkg/types"
	"github.com/spf13/cobra"
)

var (
	rescanDatastore        string
	rescanConfigPath       string
	rescanFormat           string
	rescanColor            string
	rescanReportDrivers    string
	rescanOnlyDrivers      string
	rescanUnidentified     bool
	rescanOnlyUnidentified bool
	rescanContextBytes     int
)

var rescanCmd = &cobra.Command{
	Use:   "rescan",
	Short: "Re-identify the files kept in a datastore",
	Long: `Match the blobs stored by "scan --store-blobs" against a driver config,
without access to the original files. New results are added to the datastore.`,
	RunE: runRescan,
}

func init() {
	rescanCmd.Flags().StringVar(&rescanDatastore, "datastore", "nsfid.ds", "Datastore directory")
	rescanCmd.Flags().StringVarP(&rescanConfigPath, "config", "c", "nsfid.cfg", "Driver config file")
	rescanCmd.Flags().StringVar(&rescanFormat, "format", "human", "Output format: human, json, sarif")
	rescanCmd.Flags().StringVar(&rescanColor, "color", "auto", "Color output: auto, always, never")
	rescanCmd.Flags().StringVarP(&rescanReportDrivers, "drivers", "s", "", "Only report these drivers (comma-separated)")
	rescanCmd.Flags().StringVar(&rescanOnlyDrivers, "only", "", "Only evaluate these drivers (comma-separated)")
	rescanCmd.Flags().BoolVarP(&rescanUnidentified, "unidentified", "u", false, "Also report unidentified files")
	rescanCmd.Flags().BoolVarP(&rescanOnlyUnidentified, "only-unidentified", "o", false, "Only report unidentified files")
	rescanCmd.Flags().IntVar(&rescanContextBytes, "context-bytes", 16, "Bytes of context captured around each hit")
}

func runRescan(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(rescanDatastore)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("datastore not found: %s", rescanDatastore)
	}

	cfg, err := config.NewLoader(logger).LoadFile(rescanConfigPath)
	if err != nil {
		return err
	}
	reg, err := registry.New(cfg.Drivers)
	if err != nil {
		return err
	}
	reportFilter, err := registry.ParseNames(rescanReportDrivers)
	if err != nil {
		return err
	}
	scanFilter, err := registry.ParseNames(rescanOnlyDrivers)
	if err != nil {
		return err
	}

	ds, err := datastore.Open(rescanDatastore, datastore.Options{})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer ds.Close()
	if ds.Blobs == nil {
		return fmt.Errorf("datastore %s has no stored blobs (scan with --store-blobs)", rescanDatastore)
	}

	stored, err := ds.Store.GetAllResults()
	if err != nil {
		return fmt.Errorf("retrieving results: %w", err)
	}

	core, err := scanner.NewCore(scanner.Config{
		Registry:      reg,
		ScanFilter:    scanFilter,
		ReportFilter:  reportFilter,
		ContextBytes:  rescanContextBytes,
		Store:         ds.Store,
		Incremental:   true,
		RulesetDigest: cfg.Digest,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	w, err := newWriter(cmd.OutOrStdout(), rescanFormat, rescanColor, cfg.Source, report.Options{
		ListIdentified:   !rescanOnlyUnidentified,
		ListUnidentified: rescanUnidentified || rescanOnlyUnidentified,
		Verbose:          verbose,
	})
	if err != nil {
		return err
	}

	session := core.Session()
	for _, r := range uniqueFiles(stored) {
		content, err := ds.Blobs.Get(r.BlobID)
		if err != nil {
			core.RecordFailure(r.Name, err)
			continue
		}
		result, err := core.ScanTarget(enum.Target{
			Name:       r.Name,
			Content:    content,
			BlobID:     r.BlobID,
			Provenance: r.Provenance,
		})
		if err != nil {
			return err
		}
		w.File(result, session)
	}

	return w.Finish(session.Found(), session.Totals())
}

// uniqueFiles keeps the first stored row of each file and content pair.
// A datastore holds one row per driver config a file was scanned with.
func uniqueFiles(results []*types.Result) []*types.Result {
	type key struct {
		id   types.BlobID
		name string
	}
	seen := make(map[key]bool, len(results))
	var unique []*types.Result
	for _, r := range results {
		k := key{id: r.BlobID, name: r.Name}
		if seen[k] {
			continue
		}
		seen[k] = true
		unique = append(unique, r)
	}
	return unique
}
