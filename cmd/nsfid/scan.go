package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nsfid/nsfid/pkg/config"
	"github.com/nsfid/nsfid/pkg/datastore"
	"github.com/nsfid/nsfid/pkg/enum"
	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/report"
	"github.com/nsfid/nsfid/pkg/scanner"
	"github.com/nsfid/nsfid/pkg/store"
	"github.com/spf13/cobra"
)

var (
	scanConfigPath       string
	scanAllFiles         bool
	scanNoRecurse        bool
	scanFileTypes        string
	scanReportDrivers    string
	scanOnlyDrivers      string
	scanUnidentified     bool
	scanOnlyUnidentified bool
	scanFormat           string
	scanColor            string
	scanOutputPath       string
	scanDatastore        string
	scanStoreBlobs       bool
	scanIncremental      bool
	scanExtractArchives  bool
	scanSkipHidden       bool
	scanGitignore        bool
	scanMaxFileSize      int64
	scanContextBytes     int
)

var scanCmd = &cobra.Command{
	Use:   "scan <path>...",
	Short: "Identify the drivers of rip files",
	Long:  "Scan files and directories and report which drivers their signatures match",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanConfigPath, "config", "c", "nsfid.cfg", "Driver config file (\".cfg\" is appended if missing)")
	scanCmd.Flags().BoolVarP(&scanAllFiles, "all-files", "a", false, "Always scan all file types")
	scanCmd.Flags().BoolVarP(&scanNoRecurse, "no-recurse", "d", false, "Disable recursively scanning subdirectories")
	scanCmd.Flags().StringVarP(&scanFileTypes, "filetypes", "f", "", "Only scan these file types (comma-separated)")
	scanCmd.Flags().StringVarP(&scanReportDrivers, "drivers", "s", "", "Only report these drivers (comma-separated)")
	scanCmd.Flags().StringVar(&scanOnlyDrivers, "only", "", "Only evaluate these drivers (comma-separated)")
	scanCmd.Flags().BoolVarP(&scanUnidentified, "unidentified", "u", false, "Also report unidentified files")
	scanCmd.Flags().BoolVarP(&scanOnlyUnidentified, "only-unidentified", "o", false, "Only report unidentified files")
	scanCmd.Flags().StringVar(&scanFormat, "format", "human", "Output format: human, json, sarif")
	scanCmd.Flags().StringVar(&scanColor, "color", "auto", "Color output: auto, always, never")
	scanCmd.Flags().StringVar(&scanOutputPath, "output", store.MemoryPath, "Result database path")
	scanCmd.Flags().StringVar(&scanDatastore, "datastore", "", "Datastore directory (replaces --output)")
	scanCmd.Flags().BoolVar(&scanStoreBlobs, "store-blobs", false, "Keep a copy of every scanned file in the datastore")
	scanCmd.Flags().BoolVar(&scanIncremental, "incremental", false, "Reuse stored results for unchanged files")
	scanCmd.Flags().BoolVar(&scanExtractArchives, "extract-archives", false, "Scan members of .zip and .7z archives")
	scanCmd.Flags().BoolVar(&scanSkipHidden, "skip-hidden", false, "Skip hidden files and directories")
	scanCmd.Flags().BoolVar(&scanGitignore, "gitignore", false, "Honor .gitignore files at the top of scanned directories")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", 0, "Maximum file size to scan in bytes (0 = no limit)")
	scanCmd.Flags().IntVar(&scanContextBytes, "context-bytes", 16, "Bytes of context captured around each hit")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(logger).LoadFile(scanConfigPath)
	if err != nil {
		return err
	}

	reg, err := registry.New(cfg.Drivers)
	if err != nil {
		return err
	}

	reportFilter, err := registry.ParseNames(scanReportDrivers)
	if err != nil {
		return err
	}
	scanFilter, err := registry.ParseNames(scanOnlyDrivers)
	if err != nil {
		return err
	}

	// command line file types override the config
	fileTypes := cfg.FileTypes
	if scanFileTypes != "" {
		fileTypes, err = config.ParseFileTypes(scanFileTypes)
		if err != nil {
			return err
		}
	}
	if scanAllFiles {
		fileTypes = nil
	}

	s, blobs, closeStore, err := openScanStore()
	if err != nil {
		return err
	}
	defer closeStore()

	core, err := scanner.NewCore(scanner.Config{
		Registry:      reg,
		ScanFilter:    scanFilter,
		ReportFilter:  reportFilter,
		ContextBytes:  scanContextBytes,
		Store:         s,
		Incremental:   scanIncremental,
		RulesetDigest: cfg.Digest,
		Blobs:         blobs,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w, err := newWriter(out, scanFormat, scanColor, cfg.Source, report.Options{
		ListIdentified:   !scanOnlyUnidentified,
		ListUnidentified: scanUnidentified || scanOnlyUnidentified,
		Verbose:          verbose,
	})
	if err != nil {
		return err
	}
	if h, ok := w.(*report.Human); ok {
		announced := scanFilter
		if announced.Empty() {
			announced = reportFilter
		}
		h.Header(cfg.Source, fileTypes, announced)
	}

	e := enum.NewFilesystemEnumerator(enum.Config{
		Roots:            args,
		Recurse:          !scanNoRecurse,
		FileTypes:        fileTypes,
		AllFiles:         scanAllFiles,
		SkipHidden:       scanSkipHidden,
		MaxFileSize:      scanMaxFileSize,
		ExtractArchives:  scanExtractArchives,
		RespectGitignore: scanGitignore,
	})

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session := core.Session()
	err = e.Enumerate(ctx, func(t enum.Target) error {
		result, err := core.ScanTarget(t)
		if err != nil {
			return err
		}
		w.File(result, session)
		return nil
	}, core.RecordFailure)
	if err != nil {
		return err
	}

	if core.Reused() > 0 {
		logger.Info("reused stored results", "files", core.Reused())
	}
	return w.Finish(session.Found(), session.Totals())
}

// openScanStore opens the result store named by --output or --datastore.
// blobs is nil unless --store-blobs is set.
func openScanStore() (s store.Store, blobs scanner.BlobWriter, closeFn func() error, err error) {
	if scanDatastore != "" {
		if scanOutputPath != store.MemoryPath {
			return nil, nil, nil, fmt.Errorf("--output and --datastore are mutually exclusive")
		}
		ds, err := datastore.Open(scanDatastore, datastore.Options{StoreBlobs: scanStoreBlobs})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening datastore: %w", err)
		}
		if scanStoreBlobs {
			blobs = ds.Blobs
		}
		return ds.Store, blobs, ds.Close, nil
	}

	if scanStoreBlobs {
		return nil, nil, nil, fmt.Errorf("--store-blobs requires --datastore")
	}
	if scanIncremental && scanOutputPath == store.MemoryPath {
		return nil, nil, nil, fmt.Errorf("--incremental requires a persistent --output or --datastore")
	}
	s, err = store.New(store.Config{Path: scanOutputPath})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil, s.Close, nil
}

// newWriter builds the report writer for format.
func newWriter(out io.Writer, format, colorMode, configPath string, opts report.Options) (report.Writer, error) {
	switch format {
	case "json":
		return report.NewJSON(out, configPath), nil
	case "sarif":
		return report.NewSARIF(out, version), nil
	case "human":
		enabled, err := report.ColorEnabled(colorMode, stdoutFile(out))
		if err != nil {
			return nil, err
		}
		opts.Color = enabled
		return report.NewHuman(out, opts), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// stdoutFile returns out as a file when it is one, for terminal detection.
func stdoutFile(out io.Writer) *os.File {
	f, _ := out.(*os.File)
	return f
}
