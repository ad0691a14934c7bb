package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsfid/nsfid/pkg/config"
	"github.com/nsfid/nsfid/pkg/registry"
	"github.com/nsfid/nsfid/pkg/scanner"
	"github.com/nsfid/nsfid/pkg/serve"
	"github.com/spf13/cobra"
)

var (
	serveConfigPath   string
	serveOnlyDrivers  string
	serveContextBytes int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming identification server",
	Long: `Run nsfid as a long-lived server that accepts identify requests
via stdin and writes results to stdout using NDJSON format.

The driver config is loaded once at startup and requests are processed
until stdin closes or SIGTERM is received.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "nsfid.cfg", "Driver config file")
	serveCmd.Flags().StringVar(&serveOnlyDrivers, "only", "", "Only evaluate these drivers (comma-separated)")
	serveCmd.Flags().IntVar(&serveContextBytes, "context-bytes", 16, "Bytes of context captured around each hit")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(logger).LoadFile(serveConfigPath)
	if err != nil {
		return err
	}
	reg, err := registry.New(cfg.Drivers)
	if err != nil {
		return err
	}
	scanFilter, err := registry.ParseNames(serveOnlyDrivers)
	if err != nil {
		return err
	}

	core, err := scanner.NewCore(scanner.Config{
		Registry:      reg,
		ScanFilter:    scanFilter,
		ContextBytes:  serveContextBytes,
		RulesetDigest: cfg.Digest,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	srv := serve.NewServer(core, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
