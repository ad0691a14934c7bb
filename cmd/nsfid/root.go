package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// LogLevelEnvVar sets the log level when --log-level is not given.
const LogLevelEnvVar = "NSFID_LOG_LEVEL"

var (
	verbose  bool
	quiet    bool
	logLevel string

	logger = log.Default()
)

var rootCmd = &cobra.Command{
	Use:   "nsfid",
	Short: "nsfid - play routine/driver identifier for binary music rips",
	Long: `nsfid identifies the playback driver of binary rips of computer music
(NSF, SID and similar) by matching byte signatures from a driver config.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from "+LogLevelEnvVar+")")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(driversCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(rescanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	l, err := newLogger(cmd.ErrOrStderr(), resolveLogLevel())
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// resolveLogLevel picks the level from --log-level, then the environment,
// then -q/-v. Warnings are shown by default.
func resolveLogLevel() string {
	switch {
	case logLevel != "":
		return logLevel
	case os.Getenv(LogLevelEnvVar) != "":
		return os.Getenv(LogLevelEnvVar)
	case quiet:
		return "error"
	case verbose:
		return "info"
	default:
		return "warn"
	}
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: false,
	}), nil
}
