package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"vetgate/internal/logging"
)

const version = "0.3.0"

// Exit codes. CI gates key off ExitRejected.
const (
	ExitSuccess      = 0
	ExitRejected     = 1
	ExitUsageError   = 2
	ExitConfigError  = 3
	ExitRuntimeError = 4
)

var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "vetgate",
	Short: "CI gate merging static analysis with AI code review",
	Long: "Vetgate runs rule-based analyzers and a generative reviewer over a " +
		"change-set, merges both into one report, and exits non-zero when the " +
		"auto-reject threshold is exceeded.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		switch flagLogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		logging.Init(level, "text", os.Stderr)
	},
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns the process exit code.
func Run() int {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (yaml or toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already printed the error
		return ExitUsageError
	}
	return exitCode
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print vetgate version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "vetgate version %s\n", version)
	},
}
