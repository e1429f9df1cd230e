package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"provision-machine/internal/logger"
)

// logLevel holds the log threshold name set via the `--log-level` flag.
var logLevel string

// configPath holds the path to the main configuration YAML file,
// passed via the `--config` or `-c` flag.
var configPath string

// rootCmd is the base command for the CLI tool `provision-machine`.
var rootCmd = &cobra.Command{
	Use:   "provision-machine",
	Short: "Declarative workstation provisioning tool",

	// PersistentPreRun runs before any subcommand; it configures the
	// logger threshold from the global flag.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.ParseLevel(logLevel))
	},

	SilenceUsage: true,
}

// Execute parses flags and runs the selected subcommand. A run that
// completes with per-item failures still exits 0; only an error returned
// by a command itself (configuration load failure and the like) exits 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "Info", "Log threshold (Debug|Info|Warning|Error)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to configuration file")
}
