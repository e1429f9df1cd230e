package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"provision-machine/internal/cleanup"
	"provision-machine/internal/config"
	"provision-machine/internal/logger"
)

// cleanCmd purges the configured cache and temp locations.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Purge configured cache and temp directories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			logger.Errorf("cli", "failed to load configuration: %v", err)
			return err
		}
		if len(cfg.Cleanup) == 0 {
			logger.Infof("cli", "no cleanup rules configured")
			return nil
		}

		removed := cleanup.Clean(afero.NewOsFs(), cfg.Cleanup, time.Now())
		fmt.Printf("Cleanup finished: %d entries removed\n", removed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
