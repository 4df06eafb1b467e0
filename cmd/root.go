package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coastwatch/habitat-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "habitat-cli",
	Short: "Marine aquaculture suitability mapping",
	Long:  "Classifies sea-surface temperature and bathymetry rasters against species tolerance windows, aggregates suitable area per exclusive economic zone, and renders maps and tables.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
