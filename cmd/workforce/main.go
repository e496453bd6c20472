package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/config"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "workforce",
	Short: "Workforce import and aggregation engine",
	Long:  "Imports tabular HR datasets into a local embedded database with validation, column mapping, and snapshot replacement, and computes streaming aggregate statistics over the stored workforce.",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	log := logger.Initialize(cfg.Environment)

	rootCmd.AddCommand(newImportCmd(cfg, log))
	rootCmd.AddCommand(newHistoryCmd(cfg, log))
	rootCmd.AddCommand(newStatsCmd(cfg, log))
	rootCmd.AddCommand(newMetricsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
