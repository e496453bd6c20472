package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/infrastructure/database"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/infrastructure/database/repositories"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/config"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/metrics"
)

func newHistoryCmd(cfg *config.Config, log *slog.Logger) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed imports, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewSQLiteDB(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.AutoMigrate(&domain.ImportRecord{}); err != nil {
				return err
			}

			repo := repositories.NewImportRecordRepository(db.DB, log)
			records, err := repo.List(context.Background(), limit)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println("no imports recorded")
				return nil
			}

			for _, r := range records {
				fmt.Printf("%s  %-30s  %6d rows  ok=%d skip=%d fail=%d  %dms  headcount=%d\n",
					r.Timestamp.Format("2006-01-02 15:04:05"),
					r.FileName,
					r.TotalRecords,
					r.RecordsSuccessful,
					r.RecordsSkipped,
					r.RecordsFailed,
					r.ProcessingTimeMs,
					r.Snapshot.TotalEmployees)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of entries to list")
	return cmd
}

func newStatsCmd(cfg *config.Config, log *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Recompute and print the aggregate snapshot of the stored workforce",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.NewSQLiteDB(cfg, log)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.AutoMigrate(&domain.Employee{}); err != nil {
				return err
			}

			repo := repositories.NewEmployeeRepository(db.DB, log)
			stats, err := repo.ComputeStats(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("headcount: %d, total FTE: %.2f, total salary: %.2f, reduction program: %d\n",
				stats.TotalEmployees, stats.TotalFTE, stats.TotalSalary, stats.ReductionCount)

			printDimension("department", stats.ByDepartment)
			printDimension("status", stats.ByStatus)
			printDimension("location", stats.ByLocation)
			return nil
		},
	}
}

func newMetricsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Dump process counters in Prometheus text format",
		Run: func(cmd *cobra.Command, args []string) {
			metrics.WritePrometheus(os.Stdout)
		},
	}
}

func printDimension(name string, buckets map[string]domain.DimensionStats) {
	if len(buckets) == 0 {
		return
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Printf("by %s:\n", name)
	for _, k := range keys {
		b := buckets[k]
		fmt.Printf("  %-25s count=%d fte=%.2f salary=%.2f reduction=%d\n",
			k, b.Count, b.FTESum, b.SalarySum, b.ReductionCount)
	}
}
