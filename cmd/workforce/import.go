package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/services/importer"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/infrastructure/database"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/infrastructure/database/repositories"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/infrastructure/parsers"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/config"
)

// mappingFile is the on-disk shape of a column mapping document
type mappingFile struct {
	Mapping  map[string]string               `mapstructure:"mapping"`
	Rules    map[string]domain.TransformRule `mapstructure:"rules"`
	Required []string                        `mapstructure:"required"`
}

func newImportCmd(cfg *config.Config, log *slog.Logger) *cobra.Command {
	var (
		filePath    string
		mappingPath string
		skipInvalid bool
		previewOnly bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an HR dataset file into the workforce snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cfg, log, filePath, mappingPath, skipInvalid, previewOnly)
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "path to the CSV or spreadsheet file to import")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "path to the column mapping file (YAML or JSON)")
	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "skip rows that fail validation instead of persisting them with fallbacks")
	cmd.Flags().BoolVar(&previewOnly, "validate-only", false, "run the validation preview without importing")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagRequired("mapping")

	return cmd
}

func runImport(cfg *config.Config, log *slog.Logger, filePath, mappingPath string, skipInvalid, previewOnly bool) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	mapping, rules, required, err := loadMappingFile(mappingPath)
	if err != nil {
		return err
	}

	db, err := database.NewSQLiteDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AutoMigrate(&domain.Employee{}, &domain.ImportRecord{}); err != nil {
		return err
	}

	session := importer.NewSession(importer.SessionConfig{
		Worker: importer.WorkerConfig{
			EventBufferSize: cfg.EventBufferSize,
			SampleRows:      cfg.SampleRowCount,
			ParserConfig: &parsers.ParserConfig{
				SkipEmptyRows:  true,
				TrimWhitespace: true,
				MaxFileSize:    cfg.MaxFileSize * 1024 * 1024,
			},
		},
		Store:   repositories.NewEmployeeRepository(db.DB, log),
		History: repositories.NewImportRecordRepository(db.DB, log),
	}, log)
	defer session.Reset()

	if err := session.ParseFile(data, filePath); err != nil {
		return err
	}

	for event := range session.Events() {
		switch e := event.(type) {
		case importer.ReadyEvent:
			// worker startup, nothing to do

		case importer.ProgressEvent:
			fmt.Printf("\r[%s] %3d%% (%d/%d, %.0f rows/s)",
				e.Phase, e.Progress.Progress, e.ProcessedCount, e.TotalCount, e.Speed)

		case importer.ParseCompleteEvent:
			fmt.Printf("\nparsed %d rows, columns: %v\n", e.TotalRows, e.Headers)
			if previewOnly {
				if err := session.Validate(mapping, rules, required); err != nil {
					return err
				}
			} else {
				if err := session.RunImport(mapping, rules, skipInvalid); err != nil {
					return err
				}
			}

		case importer.ValidationCompleteEvent:
			printReport(e.Report)
			return nil

		case importer.ImportCompleteEvent:
			fmt.Printf("\nimport finished: %d total, %d successful, %d skipped, %d failed (%d ms)\n",
				e.Outcome.TotalRows, e.Outcome.Successful, e.Outcome.Skipped,
				e.Outcome.Failed, e.History.ProcessingTimeMs)
			printReport(e.Outcome.Report())
			return nil

		case importer.ErrorEvent:
			return fmt.Errorf("import failed: %s", e.Message)
		}
	}

	return nil
}

func loadMappingFile(path string) (domain.ColumnMapping, domain.TransformRules, []string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	var doc mappingFile
	if err := v.Unmarshal(&doc); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid mapping file: %w", err)
	}

	if len(doc.Mapping) == 0 {
		return nil, nil, nil, fmt.Errorf("mapping file defines no column mapping")
	}

	rules := domain.DefaultTransformRules()
	for field, rule := range doc.Rules {
		rules[field] = rule
	}

	required := doc.Required
	if len(required) == 0 {
		required = []string{domain.FieldEmployeeID}
	}

	return domain.ColumnMapping(doc.Mapping), rules, required, nil
}

func printReport(report *domain.ValidationReport) {
	fmt.Printf("valid rows: %d/%d, errors: %d, warnings: %d, duplicate ids: %d\n",
		report.Summary.ValidRows, report.Summary.TotalRows,
		report.Summary.ErrorCount, report.Summary.WarningCount,
		len(report.DuplicateIDs))

	for _, issue := range report.Errors {
		fmt.Printf("  error:   %s\n", issue)
	}
	for _, issue := range report.Warnings {
		fmt.Printf("  warning: %s\n", issue)
	}
}
