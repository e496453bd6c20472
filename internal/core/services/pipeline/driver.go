// Package pipeline drives the chunked validation and import phases over the
// full row set, emitting progress and throughput events per chunk.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/services/transformer"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/services/validator"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/metrics"
)

// Fixed chunk sizes. Chunking interleaves computation with cooperative
// scheduling between chunks; it does not parallelize across chunks.
const (
	ValidationChunkSize = 1000
	ImportChunkSize     = 2000
)

// Phase names carried by progress events
const (
	PhaseParsing    = "parsing"
	PhaseValidating = "validating"
	PhaseImporting  = "importing"
	PhaseStoring    = "storing"
)

// Progress is one progress/throughput sample emitted after each chunk
type Progress struct {
	Phase          string  `json:"phase"`
	Progress       int     `json:"progress"`
	Message        string  `json:"message"`
	ProcessedCount int     `json:"processedCount"`
	TotalCount     int     `json:"totalCount"`
	Speed          float64 `json:"speed"`
}

// ProgressFunc receives progress samples. A nil ProgressFunc is allowed.
type ProgressFunc func(Progress)

// ImportOutcome is the terminal summary of a full-import phase. Every input
// row is accounted for in exactly one of successful, skipped, or failed.
type ImportOutcome struct {
	TotalRows    int
	Processed    int
	Successful   int
	Skipped      int
	Failed       int
	Deduplicated int

	// Records holds the transformed employees in input order after
	// last-wins deduplication by business identifier.
	Records []domain.Employee

	Issues       []domain.ValidationIssue
	DuplicateIDs []string
}

// Report builds the exportable issue document for this outcome
func (o *ImportOutcome) Report() *domain.ValidationReport {
	return domain.NewValidationReport(o.TotalRows, o.Successful, o.Issues, o.DuplicateIDs)
}

// Driver runs the validation-preview and full-import phases
type Driver struct {
	logger *slog.Logger
}

// NewDriver creates a pipeline driver
func NewDriver(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Driver{logger: logger}
}

// ValidatePreview runs the validation phase over all rows in chunks of
// ValidationChunkSize, without building employee records. Duplicate
// detection uses its own tracker scoped to the preview.
func (d *Driver) ValidatePreview(ctx context.Context, rows []domain.RawRow, mapping domain.ColumnMapping, rules domain.TransformRules, requiredFields []string, onProgress ProgressFunc) (*domain.ValidationReport, error) {
	total := len(rows)
	started := time.Now()
	tracker := validator.NewDuplicateTracker()

	var issues []domain.ValidationIssue
	validRows := 0

	for start := 0; start < total; start += ValidationChunkSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		end := start + ValidationChunkSize
		if end > total {
			end = total
		}

		for _, row := range rows[start:end] {
			record := transformer.Transform(row, mapping, rules)
			result := validator.Validate(record, requiredFields, row.Number)

			dupIssue := tracker.Check(record.StringValue(domain.FieldEmployeeID), row.Number)
			if dupIssue != nil {
				result.Errors = append(result.Errors, *dupIssue)
				result.IsValid = false
			}

			issues = append(issues, result.Issues()...)
			if result.IsValid {
				validRows++
			}
		}

		emitProgress(onProgress, PhaseValidating, end, total, started,
			fmt.Sprintf("validated %d of %d rows", end, total))
	}

	d.logger.Info("validation preview completed",
		slog.Int("total_rows", total),
		slog.Int("valid_rows", validRows),
		slog.Int("issue_count", len(issues)),
		slog.Int64("elapsed_ms", time.Since(started).Milliseconds()))

	return domain.NewValidationReport(total, validRows, issues, tracker.DuplicateIDs()), nil
}

// RunImport runs the full import phase: per row, transform then validate,
// then classify into successful, skipped, or failed. Rows are never dropped
// silently. A panic while building one record is caught per-row and recorded
// as a processing_error.
func (d *Driver) RunImport(ctx context.Context, rows []domain.RawRow, mapping domain.ColumnMapping, rules domain.TransformRules, skipInvalidRows bool, onProgress ProgressFunc) (*ImportOutcome, error) {
	total := len(rows)
	started := time.Now()
	importID := uuid.New()
	tracker := validator.NewDuplicateTracker()

	outcome := &ImportOutcome{
		TotalRows: total,
		Records:   make([]domain.Employee, 0, total),
	}

	// index of an employee id inside outcome.Records, for last-wins
	// replacement of duplicate identifiers
	recordIndex := make(map[string]int)

	for start := 0; start < total; start += ImportChunkSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		end := start + ImportChunkSize
		if end > total {
			end = total
		}

		for _, row := range rows[start:end] {
			d.importRow(row, mapping, rules, skipInvalidRows, importID, tracker, recordIndex, outcome)
			outcome.Processed++
		}

		emitProgress(onProgress, PhaseImporting, end, total, started,
			fmt.Sprintf("imported %d of %d rows", end, total))
	}

	outcome.DuplicateIDs = tracker.DuplicateIDs()

	metrics.RowsProcessed.Add(outcome.Processed)
	metrics.RowsSuccessful.Add(outcome.Successful)
	metrics.RowsSkipped.Add(outcome.Skipped)
	metrics.RowsFailed.Add(outcome.Failed)

	d.logger.Info("import phase completed",
		slog.Int("total_rows", outcome.TotalRows),
		slog.Int("successful", outcome.Successful),
		slog.Int("skipped", outcome.Skipped),
		slog.Int("failed", outcome.Failed),
		slog.Int("deduplicated", outcome.Deduplicated),
		slog.Int64("elapsed_ms", time.Since(started).Milliseconds()))

	return outcome, nil
}

// importRow processes one row. Panics are contained here so a single
// malformed row cannot abort the run.
func (d *Driver) importRow(row domain.RawRow, mapping domain.ColumnMapping, rules domain.TransformRules, skipInvalidRows bool, importID uuid.UUID, tracker *validator.DuplicateTracker, recordIndex map[string]int, outcome *ImportOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome.Failed++
			outcome.Issues = append(outcome.Issues, domain.ValidationIssue{
				Kind:      domain.IssueProcessingError,
				Field:     "",
				Message:   fmt.Sprintf("unexpected failure while building record: %v", r),
				RowNumber: row.Number,
			})
			d.logger.Error("row processing panic",
				slog.Int("row", row.Number),
				slog.Any("panic", r))
		}
	}()

	record := transformer.Transform(row, mapping, rules)
	result := validator.Validate(record, []string{domain.FieldEmployeeID}, row.Number)
	outcome.Issues = append(outcome.Issues, result.Issues()...)

	if !result.IsValid && skipInvalidRows {
		outcome.Skipped++
		return
	}

	employeeID := record.StringValue(domain.FieldEmployeeID)
	if employeeID == "" {
		// Never lose a row silently: a missing identifier already produced a
		// missing_required error, but the row is still retained under a
		// generated fallback identifier when skip-invalid is off.
		employeeID = fallbackEmployeeID(row.Number)
		record[domain.FieldEmployeeID] = employeeID
	}

	if dupIssue := tracker.Check(employeeID, row.Number); dupIssue != nil {
		outcome.Issues = append(outcome.Issues, *dupIssue)
	}

	emp := domain.NewEmployee(record, row.Number, importID)

	if idx, seen := recordIndex[employeeID]; seen {
		// Last occurrence wins; the earlier one is deduplicated away.
		outcome.Records[idx] = emp
		outcome.Deduplicated++
	} else {
		recordIndex[employeeID] = len(outcome.Records)
		outcome.Records = append(outcome.Records, emp)
	}

	if result.IsValid {
		outcome.Successful++
	} else {
		outcome.Failed++
	}
}

// fallbackEmployeeID generates an identifier from the current timestamp and
// the row index for rows whose mapped identifier was empty
func fallbackEmployeeID(rowNumber int) string {
	return fmt.Sprintf("GEN-%d-%d", time.Now().UnixMilli(), rowNumber)
}

// emitProgress reports one sample. Percent is the floor of processed/total;
// speed is rows per second since the phase started, zero until elapsed time
// is non-zero.
func emitProgress(onProgress ProgressFunc, phase string, processed, total int, started time.Time, message string) {
	if onProgress == nil {
		return
	}

	percent := 0
	if total > 0 {
		percent = processed * 100 / total
	}

	speed := 0.0
	if elapsed := time.Since(started).Seconds(); elapsed > 0 {
		speed = float64(processed) / elapsed
	}

	onProgress(Progress{
		Phase:          phase,
		Progress:       percent,
		Message:        message,
		ProcessedCount: processed,
		TotalCount:     total,
		Speed:          speed,
	})
}
