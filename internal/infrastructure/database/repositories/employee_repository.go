package repositories

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
)

// WriteBatchSize is the fixed number of records per storage transaction
// during snapshot replacement.
const WriteBatchSize = 500

// statsBatchSize is the cursor batch for the streaming aggregation
const statsBatchSize = 1000

// EmployeeRepository persists the employee snapshot using GORM
type EmployeeRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewEmployeeRepository creates a new repository instance
func NewEmployeeRepository(db *gorm.DB, logger *slog.Logger) *EmployeeRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &EmployeeRepository{
		db:     db,
		logger: logger,
	}
}

// ReplaceAll implements snapshot replacement: deduplicate the incoming
// records by business identifier (last occurrence wins), clear the entire
// store, then insert fresh in fixed batches of WriteBatchSize, one storage
// transaction per batch. onBatch is invoked after every committed batch.
//
// Each import is a full point-in-time replacement, not an incremental
// merge; upsert-by-identifier is deliberately not supported.
func (r *EmployeeRepository) ReplaceAll(ctx context.Context, employees []domain.Employee, onBatch func(written, total int)) error {
	deduped := dedupeLastWins(employees)
	total := len(deduped)

	r.logger.Info("starting snapshot replacement",
		slog.Int("incoming", len(employees)),
		slog.Int("after_dedup", total))

	if err := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Employee{}).
		Error; err != nil {
		return fmt.Errorf("failed to clear employee store: %w", err)
	}

	written := 0
	for start := 0; start < total; start += WriteBatchSize {
		end := start + WriteBatchSize
		if end > total {
			end = total
		}
		batch := deduped[start:end]

		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(&batch).Error
		})
		if err != nil {
			return fmt.Errorf("failed to insert batch at offset %d: %w", start, err)
		}

		written = end
		if onBatch != nil {
			onBatch(written, total)
		}
	}

	r.logger.Info("snapshot replacement completed",
		slog.Int("written", written))

	return nil
}

// dedupeLastWins collapses records sharing a business identifier, keeping
// the latest occurrence in input order at the position of the first.
func dedupeLastWins(employees []domain.Employee) []domain.Employee {
	index := make(map[string]int, len(employees))
	out := make([]domain.Employee, 0, len(employees))

	for _, emp := range employees {
		key := strings.TrimSpace(emp.EmployeeID)
		if key == "" {
			out = append(out, emp)
			continue
		}
		if i, seen := index[key]; seen {
			out[i] = emp
			continue
		}
		index[key] = len(out)
		out = append(out, emp)
	}

	return out
}

// ComputeStats runs the streaming aggregation: one forward cursor pass over
// the employee store, accumulating totals and per-dimension rollups without
// ever materializing the full table in memory. Memory use is bounded by
// dimension cardinality regardless of table size.
func (r *EmployeeRepository) ComputeStats(ctx context.Context) (*domain.AggregateStats, error) {
	stats := domain.NewAggregateStats()

	var batch []domain.Employee
	err := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		FindInBatches(&batch, statsBatchSize, func(tx *gorm.DB, batchNo int) error {
			for i := range batch {
				stats.Add(&batch[i])
			}
			return nil
		}).
		Error

	if err != nil {
		r.logger.Error("streaming aggregation failed",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	r.logger.Debug("streaming aggregation completed",
		slog.Int("employees", stats.TotalEmployees))

	return stats, nil
}

// Count returns the active snapshot's headcount
func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Employee{}).
		Count(&count).
		Error
	if err != nil {
		return 0, fmt.Errorf("database query failed: %w", err)
	}
	return count, nil
}

// FindByEmployeeID looks up one employee by business identifier
func (r *EmployeeRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*domain.Employee, error) {
	var emp domain.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&emp).
		Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// FindByDepartment lists the employees of one department
func (r *EmployeeRepository) FindByDepartment(ctx context.Context, department string) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := r.db.WithContext(ctx).
		Where("department = ?", department).
		Order("normalized_name ASC").
		Find(&employees).
		Error
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return employees, nil
}
