package repositories

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
)

// ImportRecordRepository persists the append-only import history
type ImportRecordRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewImportRecordRepository creates a new repository instance
func NewImportRecordRepository(db *gorm.DB, logger *slog.Logger) *ImportRecordRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &ImportRecordRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores one import record. Records are never mutated afterwards.
func (r *ImportRecordRepository) Create(ctx context.Context, record *domain.ImportRecord) error {
	err := r.db.WithContext(ctx).
		Create(record).
		Error
	if err != nil {
		r.logger.Error("failed to save import record",
			slog.String("file", record.FileName),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to insert import record: %w", err)
	}

	r.logger.Info("saved import record",
		slog.String("file", record.FileName),
		slog.Int("total_records", record.TotalRecords))

	return nil
}

// List returns the import history, newest first
func (r *ImportRecordRepository) List(ctx context.Context, limit int) ([]domain.ImportRecord, error) {
	var records []domain.ImportRecord

	query := r.db.WithContext(ctx).
		Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	return records, nil
}

// Latest returns the most recent import record
func (r *ImportRecordRepository) Latest(ctx context.Context) (*domain.ImportRecord, error) {
	var record domain.ImportRecord
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		First(&record).
		Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}
