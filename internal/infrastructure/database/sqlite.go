package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/config"
)

// SQLiteDB wraps the GORM connection to the embedded database. The store is
// single-process, single-user, and local to one execution environment.
type SQLiteDB struct {
	DB     *gorm.DB
	logger *slog.Logger
}

// NewSQLiteDB opens (or creates) the embedded database file
func NewSQLiteDB(cfg *config.Config, appLogger *slog.Logger) (*SQLiteDB, error) {
	// WAL keeps reads open while an import writes; busy_timeout covers the
	// handoff between batch transactions.
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		cfg.DBPath, cfg.DBBusyTimeout)

	gormLogger := logger.Default.LogMode(logger.Silent)
	if cfg.DBLogLevel == "debug" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true, // Batch writes manage their own transactions
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	appLogger.Info("database opened",
		slog.String("path", cfg.DBPath),
	)

	return &SQLiteDB{
		DB:     db,
		logger: appLogger,
	}, nil
}

// Close closes the database connection
func (db *SQLiteDB) Close() error {
	db.logger.Info("closing database")
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks if the database is reachable
func (db *SQLiteDB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Health returns health status of the database
func (db *SQLiteDB) Health(ctx context.Context) map[string]interface{} {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return map[string]interface{}{
			"status": "down",
			"error":  err.Error(),
		}
	}

	stats := sqlDB.Stats()

	return map[string]interface{}{
		"status":           "up",
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"idle":             stats.Idle,
	}
}

// AutoMigrate runs automatic migrations for the given models
func (db *SQLiteDB) AutoMigrate(models ...interface{}) error {
	db.logger.Info("running auto migrations")
	if err := db.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	db.logger.Info("migrations completed successfully")
	return nil
}
