package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImportRecord is one entry in the import history. It persists the counts,
// timing, issue log and aggregated snapshot of a completed run and is never
// mutated after creation.
type ImportRecord struct {
	ID                uuid.UUID     `gorm:"type:uuid;primary_key" json:"id"`
	FileName          string        `gorm:"type:varchar(500);not null" json:"fileName"`
	FileSize          int64         `gorm:"default:0" json:"fileSize"`
	TotalRecords      int           `gorm:"default:0" json:"totalRecords"`
	RecordsSuccessful int           `gorm:"default:0" json:"recordsSuccessful"`
	RecordsFailed     int           `gorm:"default:0" json:"recordsFailed"`
	RecordsSkipped    int           `gorm:"default:0" json:"recordsSkipped"`
	ProcessingTimeMs  int64         `gorm:"default:0" json:"processingTimeMs"`
	Timestamp         time.Time     `gorm:"autoCreateTime;index:idx_import_records_timestamp" json:"timestamp"`
	ErrorLog          IssueList     `gorm:"type:text" json:"errorLog"`
	Snapshot          SnapshotStats `gorm:"type:text" json:"snapshot"`
}

// TableName specifies the table name for GORM
func (ImportRecord) TableName() string {
	return "import_records"
}

// BeforeCreate GORM hook
func (r *ImportRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IssueList is a JSON-encoded column of validation issues
type IssueList []ValidationIssue

// Value implements the driver.Valuer interface
func (l IssueList) Value() (driver.Value, error) {
	if l == nil {
		return json.Marshal([]ValidationIssue{})
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *IssueList) Scan(value interface{}) error {
	if value == nil {
		*l = IssueList{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for IssueList: %T", value)
	}

	return json.Unmarshal(data, l)
}

// SnapshotStats is a JSON-encoded column holding the aggregated snapshot
type SnapshotStats struct {
	AggregateStats
}

// Value implements the driver.Valuer interface
func (s SnapshotStats) Value() (driver.Value, error) {
	return json.Marshal(s.AggregateStats)
}

// Scan implements the sql.Scanner interface
func (s *SnapshotStats) Scan(value interface{}) error {
	if value == nil {
		s.AggregateStats = *NewAggregateStats()
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for SnapshotStats: %T", value)
	}

	return json.Unmarshal(data, &s.AggregateStats)
}
