package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// Employee is the persisted workforce entity. EmployeeID is the business
// identifier; it is unique within the active snapshot.
type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	EmployeeID     string    `gorm:"type:varchar(255);uniqueIndex:idx_employees_employee_id;not null" json:"employee_id"`
	Name           string    `gorm:"type:varchar(500);index:idx_employees_name" json:"name"`
	NormalizedName string    `gorm:"type:varchar(500);index:idx_employees_normalized_name" json:"normalized_name"`
	FirstName      string    `gorm:"type:varchar(255)" json:"first_name,omitempty"`
	LastName       string    `gorm:"type:varchar(255)" json:"last_name,omitempty"`
	Email          string    `gorm:"type:varchar(320)" json:"email,omitempty"`
	Department     string    `gorm:"type:varchar(255);index:idx_employees_department" json:"department,omitempty"`
	Role           string    `gorm:"type:varchar(255);index:idx_employees_role" json:"role,omitempty"`
	Status         string    `gorm:"type:varchar(50);index:idx_employees_status" json:"status,omitempty"`
	CostCenter     string    `gorm:"type:varchar(255)" json:"cost_center,omitempty"`
	Location       string    `gorm:"type:varchar(255)" json:"location,omitempty"`
	Manager        string    `gorm:"type:varchar(500)" json:"manager,omitempty"`
	EmploymentType string    `gorm:"type:varchar(100)" json:"employment_type,omitempty"`

	BaseSalary *float64 `gorm:"type:real" json:"base_salary,omitempty"`
	FTE        *float64 `gorm:"type:real" json:"fte,omitempty"`

	StartDate string `gorm:"type:varchar(50)" json:"start_date,omitempty"`
	EndDate   string `gorm:"type:varchar(50)" json:"end_date,omitempty"`
	Birthdate string `gorm:"type:varchar(50)" json:"birthdate,omitempty"`

	ReductionProgram bool `gorm:"default:false" json:"reduction_program"`

	ImportMetadata     JSONMap `gorm:"type:text" json:"import_metadata,omitempty"`
	OrganizationalData JSONMap `gorm:"type:text" json:"organizational_data,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// BeforeCreate GORM hook
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Employment statuses recognized by the engine
func ValidStatuses() []string {
	return []string{"active", "inactive", "terminated"}
}

// IsValidStatus checks if a status is one of the recognized values
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// NewEmployee is the single validated factory building an Employee from a
// canonical record. Malformed or unknown values are nulled at this boundary;
// the pipeline never constructs employees by ad hoc map access.
func NewEmployee(record CanonicalRecord, rowNumber int, importID uuid.UUID) Employee {
	name := record.StringValue(FieldName)

	emp := Employee{
		ID:             uuid.New(),
		EmployeeID:     strings.TrimSpace(record.StringValue(FieldEmployeeID)),
		Name:           name,
		NormalizedName: NormalizeName(name),
		FirstName:      record.StringValue(FieldFirstName),
		LastName:       record.StringValue(FieldLastName),
		Email:          record.StringValue(FieldEmail),
		Department:     record.StringValue(FieldDepartment),
		Role:           record.StringValue(FieldRole),
		Status:         record.StringValue(FieldStatus),
		CostCenter:     record.StringValue(FieldCostCenter),
		Location:       record.StringValue(FieldLocation),
		Manager:        record.StringValue(FieldManager),
		EmploymentType: record.StringValue(FieldEmploymentType),

		BaseSalary: record.FloatValue(FieldBaseSalary),
		FTE:        record.FloatValue(FieldFTE),

		StartDate: record.StringValue(FieldStartDate),
		EndDate:   record.StringValue(FieldEndDate),
		Birthdate: record.StringValue(FieldBirthdate),

		ReductionProgram: record.BoolValue(FieldReductionProgram),

		ImportMetadata: JSONMap{
			"importId":  importID.String(),
			"rowNumber": rowNumber,
		},
		OrganizationalData: JSONMap{
			"department": record.StringValue(FieldDepartment),
			"costCenter": record.StringValue(FieldCostCenter),
			"location":   record.StringValue(FieldLocation),
			"manager":    record.StringValue(FieldManager),
		},
	}

	return emp
}

// NormalizeName lowercases, trims, strips diacritics and collapses
// whitespace so the name index survives accent and casing differences.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return s
	}

	// NFD decomposition splits characters like 'e' into 'e' + combining
	// accent; dropping the combining marks strips the accents.
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// JSONMap is a custom type for JSON-encoded map columns
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}

	return json.Unmarshal(data, m)
}
