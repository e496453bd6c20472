package domain

// Canonical field keys. Source columns are mapped onto this fixed,
// engine-defined set; the transformer never emits a key outside it.
const (
	FieldEmployeeID       = "employeeId"
	FieldName             = "name"
	FieldFirstName        = "firstName"
	FieldLastName         = "lastName"
	FieldEmail            = "email"
	FieldDepartment       = "department"
	FieldRole             = "role"
	FieldStatus           = "status"
	FieldCostCenter       = "costCenter"
	FieldLocation         = "location"
	FieldBaseSalary       = "baseSalary"
	FieldFTE              = "fte"
	FieldStartDate        = "startDate"
	FieldEndDate          = "endDate"
	FieldBirthdate        = "birthdate"
	FieldManager          = "manager"
	FieldEmploymentType   = "employmentType"
	FieldReductionProgram = "reductionProgram"
)

// CanonicalFields returns the full canonical field set
func CanonicalFields() []string {
	return []string{
		FieldEmployeeID,
		FieldName,
		FieldFirstName,
		FieldLastName,
		FieldEmail,
		FieldDepartment,
		FieldRole,
		FieldStatus,
		FieldCostCenter,
		FieldLocation,
		FieldBaseSalary,
		FieldFTE,
		FieldStartDate,
		FieldEndDate,
		FieldBirthdate,
		FieldManager,
		FieldEmploymentType,
		FieldReductionProgram,
	}
}

// IsCanonicalField checks if a key belongs to the canonical field set
func IsCanonicalField(key string) bool {
	for _, f := range CanonicalFields() {
		if f == key {
			return true
		}
	}
	return false
}

// FieldType declares how a raw cell value is normalized
type FieldType string

const (
	FieldTypeText       FieldType = "text"
	FieldTypeDate       FieldType = "date"
	FieldTypeNumber     FieldType = "number"
	FieldTypePercentage FieldType = "percentage"
	FieldTypeBoolean    FieldType = "boolean"
)

// TransformRule governs normalization of one canonical field
type TransformRule struct {
	Type  FieldType `json:"type"`
	Split bool      `json:"split,omitempty"`
}

// TransformRules maps canonical field keys to their rules. Fields without
// a rule default to text.
type TransformRules map[string]TransformRule

// DefaultTransformRules returns the rules used for a standard HR import
func DefaultTransformRules() TransformRules {
	return TransformRules{
		FieldName:             {Type: FieldTypeText, Split: true},
		FieldStartDate:        {Type: FieldTypeDate},
		FieldEndDate:          {Type: FieldTypeDate},
		FieldBirthdate:        {Type: FieldTypeDate},
		FieldBaseSalary:       {Type: FieldTypeNumber},
		FieldFTE:              {Type: FieldTypePercentage},
		FieldReductionProgram: {Type: FieldTypeBoolean},
	}
}

// ColumnMapping maps canonical field keys to source column names. A missing
// or empty entry means the field is unmapped for this run.
type ColumnMapping map[string]string

// RawRow is one source data row: the original column values plus the
// 1-based row number in the source file (the header is row 1).
type RawRow struct {
	Number int               `json:"number"`
	Values map[string]string `json:"values"`
}

// CanonicalRecord is the transformer output: canonical field key to
// normalized value (string, float64, bool) or nil.
type CanonicalRecord map[string]interface{}

// StringValue returns the record value as a trimmed string, or "" when the
// field is absent, nil, or not textual.
func (r CanonicalRecord) StringValue(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// FloatValue returns the record value as a float64 pointer, or nil
func (r CanonicalRecord) FloatValue(key string) *float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

// BoolValue returns the record value as a bool, or false
func (r CanonicalRecord) BoolValue(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

// IsEmpty reports whether the field is absent, nil, or an empty string
func (r CanonicalRecord) IsEmpty(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return true
	}
	if s, isStr := v.(string); isStr {
		return s == ""
	}
	return false
}
