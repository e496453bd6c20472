package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmployee(t *testing.T) {
	salary := 50000.0
	fte := 80.0
	record := CanonicalRecord{
		FieldEmployeeID:       " E1 ",
		FieldName:             "Björn Ødegård",
		FieldFirstName:        "Björn",
		FieldLastName:         "Ødegård",
		FieldEmail:            "bjorn@example.com",
		FieldDepartment:       "Engineering",
		FieldStatus:           "active",
		FieldBaseSalary:       salary,
		FieldFTE:              fte,
		FieldStartDate:        "2023-01-15",
		FieldReductionProgram: true,
	}

	importID := uuid.New()
	emp := NewEmployee(record, 7, importID)

	assert.NotEqual(t, uuid.Nil, emp.ID)
	assert.Equal(t, "E1", emp.EmployeeID)
	assert.Equal(t, "Björn Ødegård", emp.Name)
	assert.Equal(t, "bjorn ødegard", emp.NormalizedName)
	assert.Equal(t, "Engineering", emp.Department)
	require.NotNil(t, emp.BaseSalary)
	assert.Equal(t, salary, *emp.BaseSalary)
	require.NotNil(t, emp.FTE)
	assert.Equal(t, fte, *emp.FTE)
	assert.True(t, emp.ReductionProgram)

	assert.Equal(t, importID.String(), emp.ImportMetadata["importId"])
	assert.Equal(t, 7, emp.ImportMetadata["rowNumber"])
	assert.Equal(t, "Engineering", emp.OrganizationalData["department"])
}

func TestNewEmployee_MalformedValuesNulled(t *testing.T) {
	record := CanonicalRecord{
		FieldEmployeeID: "E1",
		FieldBaseSalary: "not a number",
		FieldFTE:        nil,
		FieldName:       42,
	}

	emp := NewEmployee(record, 2, uuid.New())

	assert.Nil(t, emp.BaseSalary)
	assert.Nil(t, emp.FTE)
	assert.Equal(t, "", emp.Name)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Jane Doe", "jane doe"},
		{"uppercase", "JANE DOE", "jane doe"},
		{"accents", "José García", "jose garcia"},
		{"umlauts", "Jürgen Müller", "jurgen muller"},
		{"whitespace", "  Jane   Doe  ", "jane doe"},
		{"empty", "", ""},
		{"spaces only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, IsValidStatus("active"))
	assert.True(t, IsValidStatus("inactive"))
	assert.True(t, IsValidStatus("terminated"))
	assert.False(t, IsValidStatus("Active"))
	assert.False(t, IsValidStatus("on leave"))
}

func TestJSONMap_RoundTrip(t *testing.T) {
	m := JSONMap{"importId": "abc", "rowNumber": float64(7)}

	value, err := m.Value()
	require.NoError(t, err)

	var decoded JSONMap
	require.NoError(t, decoded.Scan(value))
	assert.Equal(t, m, decoded)
}

func TestJSONMap_ScanNil(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan(nil))
	assert.Nil(t, m)
}

func TestJSONMap_ScanString(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan(`{"key":"value"}`))
	assert.Equal(t, "value", m["key"])
}

func TestJSONMap_ScanUnsupportedType(t *testing.T) {
	var m JSONMap
	assert.Error(t, m.Scan(42))
}
