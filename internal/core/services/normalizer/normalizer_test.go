package normalizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
)

func TestNormalize_NullTokens(t *testing.T) {
	tests := []struct {
		raw string
	}{
		{""},
		{"   "},
		{"n/a"},
		{"N/A"},
		{"null"},
		{"NULL"},
		{"undefined"},
	}

	types := []domain.FieldType{
		domain.FieldTypeText,
		domain.FieldTypeDate,
		domain.FieldTypeNumber,
		domain.FieldTypePercentage,
		domain.FieldTypeBoolean,
	}

	for _, tt := range tests {
		for _, ft := range types {
			t.Run(fmt.Sprintf("%q_%s", tt.raw, ft), func(t *testing.T) {
				assert.Nil(t, Normalize(tt.raw, ft))
			})
		}
	}
}

func TestNormalize_Text(t *testing.T) {
	assert.Equal(t, "Sales", Normalize("  Sales  ", domain.FieldTypeText))
	assert.Equal(t, "Sales", Normalize("Sales", ""))
}

func TestNormalize_DatePassthrough(t *testing.T) {
	tests := []struct {
		raw string
	}{
		{"01/15/2023"},
		{"1/5/2023"},
		{"15.01.2023"},
		{"2023-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			// Recognized textual patterns pass through unchanged
			assert.Equal(t, tt.raw, Normalize(tt.raw, domain.FieldTypeDate))
		})
	}
}

func TestNormalize_DateSerial(t *testing.T) {
	// Serial 25569 is the epoch anchor: 1970-01-01
	assert.Equal(t, "1970-01-01", Normalize("25569", domain.FieldTypeDate))
	assert.Equal(t, "2024-01-01", Normalize("45292", domain.FieldTypeDate))
	assert.Equal(t, "2023-01-01", Normalize("44927", domain.FieldTypeDate))
}

func TestNormalize_DateSerialIdempotent(t *testing.T) {
	// Serial input converts once; the ISO output is a no-op on a second pass
	first := Normalize("45292", domain.FieldTypeDate)
	second := Normalize(first.(string), domain.FieldTypeDate)
	assert.Equal(t, first, second)
}

func TestNormalize_DateUnrecognized(t *testing.T) {
	// Unrecognized formats are not rejected here; the validator decides
	assert.Equal(t, "sometime soon", Normalize("sometime soon", domain.FieldTypeDate))
	assert.Equal(t, "15 Jan 2023", Normalize("15 Jan 2023", domain.FieldTypeDate))
}

func TestNormalize_Number(t *testing.T) {
	assert.Equal(t, 50000.0, Normalize("50000", domain.FieldTypeNumber))
	assert.Equal(t, 0.75, Normalize("0.75", domain.FieldTypeNumber))
	assert.Equal(t, -12.5, Normalize("-12.5", domain.FieldTypeNumber))
	assert.Nil(t, Normalize("abc", domain.FieldTypeNumber))
}

func TestNormalize_Percentage(t *testing.T) {
	tests := []struct {
		raw      string
		expected interface{}
	}{
		{"0.8", 80.0},
		{"80", 80.0},
		{"80%", 80.0},
		{"0.5", 50.0},
		{"100", 100.0},
		// Boundary: exactly 1 is treated as a fraction
		{"1", 100.0},
		{"1.0", 100.0},
		{"1.5", 1.5},
		{"abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.raw, domain.FieldTypePercentage))
		})
	}
}

func TestNormalize_PercentageIdempotent(t *testing.T) {
	first := Normalize("0.8", domain.FieldTypePercentage)
	second := Normalize(fmt.Sprintf("%v", first), domain.FieldTypePercentage)
	assert.Equal(t, first, second)
}

func TestNormalize_Boolean(t *testing.T) {
	truthy := []string{"true", "T", "yes", "Y", "1", "active", "A"}
	for _, raw := range truthy {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, true, Normalize(raw, domain.FieldTypeBoolean))
		})
	}

	falsy := []string{"false", "F", "no", "N", "0", "inactive", "I"}
	for _, raw := range falsy {
		t.Run(raw, func(t *testing.T) {
			assert.Equal(t, false, Normalize(raw, domain.FieldTypeBoolean))
		})
	}

	// Tri-state: unknown tokens are nil, not false
	assert.Nil(t, Normalize("maybe", domain.FieldTypeBoolean))
	assert.Nil(t, Normalize("2", domain.FieldTypeBoolean))
}

func TestNormalize_TextIdempotent(t *testing.T) {
	first := Normalize("  Engineering  ", domain.FieldTypeText)
	second := Normalize(first.(string), domain.FieldTypeText)
	assert.Equal(t, first, second)
}
