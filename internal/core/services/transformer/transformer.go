// Package transformer applies a column mapping and per-field transform
// rules to raw rows, producing canonical records.
package transformer

import (
	"strings"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/services/normalizer"
)

// statusCodes maps common short codes and words onto the recognized
// employment statuses. Unknown values fall back to the normalized value.
var statusCodes = map[string]string{
	"a":          "active",
	"active":     "active",
	"1":          "active",
	"i":          "inactive",
	"inactive":   "inactive",
	"0":          "inactive",
	"t":          "terminated",
	"terminated": "terminated",
	"9":          "terminated",
}

// Transform applies the column mapping and transform rules to one raw row.
// Unmapped canonical fields are absent from the result; that is not an
// error. Derived keys (firstName/lastName) may be injected by split rules.
func Transform(row domain.RawRow, mapping domain.ColumnMapping, rules domain.TransformRules) domain.CanonicalRecord {
	record := make(domain.CanonicalRecord)

	for field, column := range mapping {
		if column == "" {
			continue
		}
		raw, ok := row.Values[column]
		if !ok {
			continue
		}

		fieldType := domain.FieldTypeText
		if rule, hasRule := rules[field]; hasRule && rule.Type != "" {
			fieldType = rule.Type
		}

		record[field] = normalizer.Normalize(raw, fieldType)
	}

	applyNameSplit(record, rules)
	applyStatusCodes(record)

	return record
}

// applyNameSplit derives firstName/lastName from the name field when its
// rule requests splitting. The full name is preserved.
func applyNameSplit(record domain.CanonicalRecord, rules domain.TransformRules) {
	rule, ok := rules[domain.FieldName]
	if !ok || !rule.Split {
		return
	}

	name := record.StringValue(domain.FieldName)
	if name == "" {
		return
	}

	parts := strings.Fields(name)
	if len(parts) == 0 {
		return
	}

	record[domain.FieldFirstName] = parts[0]
	if len(parts) > 1 {
		record[domain.FieldLastName] = strings.Join(parts[1:], " ")
	}
}

// applyStatusCodes passes the status value through the fixed code table
func applyStatusCodes(record domain.CanonicalRecord) {
	value, ok := record[domain.FieldStatus]
	if !ok || value == nil {
		return
	}

	s, isStr := value.(string)
	if !isStr {
		return
	}

	if mapped, known := statusCodes[strings.ToLower(strings.TrimSpace(s))]; known {
		record[domain.FieldStatus] = mapped
	}
}
