// Package validator checks canonical records against required-field and
// format rules, classifying defects into errors and warnings.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// dateFields is the fixed set of date-bearing canonical fields whose values
// must parse as valid calendar dates when present.
var dateFields = []string{
	domain.FieldStartDate,
	domain.FieldEndDate,
	domain.FieldBirthdate,
}

// dateLayouts are the calendar layouts accepted across the engine; the
// non-padded forms also match zero-padded input.
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"2.1.2006",
}

// Result carries the classified issues for one record. Warnings never
// affect validity.
type Result struct {
	Errors   []domain.ValidationIssue
	Warnings []domain.ValidationIssue
	IsValid  bool
}

// Issues returns errors and warnings as a single list
func (r Result) Issues() []domain.ValidationIssue {
	issues := make([]domain.ValidationIssue, 0, len(r.Errors)+len(r.Warnings))
	issues = append(issues, r.Errors...)
	issues = append(issues, r.Warnings...)
	return issues
}

// Validate checks one canonical record. requiredFields name the canonical
// fields that must carry a non-empty value; for a full import only
// employeeId is required, a preview pass may check more.
func Validate(record domain.CanonicalRecord, requiredFields []string, rowNumber int) Result {
	result := Result{}

	for _, field := range requiredFields {
		if record.IsEmpty(field) {
			result.Errors = append(result.Errors, domain.ValidationIssue{
				Kind:      domain.IssueMissingRequired,
				Field:     field,
				Message:   fmt.Sprintf("required field %q is empty", field),
				RowNumber: rowNumber,
			})
		}
	}

	if email := record.StringValue(domain.FieldEmail); email != "" {
		if !emailRe.MatchString(email) {
			result.Warnings = append(result.Warnings, domain.ValidationIssue{
				Kind:      domain.IssueInvalidEmail,
				Field:     domain.FieldEmail,
				Message:   fmt.Sprintf("%q is not a valid email address", email),
				RowNumber: rowNumber,
			})
		}
	}

	for _, field := range dateFields {
		value := record.StringValue(field)
		if value == "" {
			continue
		}
		if !isValidDate(value) {
			result.Errors = append(result.Errors, domain.ValidationIssue{
				Kind:      domain.IssueInvalidDate,
				Field:     field,
				Message:   fmt.Sprintf("%q is not a valid calendar date", value),
				RowNumber: rowNumber,
			})
		}
	}

	if fte := record.FloatValue(domain.FieldFTE); fte != nil {
		if *fte < 0 || *fte > 100 {
			result.Warnings = append(result.Warnings, domain.ValidationIssue{
				Kind:      domain.IssueOutOfRange,
				Field:     domain.FieldFTE,
				Message:   fmt.Sprintf("FTE %.2f is outside the range [0,100]", *fte),
				RowNumber: rowNumber,
			})
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func isValidDate(value string) bool {
	trimmed := strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, trimmed); err == nil {
			return true
		}
	}
	return false
}

// DuplicateTracker detects repeated business identifiers across a whole
// run. The first occurrence is clean; every later occurrence raises a
// duplicate_id error attributed to the later row.
type DuplicateTracker struct {
	seen map[string]int // employeeId -> first row number
	dups []string
}

// NewDuplicateTracker creates an empty tracker
func NewDuplicateTracker() *DuplicateTracker {
	return &DuplicateTracker{
		seen: make(map[string]int),
	}
}

// Check records the identifier and returns a duplicate_id issue when it has
// been seen before. Empty identifiers are never tracked.
func (t *DuplicateTracker) Check(employeeID string, rowNumber int) *domain.ValidationIssue {
	id := strings.TrimSpace(employeeID)
	if id == "" {
		return nil
	}

	if firstRow, exists := t.seen[id]; exists {
		t.dups = append(t.dups, id)
		return &domain.ValidationIssue{
			Kind:      domain.IssueDuplicateID,
			Field:     domain.FieldEmployeeID,
			Message:   fmt.Sprintf("employee id %q already appeared on row %d", id, firstRow),
			RowNumber: rowNumber,
		}
	}

	t.seen[id] = rowNumber
	return nil
}

// DuplicateIDs returns every identifier that appeared more than once, in
// the order duplicates were detected
func (t *DuplicateTracker) DuplicateIDs() []string {
	out := make([]string, len(t.dups))
	copy(out, t.dups)
	return out
}
