package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueKind_IsError(t *testing.T) {
	assert.True(t, IssueMissingRequired.IsError())
	assert.True(t, IssueInvalidDate.IsError())
	assert.True(t, IssueDuplicateID.IsError())
	assert.True(t, IssueProcessingError.IsError())

	assert.False(t, IssueInvalidEmail.IsError())
	assert.False(t, IssueOutOfRange.IsError())
}

func TestNewValidationReport_ClassifiesIssues(t *testing.T) {
	issues := []ValidationIssue{
		{Kind: IssueMissingRequired, Field: FieldEmployeeID, RowNumber: 2},
		{Kind: IssueInvalidEmail, Field: FieldEmail, RowNumber: 3},
		{Kind: IssueOutOfRange, Field: FieldFTE, RowNumber: 3},
		{Kind: IssueDuplicateID, Field: FieldEmployeeID, RowNumber: 4},
	}

	report := NewValidationReport(10, 8, issues, []string{"E1"})

	assert.Equal(t, 10, report.Summary.TotalRows)
	assert.Equal(t, 8, report.Summary.ValidRows)
	assert.Equal(t, 2, report.Summary.InvalidRows)
	assert.Equal(t, 2, report.Summary.ErrorCount)
	assert.Equal(t, 2, report.Summary.WarningCount)

	require.Len(t, report.Errors, 2)
	assert.Equal(t, IssueMissingRequired, report.Errors[0].Kind)
	assert.Equal(t, IssueDuplicateID, report.Errors[1].Kind)
	require.Len(t, report.Warnings, 2)
	assert.Equal(t, []string{"E1"}, report.DuplicateIDs)
}

func TestNewValidationReport_EmptySlicesNotNil(t *testing.T) {
	report := NewValidationReport(0, 0, nil, nil)

	// Serialized reports always carry arrays, never null
	assert.NotNil(t, report.Errors)
	assert.NotNil(t, report.Warnings)
	assert.NotNil(t, report.DuplicateIDs)
	assert.Empty(t, report.Errors)
}

func TestValidationIssue_String(t *testing.T) {
	issue := ValidationIssue{
		Kind:      IssueInvalidDate,
		Field:     FieldStartDate,
		Message:   `"sometime" is not a valid calendar date`,
		RowNumber: 5,
	}

	s := issue.String()
	assert.Contains(t, s, "row 5")
	assert.Contains(t, s, "invalid_date")
	assert.Contains(t, s, "startDate")
}
