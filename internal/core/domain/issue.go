package domain

import "fmt"

// IssueKind identifies the class of a validation issue. The kind values are
// part of the stable export contract.
type IssueKind string

const (
	IssueMissingRequired IssueKind = "missing_required"
	IssueInvalidEmail    IssueKind = "invalid_email"
	IssueInvalidDate     IssueKind = "invalid_date"
	IssueOutOfRange      IssueKind = "out_of_range"
	IssueDuplicateID     IssueKind = "duplicate_id"
	IssueProcessingError IssueKind = "processing_error"
)

// ValidIssueKinds returns the closed set of issue kinds
func ValidIssueKinds() []IssueKind {
	return []IssueKind{
		IssueMissingRequired,
		IssueInvalidEmail,
		IssueInvalidDate,
		IssueOutOfRange,
		IssueDuplicateID,
		IssueProcessingError,
	}
}

// IsError reports whether the kind blocks a row. Warnings (invalid_email,
// out_of_range) never block; errors block only when skip-invalid is on.
func (k IssueKind) IsError() bool {
	switch k {
	case IssueInvalidEmail, IssueOutOfRange:
		return false
	default:
		return true
	}
}

// ValidationIssue is one classified defect or advisory attached to a row
type ValidationIssue struct {
	Kind      IssueKind `json:"kind"`
	Field     string    `json:"field"`
	Message   string    `json:"message"`
	RowNumber int       `json:"rowNumber"`
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("row %d [%s] %s: %s", i.RowNumber, i.Kind, i.Field, i.Message)
}

// ReportSummary carries the counts of a validation or import run
type ReportSummary struct {
	TotalRows    int `json:"totalRows"`
	ValidRows    int `json:"validRows"`
	InvalidRows  int `json:"invalidRows"`
	ErrorCount   int `json:"errorCount"`
	WarningCount int `json:"warningCount"`
}

// ValidationReport is the structured issue document suitable for
// serialization and download. Field names are a stable contract.
type ValidationReport struct {
	Summary      ReportSummary     `json:"summary"`
	Errors       []ValidationIssue `json:"errors"`
	Warnings     []ValidationIssue `json:"warnings"`
	DuplicateIDs []string          `json:"duplicateIds"`
}

// NewValidationReport builds a report from a classified issue list
func NewValidationReport(totalRows, validRows int, issues []ValidationIssue, duplicateIDs []string) *ValidationReport {
	report := &ValidationReport{
		Errors:       []ValidationIssue{},
		Warnings:     []ValidationIssue{},
		DuplicateIDs: duplicateIDs,
	}
	if report.DuplicateIDs == nil {
		report.DuplicateIDs = []string{}
	}

	for _, issue := range issues {
		if issue.Kind.IsError() {
			report.Errors = append(report.Errors, issue)
		} else {
			report.Warnings = append(report.Warnings, issue)
		}
	}

	report.Summary = ReportSummary{
		TotalRows:    totalRows,
		ValidRows:    validRows,
		InvalidRows:  totalRows - validRows,
		ErrorCount:   len(report.Errors),
		WarningCount: len(report.Warnings),
	}

	return report
}
