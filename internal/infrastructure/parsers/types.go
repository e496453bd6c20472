package parsers

import (
	"context"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
)

// FileType declares the kind of tabular input
type FileType string

const (
	FileTypeCSV         FileType = "csv"
	FileTypeSpreadsheet FileType = "spreadsheet"
)

// DecodeResult is the decoder output: ordered headers plus one RawRow per
// input data row. Row numbers are 1-based file positions; the header is
// row 1, so data rows start at 2.
type DecodeResult struct {
	Headers     []string
	Rows        []domain.RawRow
	TotalRows   int
	SkippedRows int
	Format      string
}

// FileParser is the interface all decoders implement
type FileParser interface {
	// Decode parses raw file bytes into headers and rows
	Decode(ctx context.Context, data []byte) (*DecodeResult, error)

	// SupportedTypes returns the file types this parser handles
	SupportedTypes() []FileType
}

// ParserConfig holds configuration for all decoders
type ParserConfig struct {
	// SkipEmptyRows determines if fully empty rows are dropped
	SkipEmptyRows bool

	// TrimWhitespace determines if cell values and headers are trimmed
	TrimWhitespace bool

	// MaxFileSize is the maximum input size in bytes (0 = unlimited)
	MaxFileSize int64
}

// DefaultParserConfig returns sensible defaults
func DefaultParserConfig() *ParserConfig {
	return &ParserConfig{
		SkipEmptyRows:  true,
		TrimWhitespace: true,
		MaxFileSize:    100 * 1024 * 1024, // 100 MB
	}
}
