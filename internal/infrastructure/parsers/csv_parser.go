package parsers

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
	apperrors "github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/errors"
)

// CSVParser decodes CSV input
type CSVParser struct {
	config *ParserConfig
}

// NewCSVParser creates a new CSV parser
func NewCSVParser(config *ParserConfig) *CSVParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &CSVParser{config: config}
}

// Decode parses CSV bytes into headers and ordered rows. A header that
// cannot be read is fatal to the run; malformed data rows are skipped and
// counted, matching the decoder contract that only decode-stage failures
// abort an import.
func (p *CSVParser) Decode(ctx context.Context, data []byte) (*DecodeResult, error) {
	if p.config.MaxFileSize > 0 && int64(len(data)) > p.config.MaxFileSize {
		return nil, apperrors.FileTooLarge(p.config.MaxFileSize / (1024 * 1024))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = p.config.TrimWhitespace
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.FileParseError(err)
	}

	if p.config.TrimWhitespace {
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	result := &DecodeResult{
		Headers: header,
		Format:  "CSV",
	}

	rowNumber := 1 // header occupies row 1
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			// Skip malformed rows but continue decoding
			result.TotalRows++
			result.SkippedRows++
			continue
		}

		result.TotalRows++

		if p.config.SkipEmptyRows && isEmptyRow(row) {
			result.SkippedRows++
			continue
		}

		values := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				value := row[i]
				if p.config.TrimWhitespace {
					value = strings.TrimSpace(value)
				}
				values[col] = value
			} else {
				// Short rows are padded with empty cells
				values[col] = ""
			}
		}

		result.Rows = append(result.Rows, domain.RawRow{
			Number: rowNumber,
			Values: values,
		})
	}

	return result, nil
}

// SupportedTypes returns the file types this parser handles
func (p *CSVParser) SupportedTypes() []FileType {
	return []FileType{FileTypeCSV}
}

// isEmptyRow checks if a row contains only empty strings
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
