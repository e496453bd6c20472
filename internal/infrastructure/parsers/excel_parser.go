package parsers

import (
	"bytes"
	"context"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
	apperrors "github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/errors"
)

// ExcelParser decodes spreadsheet input (.xlsx)
type ExcelParser struct {
	config *ParserConfig
}

// NewExcelParser creates a new spreadsheet parser
func NewExcelParser(config *ParserConfig) *ExcelParser {
	if config == nil {
		config = DefaultParserConfig()
	}
	return &ExcelParser{config: config}
}

// Decode parses spreadsheet bytes. The first sheet's first row is treated
// as headers and all cells are returned as display strings; no type
// coercion happens at this layer.
func (p *ExcelParser) Decode(ctx context.Context, data []byte) (*DecodeResult, error) {
	if p.config.MaxFileSize > 0 && int64(len(data)) > p.config.MaxFileSize {
		return nil, apperrors.FileTooLarge(p.config.MaxFileSize / (1024 * 1024))
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.FileParseError(err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, apperrors.InvalidFile("no sheets found in spreadsheet")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, apperrors.FileParseError(err)
	}

	if len(rows) == 0 {
		return &DecodeResult{
			Headers: []string{},
			Rows:    []domain.RawRow{},
			Format:  "XLSX",
		}, nil
	}

	header := rows[0]
	if p.config.TrimWhitespace {
		for i := range header {
			header[i] = strings.TrimSpace(header[i])
		}
	}

	result := &DecodeResult{
		Headers: header,
		Format:  "XLSX",
	}

	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row := rows[rowIdx]
		result.TotalRows++

		if p.config.SkipEmptyRows && isEmptyRow(row) {
			result.SkippedRows++
			continue
		}

		values := make(map[string]string, len(header))
		for i, colName := range header {
			if i < len(row) {
				value := row[i]
				if p.config.TrimWhitespace {
					value = strings.TrimSpace(value)
				}
				values[colName] = value
			} else {
				values[colName] = ""
			}
		}

		result.Rows = append(result.Rows, domain.RawRow{
			Number: rowIdx + 1,
			Values: values,
		})
	}

	return result, nil
}

// SupportedTypes returns the file types this parser handles
func (p *ExcelParser) SupportedTypes() []FileType {
	return []FileType{FileTypeSpreadsheet}
}
