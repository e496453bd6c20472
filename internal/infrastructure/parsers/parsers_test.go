package parsers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/errors"
)

func TestCSVParser_Decode(t *testing.T) {
	data := []byte("PersonNumber,Dept,Salary\nE1,Sales,50000\nE2,Engineering,60000\n")

	parser := NewCSVParser(nil)
	result, err := parser.Decode(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, []string{"PersonNumber", "Dept", "Salary"}, result.Headers)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 0, result.SkippedRows)
	require.Len(t, result.Rows, 2)

	// Header is row 1, data rows start at 2
	assert.Equal(t, 2, result.Rows[0].Number)
	assert.Equal(t, 3, result.Rows[1].Number)
	assert.Equal(t, "E1", result.Rows[0].Values["PersonNumber"])
	assert.Equal(t, "Engineering", result.Rows[1].Values["Dept"])
}

func TestCSVParser_TrimsWhitespace(t *testing.T) {
	data := []byte(" PersonNumber , Dept \n E1 , Sales \n")

	parser := NewCSVParser(nil)
	result, err := parser.Decode(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, []string{"PersonNumber", "Dept"}, result.Headers)
	assert.Equal(t, "E1", result.Rows[0].Values["PersonNumber"])
	assert.Equal(t, "Sales", result.Rows[0].Values["Dept"])
}

func TestCSVParser_SkipsEmptyRows(t *testing.T) {
	data := []byte("PersonNumber,Dept\nE1,Sales\n,\nE2,Engineering\n")

	parser := NewCSVParser(nil)
	result, err := parser.Decode(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 1, result.SkippedRows)
	require.Len(t, result.Rows, 2)

	// Row numbers keep their original file positions across skips
	assert.Equal(t, 2, result.Rows[0].Number)
	assert.Equal(t, 4, result.Rows[1].Number)
}

func TestCSVParser_PadsShortRows(t *testing.T) {
	data := []byte("PersonNumber,Dept,Salary\nE1,Sales\n")

	parser := NewCSVParser(nil)
	result, err := parser.Decode(context.Background(), data)

	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "", result.Rows[0].Values["Salary"])
}

func TestCSVParser_MalformedRowSkipped(t *testing.T) {
	// Unterminated quote makes the second data row malformed
	data := []byte("PersonNumber,Dept\nE1,Sales\n\"E2,Engineering\nE3,Finance\n")

	parser := NewCSVParser(nil)
	result, err := parser.Decode(context.Background(), data)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.SkippedRows, 1)
	assert.GreaterOrEqual(t, len(result.Rows), 1)
	assert.Equal(t, "E1", result.Rows[0].Values["PersonNumber"])
}

func TestCSVParser_EmptyInputFatal(t *testing.T) {
	parser := NewCSVParser(nil)
	_, err := parser.Decode(context.Background(), []byte(""))

	require.Error(t, err)
	appErr, ok := apperrors.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeFileParseError, appErr.Code)
}

func TestCSVParser_FileTooLarge(t *testing.T) {
	parser := NewCSVParser(&ParserConfig{MaxFileSize: 10})
	_, err := parser.Decode(context.Background(), []byte("PersonNumber,Dept\nE1,Sales\n"))

	require.Error(t, err)
	appErr, ok := apperrors.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeFileTooLarge, appErr.Code)
}

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestExcelParser_Decode(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"PersonNumber", "Dept", "Salary"},
		{"E1", "Sales", 50000},
		{"E2", "Engineering", 60000},
	})

	parser := NewExcelParser(nil)
	result, err := parser.Decode(context.Background(), data)

	require.NoError(t, err)
	assert.Equal(t, []string{"PersonNumber", "Dept", "Salary"}, result.Headers)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, 2, result.Rows[0].Number)
	assert.Equal(t, "E1", result.Rows[0].Values["PersonNumber"])
	// Cells arrive as display strings; coercion happens downstream
	assert.Equal(t, "50000", result.Rows[0].Values["Salary"])
}

func TestExcelParser_InvalidBytes(t *testing.T) {
	parser := NewExcelParser(nil)
	_, err := parser.Decode(context.Background(), []byte("not a workbook"))

	require.Error(t, err)
	appErr, ok := apperrors.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeFileParseError, appErr.Code)
}

func TestParserFactory_Decode(t *testing.T) {
	factory := NewParserFactory(nil)

	result, err := factory.Decode(context.Background(), []byte("A,B\n1,2\n"), FileTypeCSV)
	require.NoError(t, err)
	assert.Equal(t, "CSV", result.Format)

	_, err = factory.Decode(context.Background(), []byte{}, FileType("parquet"))
	require.Error(t, err)
	appErr, ok := apperrors.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUnsupportedFormat, appErr.Code)
}

func TestParserFactory_IsSupported(t *testing.T) {
	factory := NewParserFactory(nil)

	assert.True(t, factory.IsSupported(FileTypeCSV))
	assert.True(t, factory.IsSupported(FileTypeSpreadsheet))
	assert.False(t, factory.IsSupported(FileType("parquet")))
}

func TestTypeForFileName(t *testing.T) {
	tests := []struct {
		fileName string
		fileType FileType
		ok       bool
	}{
		{"report.csv", FileTypeCSV, true},
		{"REPORT.CSV", FileTypeCSV, true},
		{"staff.xlsx", FileTypeSpreadsheet, true},
		{"staff.xls", FileTypeSpreadsheet, true},
		{"staff.pdf", "", false},
		{"noextension", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.fileName, func(t *testing.T) {
			ft, err := TypeForFileName(tt.fileName)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.fileType, ft)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
