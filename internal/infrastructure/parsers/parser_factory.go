package parsers

import (
	"context"
	"path/filepath"
	"strings"

	apperrors "github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/pkg/errors"
)

// ParserFactory selects the appropriate decoder for a declared file type
type ParserFactory struct {
	config  *ParserConfig
	parsers map[FileType]FileParser
}

// NewParserFactory creates a factory with the built-in decoders registered
func NewParserFactory(config *ParserConfig) *ParserFactory {
	if config == nil {
		config = DefaultParserConfig()
	}

	factory := &ParserFactory{
		config:  config,
		parsers: make(map[FileType]FileParser),
	}

	factory.RegisterParser(NewCSVParser(config))
	factory.RegisterParser(NewExcelParser(config))

	return factory
}

// RegisterParser registers a decoder for its supported types
func (f *ParserFactory) RegisterParser(parser FileParser) {
	for _, t := range parser.SupportedTypes() {
		f.parsers[t] = parser
	}
}

// GetParser returns the decoder for a declared file type
func (f *ParserFactory) GetParser(fileType FileType) (FileParser, error) {
	parser, exists := f.parsers[fileType]
	if !exists {
		return nil, apperrors.UnsupportedFormat(string(fileType))
	}
	return parser, nil
}

// Decode selects the decoder for the declared type and runs it
func (f *ParserFactory) Decode(ctx context.Context, data []byte, fileType FileType) (*DecodeResult, error) {
	parser, err := f.GetParser(fileType)
	if err != nil {
		return nil, err
	}
	return parser.Decode(ctx, data)
}

// TypeForFileName infers the file type from a file name extension
func TypeForFileName(fileName string) (FileType, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FileTypeCSV, nil
	case ".xlsx", ".xls":
		return FileTypeSpreadsheet, nil
	default:
		return "", apperrors.UnsupportedFormat(filepath.Ext(fileName))
	}
}

// IsSupported checks if a file type has a registered decoder
func (f *ParserFactory) IsSupported(fileType FileType) bool {
	_, exists := f.parsers[fileType]
	return exists
}
