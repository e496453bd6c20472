// Package normalizer converts raw cell values into canonical typed values.
package normalizer

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/NikolajUnserRichter/WorkforceTracker-sub000/internal/core/domain"
)

// serialDateEpochOffset is the spreadsheet day-serial for 1970-01-01.
// Spreadsheet tools count days from 1899-12-30, so serial 25569 is the Unix
// epoch. Pinned by a unit test since it encodes an external convention.
const serialDateEpochOffset = 25569

const secondsPerDay = 86400

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`), // MM/DD/YYYY
		regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{4}$`), // DD.MM.YYYY
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),     // YYYY-MM-DD
	}

	numericRe = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Tokens recognized by boolean normalization. Membership is case-insensitive
// and anything outside both sets normalizes to nil (tri-state).
var (
	truthyTokens = map[string]bool{
		"true": true, "t": true, "yes": true, "y": true,
		"1": true, "active": true, "a": true,
	}
	falsyTokens = map[string]bool{
		"false": true, "f": true, "no": true, "n": true,
		"0": true, "inactive": true, "i": true,
	}
)

// Normalize converts a raw cell value plus a declared field type into a
// canonical value (string, float64, bool) or nil. Empty strings and the
// case-insensitive tokens "n/a", "null" and "undefined" always normalize to
// nil regardless of declared type.
func Normalize(raw string, fieldType domain.FieldType) interface{} {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	switch strings.ToLower(trimmed) {
	case "n/a", "null", "undefined":
		return nil
	}

	switch fieldType {
	case domain.FieldTypeDate:
		return normalizeDate(trimmed)
	case domain.FieldTypeNumber:
		return normalizeNumber(trimmed)
	case domain.FieldTypePercentage:
		return normalizePercentage(trimmed)
	case domain.FieldTypeBoolean:
		return normalizeBoolean(trimmed)
	default:
		return trimmed
	}
}

// normalizeDate passes recognized textual date patterns through unchanged
// and converts pure-numeric values as spreadsheet day serials. Unrecognized
// strings are returned as-is; format validity is the validator's concern.
func normalizeDate(value string) interface{} {
	for _, pattern := range datePatterns {
		if pattern.MatchString(value) {
			return value
		}
	}

	if numericRe.MatchString(value) {
		serial, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return serialToISO(serial)
		}
	}

	return value
}

// serialToISO converts a spreadsheet day serial into an ISO calendar date
func serialToISO(serial float64) string {
	unixSeconds := int64(serial-serialDateEpochOffset) * secondsPerDay
	return time.Unix(unixSeconds, 0).UTC().Format("2006-01-02")
}

func normalizeNumber(value string) interface{} {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return f
}

// normalizePercentage strips a trailing % and interprets the magnitude:
// values above 1 are already on the 0-100 scale, values at or below 1 are
// fractions and are multiplied by 100.
func normalizePercentage(value string) interface{} {
	stripped := strings.TrimSpace(strings.ReplaceAll(value, "%", ""))
	f, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return nil
	}

	if f > 1 || f < -1 {
		return f
	}
	return f * 100
}

func normalizeBoolean(value string) interface{} {
	token := strings.ToLower(value)
	if truthyTokens[token] {
		return true
	}
	if falsyTokens[token] {
		return false
	}
	return nil
}
