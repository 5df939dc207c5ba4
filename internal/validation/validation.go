// Package validation holds the parsing and validation rules applied to form
// input before anything is written to the document store.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors wrapped by ValidationError.
var (
	ErrRequired      = errors.New("field is required")
	ErrInvalidNumber = errors.New("must be a number greater than zero")
	ErrInvalidDate   = errors.New("must be a valid date (DD/MM/YYYY)")
)

// Date bounds accepted by ParseDate.
const (
	MinDay   = 1
	MaxDay   = 31
	MinMonth = 1
	MaxMonth = 12
	MinYear  = 2000
)

// ValidationError reports bad user input for a single field.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a ValidationError for field wrapping err.
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// ParseSurface parses a surface in hectares. The value must be a finite number > 0.
func ParseSurface(input string) (float64, error) {
	return parsePositive("surface", input)
}

// ParseWeight parses a weight in kilograms. The value must be a finite number > 0.
func ParseWeight(input string) (float64, error) {
	return parsePositive("weight", input)
}

func parsePositive(field, input string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0, NewValidationError(field, ErrInvalidNumber)
	}
	return value, nil
}

// cropDelimiters are the separators accepted between crop names: the ASCII
// comma and the Arabic comma (U+060C). Ø and Œ, the Arabic comma misread as
// Latin-1 bytes, are letters here.
var cropDelimiters = []rune{',', '،'}

// SplitCropList splits free text into crop names. Items are trimmed, empty
// items dropped, order and duplicates kept. The result is never nil.
func SplitCropList(input string) []string {
	fields := strings.FieldsFunc(input, isCropDelimiter)
	crops := make([]string, 0, len(fields))
	for _, field := range fields {
		trimmed := strings.TrimSpace(field)
		if trimmed != "" {
			crops = append(crops, trimmed)
		}
	}
	return crops
}

func isCropDelimiter(r rune) bool {
	for _, d := range cropDelimiters {
		if r == d {
			return true
		}
	}
	return false
}

// FormatDate renders a Unix millisecond timestamp as DD/MM/YYYY in local time.
func FormatDate(timestamp int64) string {
	return FormatDateIn(timestamp, time.Local)
}

// FormatDateIn renders a Unix millisecond timestamp as DD/MM/YYYY in loc.
func FormatDateIn(timestamp int64, loc *time.Location) string {
	return time.UnixMilli(timestamp).In(loc).Format("02/01/2006")
}

// ParseDate parses DD/MM/YYYY into the Unix millisecond timestamp of local
// midnight on that day. It returns false when the text is not three
// slash-separated integers or a part is out of bounds. Days past the end of
// the month are not rejected; they roll over into the next month.
func ParseDate(text string) (int64, bool) {
	return ParseDateIn(text, time.Local)
}

// ParseDateIn is ParseDate with an explicit location.
func ParseDateIn(text string, loc *time.Location) (int64, bool) {
	parts := strings.Split(strings.TrimSpace(text), "/")
	if len(parts) != 3 {
		return 0, false
	}

	values := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, false
		}
		values[i] = n
	}

	day, month, year := values[0], values[1], values[2]
	if day < MinDay || day > MaxDay || month < MinMonth || month > MaxMonth || year < MinYear {
		return 0, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc).UnixMilli(), true
}

// RequireText trims value and fails when nothing is left.
func RequireText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", NewValidationError(field, ErrRequired)
	}
	return trimmed, nil
}

// RequireDate parses a DD/MM/YYYY field, reporting a ValidationError on failure.
func RequireDate(field, value string, loc *time.Location) (int64, error) {
	ts, ok := ParseDateIn(value, loc)
	if !ok {
		return 0, NewValidationError(field, ErrInvalidDate)
	}
	return ts, nil
}
