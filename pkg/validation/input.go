package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-calculator/pkg/constants"
	"github.com/iwvelando/finance-calculator/pkg/mathutil"
)

// ErrorKind enumerates why a form field was rejected. ErrNone is the explicit
// "no error" variant.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrRequired
	ErrNotANumber
	ErrNotAWholeNumber
	ErrNegative
	ErrOutOfRange
	ErrInvalidChoice
	ErrInvalidDate
)

// String returns the machine-readable code of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrRequired:
		return "required"
	case ErrNotANumber:
		return "not_a_number"
	case ErrNotAWholeNumber:
		return "not_a_whole_number"
	case ErrNegative:
		return "negative"
	case ErrOutOfRange:
		return "out_of_range"
	case ErrInvalidChoice:
		return "invalid_choice"
	case ErrInvalidDate:
		return "invalid_date"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// MarshalText encodes the kind as its code.
func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FieldError reports a rejected form field.
type FieldError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"code"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors collects every rejected field of a form.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	messages := make([]string, 0, len(e))
	for _, fieldErr := range e {
		messages = append(messages, fieldErr.Error())
	}
	return strings.Join(messages, "; ")
}

// AsFieldErrors extracts the field errors wrapped in err, if any.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fieldErrs FieldErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs, true
	}
	return nil, false
}

// Text is raw user input. It decodes from either a JSON string or a JSON
// number so that "100,000" and 100000 are both accepted.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(trimmed))
	}
	*t = Text(n.String())
	return nil
}

// Form parses text inputs and accumulates field errors.
type Form struct {
	errs FieldErrors
}

// Err returns the accumulated field errors, or nil when every field parsed.
func (f *Form) Err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return f.errs
}

// Reject records a field error.
func (f *Form) Reject(field string, kind ErrorKind, message string) {
	f.errs = append(f.errs, FieldError{Field: field, Kind: kind, Message: message})
}

// Amount parses a required non-negative currency amount, stripping thousands
// separators.
func (f *Form) Amount(field, label string, value Text) float64 {
	return f.amount(field, label, value, true)
}

// OptionalAmount parses a non-negative currency amount; blank input is zero.
func (f *Form) OptionalAmount(field, label string, value Text) float64 {
	return f.amount(field, label, value, false)
}

func (f *Form) amount(field, label string, value Text, required bool) float64 {
	raw := strings.TrimSpace(string(value))
	if raw == "" {
		if required {
			f.Reject(field, ErrRequired, label+" is required.")
		}
		return 0
	}
	amount, err := ParseNumber(StripThousandsSeparators(raw))
	if err != nil {
		f.Reject(field, ErrNotANumber, label+" must be a valid number.")
		return 0
	}
	if amount < 0 {
		f.Reject(field, ErrNegative, label+" cannot be negative.")
		return 0
	}
	return amount
}

// Percent parses a percentage and returns it as a fraction (6.5 -> 0.065).
// Blank input yields fallback, itself a percentage.
func (f *Form) Percent(field, label string, value Text, fallback float64) float64 {
	raw := strings.TrimSpace(string(value))
	if raw == "" {
		return mathutil.PercentToFraction(fallback)
	}
	percent, err := ParseNumber(raw)
	if err != nil {
		f.Reject(field, ErrNotANumber, label+" must be a valid number.")
		return 0
	}
	if math.Abs(percent) > constants.MaxRatePercent {
		f.Reject(field, ErrOutOfRange,
			fmt.Sprintf("%s must be between -%g%% and %g%%.", label, constants.MaxRatePercent, constants.MaxRatePercent))
		return 0
	}
	return mathutil.PercentToFraction(percent)
}

// RequiredPercent parses a percentage that must be supplied.
func (f *Form) RequiredPercent(field, label string, value Text) float64 {
	if strings.TrimSpace(string(value)) == "" {
		f.Reject(field, ErrRequired, label+" is required.")
		return 0
	}
	return f.Percent(field, label, value, 0)
}

// Term parses a required whole number of years between 0 and MaxTermYears.
func (f *Form) Term(field, label string, value Text) int {
	raw := strings.TrimSpace(string(value))
	if raw == "" {
		f.Reject(field, ErrRequired, label+" is required.")
		return 0
	}
	years, err := ParseNumber(raw)
	if err != nil {
		f.Reject(field, ErrNotANumber, label+" must be a valid number.")
		return 0
	}
	if years != math.Trunc(years) {
		f.Reject(field, ErrNotAWholeNumber, label+" must be a whole number of years.")
		return 0
	}
	if years < 0 {
		f.Reject(field, ErrNegative, label+" cannot be negative.")
		return 0
	}
	if years > constants.MaxTermYears {
		f.Reject(field, ErrOutOfRange, fmt.Sprintf("%s cannot exceed %d years.", label, constants.MaxTermYears))
		return 0
	}
	return int(years)
}

// Choice runs parse over the input and records ErrInvalidChoice on failure.
func Choice[T any](f *Form, field string, value Text, parse func(string) (T, error)) T {
	parsed, err := parse(string(value))
	if err != nil {
		f.Reject(field, ErrInvalidChoice, err.Error())
	}
	return parsed
}

// StripThousandsSeparators removes commas and surrounding spaces from a
// number typed by a user ("100,000" -> "100000").
func StripThousandsSeparators(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), ",", "")
}

// ParseNumber parses a finite decimal number.
func ParseNumber(value string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, err
	}
	if !mathutil.IsFinite(n) {
		return 0, fmt.Errorf("value %q is not finite", value)
	}
	return n, nil
}
