// Package attribute interprets typed attribute values and reconciles a
// person's stored attribute set with a desired one.
package attribute

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/atinyakov/UserNotepad/internal/models"
)

var (
	// ErrEmptyValue is returned for an empty value of any type.
	ErrEmptyValue = errors.New("value is empty")
	// ErrInvalidValue is returned when a value does not match its type's grammar.
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownType is returned for a value type outside the enumeration.
	ErrUnknownType = errors.New("unknown value type")
)

// decimal is the locale-independent floating point grammar: digits with an
// optional decimal point and an optional exponent.
var decimal = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

type codec struct {
	validate func(string) error
	format   func(string) (string, error)
}

var codecs = map[models.ValueType]codec{
	models.ValueTypeInt:    {validate: validateInt, format: formatInt},
	models.ValueTypeDouble: {validate: validateDouble, format: formatDouble},
	models.ValueTypeBool:   {validate: validateBool, format: formatBool},
	models.ValueTypeString: {validate: func(string) error { return nil }, format: func(v string) (string, error) { return v, nil }},
	models.ValueTypeDate:   {validate: validateDate, format: formatDate},
}

// Validate checks value against the grammar of valueType.
func Validate(value string, valueType models.ValueType) error {
	c, ok := codecs[valueType]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownType, valueType)
	}
	if value == "" {
		return ErrEmptyValue
	}
	return c.validate(value)
}

// Format renders value in its parsed native form for display. Dates become
// dd.MM.yyyy. A value that does not parse is returned unchanged.
func Format(value string, valueType models.ValueType) string {
	c, ok := codecs[valueType]
	if !ok {
		return value
	}
	out, err := c.format(value)
	if err != nil {
		return value
	}
	return out
}

func invalid(value string, t models.ValueType) error {
	return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidValue, value, t)
}

func validateInt(v string) error {
	if _, err := strconv.ParseInt(v, 10, 64); err != nil {
		return invalid(v, models.ValueTypeInt)
	}
	return nil
}

func formatInt(v string) (string, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n, 10), nil
}

func parseDouble(v string) (float64, error) {
	if !decimal.MatchString(v) {
		return 0, invalid(v, models.ValueTypeDouble)
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, invalid(v, models.ValueTypeDouble)
	}
	return f, nil
}

func validateDouble(v string) error {
	_, err := parseDouble(v)
	return err
}

func formatDouble(v string) (string, error) {
	f, err := parseDouble(v)
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func validateBool(v string) error {
	if v != "true" && v != "false" {
		return invalid(v, models.ValueTypeBool)
	}
	return nil
}

func formatBool(v string) (string, error) {
	if err := validateBool(v); err != nil {
		return "", err
	}
	return v, nil
}

func validateDate(v string) error {
	if _, err := time.Parse(models.DateLayout, v); err != nil {
		return invalid(v, models.ValueTypeDate)
	}
	return nil
}

func formatDate(v string) (string, error) {
	t, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return "", err
	}
	return t.Format("02.01.2006"), nil
}
