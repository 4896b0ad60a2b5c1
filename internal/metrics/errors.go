package metrics

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumns matches *MissingColumnsError.
	ErrMissingColumns = errors.New("missing columns")
	// ErrInvalidValue matches *InvalidValueError.
	ErrInvalidValue = errors.New("invalid value")
	// ErrInvalidMonth is returned for a month filter not shaped YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month")
)

// MissingColumnsError lists every required column absent from a table.
type MissingColumnsError struct {
	Table   string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("table %s: missing columns: %s", e.Table, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// InvalidValueError reports a cell that could not be converted.
type InvalidValueError struct {
	Table  string
	Column string
	Row    int
	Value  any
	Err    error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("table %s row %d column %s: invalid value %v: %v", e.Table, e.Row, e.Column, e.Value, e.Err)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

func (e *InvalidValueError) Unwrap() error {
	return e.Err
}
