package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHeterogeneousShape indicates objects with differing attribute sets.
var ErrHeterogeneousShape = errors.New("heterogeneous shape")

// ErrNestedValue indicates a nested object that must be flattened first.
var ErrNestedValue = errors.New("nested value cannot be rendered as a cell")

// ShapeError reports the first object whose attributes differ from the header.
type ShapeError struct {
	Index   int
	Header  []string
	Missing []string
	Extra   []string
}

func (e *ShapeError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Extra, ", "))
	}
	return fmt.Sprintf("%s: object %d does not match header [%s]: %s",
		ErrHeterogeneousShape, e.Index, strings.Join(e.Header, ", "), strings.Join(parts, "; "))
}

func (e *ShapeError) Unwrap() error {
	return ErrHeterogeneousShape
}

// CellError reports a value that could not be formatted.
type CellError struct {
	Index  int
	Column string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("object %d, column %q: %v", e.Index, e.Column, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
