package iot

import "errors"

var (
	// ErrEmptyID is returned when a lookup is given an empty identifier.
	ErrEmptyID = errors.New("empty id")

	// ErrMissingStart is returned by FieldData without a start time.
	ErrMissingStart = errors.New("field data start time is required")

	// ErrUnknownWindow is returned by ParseWindow for unsupported windows.
	ErrUnknownWindow = errors.New("unknown data window")
)
