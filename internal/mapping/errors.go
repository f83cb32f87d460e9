package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by *Error. Match them with errors.Is.
var (
	// ErrMissingField indicates a required source key is absent from the record.
	ErrMissingField = errors.New("required field missing")

	// ErrTypeMismatch indicates a value that cannot be coerced to the declared kind.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrUnknownEnumValue indicates an enum value outside the declared set.
	ErrUnknownEnumValue = errors.New("unknown enum value")

	// ErrDateParse indicates a date or datetime that does not match the fixed layout.
	ErrDateParse = errors.New("date parse error")

	// ErrInvalidSpec indicates a malformed Spec declaration.
	ErrInvalidSpec = errors.New("invalid field spec")
)

// Error is a mapping failure for a single field.
//
// Path is the dotted source-key path from the root record, with list
// positions in brackets (e.g. "main_services[1].type").
type Error struct {
	Path   string
	Value  any
	Err    error
	Detail string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "mapping field %q: %v", e.Path, e.Err)
	if e.Value != nil {
		fmt.Fprintf(&b, " (value %v)", e.Value)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// withParent prefixes the path of a nested *Error with parent.
func withParent(parent string, err error) error {
	var merr *Error
	if !errors.As(err, &merr) {
		return fmt.Errorf("%s: %w", parent, err)
	}
	nested := *merr
	switch {
	case nested.Path == "":
		nested.Path = parent
	case strings.HasPrefix(nested.Path, "["):
		nested.Path = parent + nested.Path
	default:
		nested.Path = parent + "." + nested.Path
	}
	return &nested
}

func mismatch(path string, kind Kind, raw any) error {
	return &Error{
		Path:   path,
		Value:  raw,
		Err:    ErrTypeMismatch,
		Detail: fmt.Sprintf("expected %s, got %T", kind, raw),
	}
}
