package pagination

import (
	"errors"
	"fmt"
)

// Page size, limit and stall bounds.
const (
	DefaultPageSize      = 100
	MinPageSize          = 1
	MaxPageSize          = 1000
	DefaultMaxEmptyPages = 5
	MinMaxEmptyPages     = 1
)

// Common validation errors.
var (
	ErrInvalidPageSize      = errors.New("page-size must be between 1 and 1000")
	ErrInvalidLimit         = errors.New("limit cannot be negative")
	ErrInvalidMaxEmptyPages = errors.New("max-empty-pages must be >= 1")
)

// Params holds page-walking settings shared by the CLI and service clients.
type Params struct {
	// PageSize is the number of records requested per page.
	PageSize int

	// Limit caps the number of objects yielded. Zero means no limit.
	Limit int

	// MaxEmptyPages bounds consecutive empty pages that still report more.
	MaxEmptyPages int
}

// NewParams creates Params with default values.
func NewParams() *Params {
	return &Params{
		PageSize:      DefaultPageSize,
		MaxEmptyPages: DefaultMaxEmptyPages,
	}
}

// Validate checks the parameters are within bounds.
func (p Params) Validate() error {
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.Limit < 0 {
		return ErrInvalidLimit
	}
	if p.MaxEmptyPages < MinMaxEmptyPages {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxEmptyPages, p.MaxEmptyPages)
	}
	return nil
}

// EffectivePageSize returns the page size to request, shrunk to Limit when
// the limit fits in a single page.
func (p Params) EffectivePageSize() int {
	if p.Limit > 0 && p.Limit < p.PageSize {
		return p.Limit
	}
	return p.PageSize
}

// Options converts the parameters into Sequence options.
func (p Params) Options() []Option {
	opts := []Option{WithMaxEmptyPages(p.MaxEmptyPages)}
	if p.Limit > 0 {
		opts = append(opts, WithLimit(p.Limit))
	}
	return opts
}
