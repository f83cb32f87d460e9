package pagination

import (
	"errors"
	"fmt"
)

// Done is returned by Next when the sequence is exhausted.
var Done = errors.New("no more items in sequence") //nolint:revive,staticcheck // mirrors iterator.Done

// ErrPaginationStalled indicates too many consecutive empty pages that still
// reported more pages to come.
var ErrPaginationStalled = errors.New("pagination stalled")

// FetchError is a transport failure while fetching a page.
// Page is the zero-based index of the page being fetched.
type FetchError struct {
	Page  int
	Token string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching page %d (token %q): %v", e.Page, e.Token, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RecordError is a mapping failure for one record.
// Page and Index are zero-based; Position is the record's zero-based position
// in the whole sequence.
type RecordError struct {
	Page     int
	Index    int
	Position int
	Err      error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("mapping record %d of page %d (object %d): %v", e.Index, e.Page, e.Position, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
