package pagination

import (
	"context"
	"errors"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// Iterator is a typed view over a Sequence. Conversion runs as each object is
// reached; a conversion failure is terminal like a mapping failure.
type Iterator[T any] struct {
	seq     *Sequence
	convert func(*mapping.Object) (T, error)
	err     error
}

// Convert wraps seq so that Next returns values produced by fn.
func Convert[T any](seq *Sequence, fn func(*mapping.Object) (T, error)) *Iterator[T] {
	return &Iterator[T]{seq: seq, convert: fn}
}

// Sequence returns the underlying sequence.
func (it *Iterator[T]) Sequence() *Sequence {
	return it.seq
}

// Next returns the next converted value, or Done.
func (it *Iterator[T]) Next(ctx context.Context) (T, error) {
	var zero T
	if it.err != nil {
		return zero, it.err
	}
	obj, err := it.seq.Next(ctx)
	if err != nil {
		return zero, err
	}
	v, err := it.convert(obj)
	if err != nil {
		it.err = err
		return zero, err
	}
	return v, nil
}

// Drain reads the rest of the iterator into memory, returning partial
// results on failure.
func (it *Iterator[T]) Drain(ctx context.Context) ([]T, error) {
	var out []T
	for {
		v, err := it.Next(ctx)
		if errors.Is(err, Done) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// Take reads at most n values.
func (it *Iterator[T]) Take(ctx context.Context, n int) ([]T, error) {
	out := make([]T, 0, max(n, 0))
	for len(out) < n {
		v, err := it.Next(ctx)
		if errors.Is(err, Done) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}
