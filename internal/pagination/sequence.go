package pagination

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/rs/zerolog"

	"github.com/jrcrawfo/contxt-go/internal/logging"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// Sequence is a lazy, forward-only sequence of typed objects read from a
// paged endpoint. It is not safe for concurrent use.
type Sequence struct {
	spec     *mapping.Spec
	fetcher  Fetcher
	maxEmpty int
	limit    int
	logger   *zerolog.Logger

	state    State
	token    string
	hasNext  bool
	buffer   []mapping.Record
	pos      int
	page     int // index of the buffered page
	fetched  int
	empty    int // consecutive empty pages
	emptyAll int
	yielded  int
	err      error
}

// Option configures a Sequence.
type Option func(*Sequence)

// WithMaxEmptyPages sets how many consecutive empty pages reporting more
// pages are tolerated before the sequence fails with ErrPaginationStalled.
func WithMaxEmptyPages(n int) Option {
	return func(s *Sequence) {
		if n >= MinMaxEmptyPages {
			s.maxEmpty = n
		}
	}
}

// WithLimit stops the sequence after n objects. No page past the one holding
// the n-th record is fetched.
func WithLimit(n int) Option {
	return func(s *Sequence) {
		if n > 0 {
			s.limit = n
		}
	}
}

// WithStartToken starts the walk at token instead of the first page.
func WithStartToken(token string) Option {
	return func(s *Sequence) {
		s.token = token
	}
}

// WithLogger sets the logger used for page events. Without it the logger
// carried by the context passed to Next is used.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sequence) {
		s.logger = &l
	}
}

// Paginate returns a sequence that maps every record fetched through fetcher
// with spec. Nothing is fetched until the first call to Next.
func Paginate(spec *mapping.Spec, fetcher Fetcher, opts ...Option) *Sequence {
	s := &Sequence{
		spec:     spec,
		fetcher:  fetcher,
		maxEmpty: DefaultMaxEmptyPages,
		state:    StateFetchingFirstPage,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Sequence) State() State {
	return s.state
}

// Err returns the terminal error of a failed sequence, or nil.
func (s *Sequence) Err() error {
	return s.err
}

// Stats returns progress counters.
func (s *Sequence) Stats() Stats {
	return Stats{
		PagesFetched:  s.fetched,
		EmptyPages:    s.emptyAll,
		ObjectsMapped: s.yielded,
		Buffered:      len(s.buffer) - s.pos,
		State:         s.state.String(),
	}
}

// Next returns the next object. It returns Done once the sequence is
// exhausted. Any other error is terminal and is returned again by every
// later call.
func (s *Sequence) Next(ctx context.Context) (*mapping.Object, error) {
	for {
		switch s.state {
		case StateExhausted:
			return nil, Done
		case StateFailed:
			return nil, s.err
		case StateFetchingFirstPage, StateFetchingNextPage:
			if err := s.fetch(ctx); err != nil {
				return nil, s.fail(ctx, err)
			}
		case StateYieldingBuffered:
			if s.limit > 0 && s.yielded >= s.limit {
				s.finish()
				continue
			}
			if s.pos < len(s.buffer) {
				return s.pop(ctx)
			}
			if s.hasNext {
				s.state = StateFetchingNextPage
				continue
			}
			s.finish()
		default:
			return nil, fmt.Errorf("pagination: invalid state %d", s.state)
		}
	}
}

func (s *Sequence) pop(ctx context.Context) (*mapping.Object, error) {
	idx := s.pos
	rec := s.buffer[idx]
	s.buffer[idx] = nil
	s.pos++

	obj, err := s.spec.Map(rec)
	if err != nil {
		return nil, s.fail(ctx, &RecordError{Page: s.page, Index: idx, Position: s.yielded, Err: err})
	}
	s.yielded++
	return obj, nil
}

func (s *Sequence) fetch(ctx context.Context) error {
	log := s.log(ctx)
	idx := s.fetched

	if err := ctx.Err(); err != nil {
		return &FetchError{Page: idx, Token: s.token, Err: err}
	}

	page, err := s.fetcher.FetchPage(ctx, s.token)
	if err != nil {
		return &FetchError{Page: idx, Token: s.token, Err: err}
	}
	s.fetched++

	log.Debug().
		Ctx(ctx).
		Str("component", "pagination").
		Str("spec", s.spec.Name()).
		Int("page", idx).
		Int("records", len(page.Records)).
		Bool("has_next", page.HasNext).
		Msg("page fetched")

	if len(page.Records) == 0 {
		s.emptyAll++
		if page.HasNext {
			s.empty++
			if s.empty > s.maxEmpty {
				return fmt.Errorf("%w: %d consecutive empty pages (last page %d, bound %d)",
					ErrPaginationStalled, s.empty, idx, s.maxEmpty)
			}
		}
	} else {
		s.empty = 0
	}

	s.buffer = page.Records
	s.pos = 0
	s.page = idx
	s.hasNext = page.HasNext
	s.token = page.Next
	s.state = StateYieldingBuffered
	return nil
}

func (s *Sequence) fail(ctx context.Context, err error) error {
	s.state = StateFailed
	s.err = err
	s.release()
	s.log(ctx).Debug().
		Ctx(ctx).
		Str("component", "pagination").
		Str("spec", s.spec.Name()).
		Err(err).
		Msg("sequence failed")
	return err
}

func (s *Sequence) finish() {
	s.state = StateExhausted
	s.release()
}

func (s *Sequence) release() {
	s.buffer = nil
	s.pos = 0
}

func (s *Sequence) log(ctx context.Context) *zerolog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.FromContext(ctx)
}

// Drain reads the rest of the sequence into memory. On failure it returns
// the objects read so far together with the error.
func (s *Sequence) Drain(ctx context.Context) ([]*mapping.Object, error) {
	var out []*mapping.Object
	for {
		obj, err := s.Next(ctx)
		if errors.Is(err, Done) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, obj)
	}
}

// Take reads at most n objects. A short result with a nil error means the
// sequence ended.
func (s *Sequence) Take(ctx context.Context, n int) ([]*mapping.Object, error) {
	out := make([]*mapping.Object, 0, max(n, 0))
	for len(out) < n {
		obj, err := s.Next(ctx)
		if errors.Is(err, Done) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// All adapts the sequence to a range-over-func iterator. Iteration stops
// after the first non-nil error is yielded.
func (s *Sequence) All(ctx context.Context) iter.Seq2[*mapping.Object, error] {
	return func(yield func(*mapping.Object, error) bool) {
		for {
			obj, err := s.Next(ctx)
			if errors.Is(err, Done) {
				return
			}
			if !yield(obj, err) || err != nil {
				return
			}
		}
	}
}
