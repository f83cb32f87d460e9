package tabular

import (
	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// Header returns the column names derived from obj.
func Header(obj *mapping.Object) []string {
	if obj == nil {
		return nil
	}
	return obj.Names()
}

// shape checks objects against a fixed header and formats them.
type shape struct {
	header []string
	index  map[string]struct{}
}

func newShape(header []string) *shape {
	idx := make(map[string]struct{}, len(header))
	for _, h := range header {
		idx[h] = struct{}{}
	}
	return &shape{header: header, index: idx}
}

func (s *shape) check(i int, obj *mapping.Object) error {
	var missing, extra []string
	for _, h := range s.header {
		if _, ok := obj.Get(h); !ok {
			missing = append(missing, h)
		}
	}
	for _, name := range obj.Names() {
		if _, ok := s.index[name]; !ok {
			extra = append(extra, name)
		}
	}
	if missing == nil && extra == nil {
		return nil
	}
	return &ShapeError{Index: i, Header: s.header, Missing: missing, Extra: extra}
}

// row formats obj in header order.
func (s *shape) row(i int, obj *mapping.Object) ([]string, error) {
	if err := s.check(i, obj); err != nil {
		return nil, err
	}
	out := make([]string, len(s.header))
	for c, h := range s.header {
		cell, err := FormatValue(obj.Value(h))
		if err != nil {
			return nil, &CellError{Index: i, Column: h, Err: err}
		}
		out[c] = cell
	}
	return out, nil
}

// Rows returns the header and one formatted row per object. An empty input
// yields no header and no rows.
func Rows(objects []*mapping.Object) ([]string, [][]string, error) {
	if len(objects) == 0 {
		return nil, nil, nil
	}
	s := newShape(Header(objects[0]))
	rows := make([][]string, 0, len(objects))
	for i, obj := range objects {
		r, err := s.row(i, obj)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, r)
	}
	return s.header, rows, nil
}
