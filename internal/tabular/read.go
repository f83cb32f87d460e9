package tabular

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// ReadCSV reads CSV written by WriteCSV back into raw records keyed by the
// source names of spec, ready for spec.Map. Columns unknown to spec are kept
// as strings under the column name.
//
// Empty cells become null for every kind, so an empty string written by
// WriteCSV reads back as null.
func ReadCSV(r io.Reader, spec *mapping.Spec) ([]mapping.Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	fields := make([]*mapping.Field, len(header))
	for i, col := range header {
		if f, ok := spec.Field(col); ok {
			if f.Kind == mapping.KindObject {
				return nil, fmt.Errorf("column %q: %w", col, ErrNestedValue)
			}
			fields[i] = &f
		}
	}

	var out []mapping.Record
	for line := 1; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", line, err)
		}
		rec := make(mapping.Record, len(header))
		for i, cell := range row {
			f := fields[i]
			if f == nil {
				rec[header[i]] = cell
				continue
			}
			v, err := parseCell(*f, cell)
			if err != nil {
				return nil, fmt.Errorf("csv row %d, column %q: %w", line, header[i], err)
			}
			rec[f.Source] = v
		}
		out = append(out, rec)
	}
}

func parseCell(f mapping.Field, cell string) (any, error) {
	if f.List || f.Kind == mapping.KindAny {
		if cell == "" {
			return nil, nil
		}
		return mapping.DecodeValue(strings.NewReader(cell))
	}
	if cell == "" {
		return nil, nil
	}
	switch f.Kind {
	case mapping.KindInt, mapping.KindFloat:
		return json.Number(cell), nil
	case mapping.KindBool:
		b, err := strconv.ParseBool(cell)
		if err != nil {
			return nil, fmt.Errorf("parsing bool: %w", err)
		}
		return b, nil
	default:
		return cell, nil
	}
}
