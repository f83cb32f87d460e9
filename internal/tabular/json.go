package tabular

import (
	"bufio"
	"fmt"
	"io"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// WriteJSON writes objects as an indented JSON array, attributes in declared
// order. An empty input writes "[]".
func WriteJSON(w io.Writer, objects []*mapping.Object) error {
	bw := bufio.NewWriter(w)
	if len(objects) == 0 {
		_, _ = bw.WriteString("[]\n")
		return bw.Flush()
	}
	_, _ = bw.WriteString("[\n")
	for i, obj := range objects {
		data, err := obj.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding object %d: %w", i, err)
		}
		_, _ = bw.WriteString("  ")
		_, _ = bw.Write(data)
		if i < len(objects)-1 {
			_ = bw.WriteByte(',')
		}
		_ = bw.WriteByte('\n')
	}
	_, _ = bw.WriteString("]\n")
	return bw.Flush()
}

// NDJSONWriter streams one JSON object per line.
type NDJSONWriter struct {
	w     io.Writer
	count int
}

// NewNDJSONWriter returns an NDJSONWriter writing to w.
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	return &NDJSONWriter{w: w}
}

// Write appends one object.
func (n *NDJSONWriter) Write(obj *mapping.Object) error {
	data, err := obj.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encoding object %d: %w", n.count, err)
	}
	data = append(data, '\n')
	if _, err := n.w.Write(data); err != nil {
		return err
	}
	n.count++
	return nil
}

// Count returns the number of objects written.
func (n *NDJSONWriter) Count() int {
	return n.count
}
