package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// CSVWriter streams objects as CSV. The header is written with the first
// object; every later object must match it.
type CSVWriter struct {
	w     *csv.Writer
	shape *shape
	count int
}

// NewCSVWriter returns a CSVWriter writing to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

// Write appends one object.
func (c *CSVWriter) Write(obj *mapping.Object) error {
	if c.shape == nil {
		c.shape = newShape(Header(obj))
		if err := c.w.Write(c.shape.header); err != nil {
			return fmt.Errorf("writing csv header: %w", err)
		}
	}
	row, err := c.shape.row(c.count, obj)
	if err != nil {
		return err
	}
	if err := c.w.Write(row); err != nil {
		return fmt.Errorf("writing csv row %d: %w", c.count, err)
	}
	c.count++
	return nil
}

// Count returns the number of rows written.
func (c *CSVWriter) Count() int {
	return c.count
}

// Flush flushes buffered output and reports any write error.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// WriteCSV writes objects as CSV with a header row. Nothing is written when
// objects is empty.
func WriteCSV(w io.Writer, objects []*mapping.Object) error {
	if len(objects) == 0 {
		return nil
	}
	// Validate before writing so a shape error leaves w untouched.
	if _, _, err := Rows(objects); err != nil {
		return err
	}
	cw := NewCSVWriter(w)
	for _, obj := range objects {
		if err := cw.Write(obj); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// WriteCSVFile writes objects to path, gzip-compressed when path ends in .gz.
func WriteCSVFile(path string, objects []*mapping.Object) (err error) {
	f, err := CreateFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, objects)
}

// CreateFile creates path for writing. Paths ending in .gz are transparently
// gzip-compressed; Close flushes the compressor before closing the file.
func CreateFile(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	return &gzipFile{Writer: gzip.NewWriter(f), file: f}, nil
}

type gzipFile struct {
	*gzip.Writer
	file *os.File
}

func (g *gzipFile) Close() error {
	if err := g.Writer.Close(); err != nil {
		_ = g.file.Close()
		return fmt.Errorf("closing gzip stream: %w", err)
	}
	return g.file.Close()
}

// OpenFile opens path for reading, decompressing .gz files.
func OpenFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	return &gzipReader{Reader: zr, file: f}, nil
}

type gzipReader struct {
	*gzip.Reader
	file *os.File
}

func (g *gzipReader) Close() error {
	_ = g.Reader.Close()
	return g.file.Close()
}
