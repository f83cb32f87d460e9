package tabular

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// printer formats the row-count footer.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

type tableOptions struct {
	style       table.Style
	headerStyle *lipgloss.Style
	footer      bool
}

// TableOption configures table rendering.
type TableOption func(*tableOptions)

// WithStyle sets the go-pretty box style. The default is table.StyleLight.
func WithStyle(s table.Style) TableOption {
	return func(o *tableOptions) {
		o.style = s
	}
}

// WithHeaderStyle renders header cells through s. Use it only when the
// output is a terminal.
func WithHeaderStyle(s lipgloss.Style) TableOption {
	return func(o *tableOptions) {
		o.headerStyle = &s
	}
}

// WithRowCount adds a "(N rows)" line after the table in WriteTable.
func WithRowCount() TableOption {
	return func(o *tableOptions) {
		o.footer = true
	}
}

func newTableOptions(opts []TableOption) *tableOptions {
	o := &tableOptions{style: table.StyleLight}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RenderTable renders objects as table lines. An empty input renders nothing.
func RenderTable(objects []*mapping.Object, opts ...TableOption) ([]string, error) {
	header, rows, err := Rows(objects)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}
	out := render(header, rows, newTableOptions(opts))
	return strings.Split(out, "\n"), nil
}

// WriteTable writes the rendered table to w.
func WriteTable(w io.Writer, objects []*mapping.Object, opts ...TableOption) error {
	o := newTableOptions(opts)
	header, rows, err := Rows(objects)
	if err != nil {
		return err
	}
	if header != nil {
		if _, err := fmt.Fprintln(w, render(header, rows, o)); err != nil {
			return err
		}
	}
	if o.footer {
		if _, err := fmt.Fprintln(w, RowCount(len(rows))); err != nil {
			return err
		}
	}
	return nil
}

// RowCount formats n as a "(N rows)" footer with thousand separators.
func RowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return printer.Sprintf("(%d rows)", n)
}

func render(header []string, rows [][]string, o *tableOptions) string {
	t := table.NewWriter()
	t.SetStyle(o.style)
	t.Style().Format.Header = text.FormatDefault

	headerRow := make(table.Row, len(header))
	for i, col := range header {
		if o.headerStyle != nil {
			headerRow[i] = o.headerStyle.Render(col)
		} else {
			headerRow[i] = col
		}
	}
	t.AppendHeader(headerRow)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = cell
		}
		t.AppendRow(row)
	}
	return t.Render()
}
