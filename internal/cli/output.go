package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jrcrawfo/contxt-go/internal/config"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
	"github.com/jrcrawfo/contxt-go/internal/tabular"
)

//nolint:gochecknoglobals // Styles are immutable after construction.
var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))

// rowWriter receives objects one at a time and finishes the output.
type rowWriter interface {
	Write(obj *mapping.Object) error
	Close() error
}

// openOutput returns the destination of results and whether it is an
// interactive terminal.
func (o *rootOptions) openOutput(cmd *cobra.Command) (io.WriteCloser, bool, error) {
	if o.output != "" {
		f, err := tabular.CreateFile(o.output)
		if err != nil {
			return nil, false, err
		}
		return f, false, nil
	}
	out := cmd.OutOrStdout()
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isTerminal(f)
	}
	return nopCloser{out}, tty, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// newRowWriter picks the writer for the configured format. CSV and NDJSON
// stream each object as it arrives; tables and JSON arrays are buffered
// because they need every row before writing.
func (o *rootOptions) newRowWriter(w io.Writer, tty bool) rowWriter {
	switch o.cfg.Output.DefaultFormat {
	case config.FormatCSV:
		return &csvRows{w: tabular.NewCSVWriter(w)}
	case config.FormatNDJSON:
		return &ndjsonRows{w: tabular.NewNDJSONWriter(w)}
	case config.FormatJSON:
		return &bufferedRows{flush: func(objs []*mapping.Object) error {
			return tabular.WriteJSON(w, objs)
		}}
	default:
		var opts []tabular.TableOption
		if tty {
			opts = append(opts, tabular.WithHeaderStyle(headerStyle))
		}
		if o.cfg.Output.RowCount {
			opts = append(opts, tabular.WithRowCount())
		}
		return &bufferedRows{flush: func(objs []*mapping.Object) error {
			return tabular.WriteTable(w, objs, opts...)
		}}
	}
}

type csvRows struct{ w *tabular.CSVWriter }

func (c *csvRows) Write(obj *mapping.Object) error { return c.w.Write(obj) }
func (c *csvRows) Close() error                    { return c.w.Flush() }

type ndjsonRows struct{ w *tabular.NDJSONWriter }

func (n *ndjsonRows) Write(obj *mapping.Object) error { return n.w.Write(obj) }
func (n *ndjsonRows) Close() error                    { return nil }

type bufferedRows struct {
	objs  []*mapping.Object
	flush func([]*mapping.Object) error
}

func (b *bufferedRows) Write(obj *mapping.Object) error {
	b.objs = append(b.objs, obj)
	return nil
}

func (b *bufferedRows) Close() error { return b.flush(b.objs) }

// render writes a complete set of objects.
func (o *rootOptions) render(cmd *cobra.Command, objs []*mapping.Object) error {
	return o.withWriter(cmd, func(rw rowWriter) (int, error) {
		for _, obj := range objs {
			if err := rw.Write(obj); err != nil {
				return 0, err
			}
		}
		return len(objs), nil
	})
}

// renderIter walks it and writes row(item) for each item. Items that were
// written before a failure stay in the output.
func renderIter[T any](cmd *cobra.Command, o *rootOptions, it *pagination.Iterator[T], row func(T) *mapping.Object) error {
	ctx := cmd.Context()
	return o.withWriter(cmd, func(rw rowWriter) (int, error) {
		n := 0
		for {
			item, err := it.Next(ctx)
			if errors.Is(err, pagination.Done) {
				logWalk(ctx, it.Sequence())
				return n, nil
			}
			if err != nil {
				return n, err
			}
			if err := rw.Write(row(item)); err != nil {
				return n, err
			}
			n++
		}
	})
}

func (o *rootOptions) withWriter(cmd *cobra.Command, fill func(rowWriter) (int, error)) (err error) {
	out, tty, err := o.openOutput(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rw := o.newRowWriter(out, tty)
	n, fillErr := fill(rw)
	if closeErr := rw.Close(); closeErr != nil && fillErr == nil {
		fillErr = closeErr
	}
	if fillErr != nil {
		return fillErr
	}
	if o.output != "" {
		cmd.PrintErrf("%s written to %s\n", tabular.RowCount(n), o.output)
	}
	return nil
}

func logWalk(ctx context.Context, seq *pagination.Sequence) {
	stats := seq.Stats()
	logger.Debug().Ctx(ctx).
		Int("pages_fetched", stats.PagesFetched).
		Int("empty_pages", stats.EmptyPages).
		Int("objects_mapped", stats.ObjectsMapped).
		Str("state", stats.State).
		Msg("collection walk finished")
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: expected a positive integer", arg)
	}
	return id, nil
}
