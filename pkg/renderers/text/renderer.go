// Package text renders the results table as aligned plain text for
// terminals.
package text

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-orderdesk/pkg/render"
	"github.com/goliatone/go-orderdesk/pkg/results"
)

// Option configures the renderer.
type Option func(*Renderer)

// WithPadding sets the number of spaces between columns.
func WithPadding(padding int) Option {
	return func(r *Renderer) {
		if padding > 0 {
			r.padding = padding
		}
	}
}

// WithEmptyMessage sets the line printed under the header when the table has
// no rows. An empty message prints nothing.
func WithEmptyMessage(msg string) Option {
	return func(r *Renderer) {
		r.emptyMessage = msg
	}
}

// Renderer implements render.Renderer with text/tabwriter.
type Renderer struct {
	padding      int
	emptyMessage string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{padding: 2}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "text"
}

func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Render writes the header, a rule and one line per row.
func (r *Renderer) Render(ctx context.Context, table results.Table) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("text: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, r.padding, ' ', 0)

	writeRow(w, table.Header)
	rule := make([]string, len(table.Header))
	for i, title := range table.Header {
		rule[i] = strings.Repeat("-", len(title))
	}
	writeRow(w, rule)

	for _, row := range table.Rows {
		writeRow(w, row)
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("text: flush: %w", err)
	}

	if table.Empty() && r.emptyMessage != "" {
		buf.WriteString(r.emptyMessage)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func writeRow(w *tabwriter.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, sanitizeCell(cell))
	}
	fmt.Fprint(w, "\n")
}

// Tabs and newlines inside a cell would break the column layout.
func sanitizeCell(cell string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(cell)
}
