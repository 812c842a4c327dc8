package render

import (
	"context"

	"github.com/goliatone/go-orderdesk/pkg/results"
)

// Renderer converts a results table into a byte representation (plain text,
// HTML, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, table results.Table) ([]byte, error)
}
