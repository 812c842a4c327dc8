// Package vanilla renders the results table as an HTML fragment for the
// browser front-end.
package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-orderdesk/pkg/render"
	rendertemplate "github.com/goliatone/go-orderdesk/pkg/render/template"
	gotemplate "github.com/goliatone/go-orderdesk/pkg/render/template/gotemplate"
	"github.com/goliatone/go-orderdesk/pkg/results"
)

// TableClassToken is the theme token holding the CSS class of the table.
const TableClassToken = "results.table.class"

// DefaultTableClass matches the class the original page used.
const DefaultTableClass = "table-striped"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	themeSelector    theme.ThemeSelector
	caption          string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The
// bundle must provide ResultsTemplate.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir reads templates from a directory on disk first, falling
// back to the template bundle for names the directory does not provide.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeProvider builds a go-theme selector over provider with the given
// default theme and variant.
func WithThemeProvider(provider theme.ThemeProvider, defaultTheme, defaultVariant string) Option {
	return func(cfg *config) {
		if provider == nil {
			return
		}
		cfg.themeSelector = theme.Selector{
			Registry:       provider,
			DefaultTheme:   strings.TrimSpace(defaultTheme),
			DefaultVariant: strings.TrimSpace(defaultVariant),
		}
	}
}

// WithCaption renders a <caption> above the table.
func WithCaption(caption string) Option {
	return func(cfg *config) {
		cfg.caption = strings.TrimSpace(caption)
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	tableClass string
	caption    string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(cfg.templatesDir),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithSetName("vanilla"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	class, err := resolveTableClass(cfg)
	if err != nil {
		return nil, err
	}

	return &Renderer{
		templates:  renderer,
		tableClass: class,
		caption:    cfg.caption,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces a sanitized <table> fragment.
func (r *Renderer) Render(ctx context.Context, table results.Table) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("vanilla renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	rows := make([]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		rows = append(rows, cells)
	}
	header := make([]any, len(table.Header))
	for i, title := range table.Header {
		header[i] = title
	}

	result, err := r.templates.RenderTemplate(ResultsTemplate, map[string]any{
		"table_class": r.tableClass,
		"caption":     r.caption,
		"header":      header,
		"rows":        rows,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(sanitizeTableMarkup(result)), nil
}
