// Package orderdesk wires the order form pieces together: the service
// client, the renderer registry, the dispatcher and its front-ends.
package orderdesk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-orderdesk/pkg/client"
	"github.com/goliatone/go-orderdesk/pkg/contract"
	"github.com/goliatone/go-orderdesk/pkg/dispatch"
	"github.com/goliatone/go-orderdesk/pkg/form"
	"github.com/goliatone/go-orderdesk/pkg/order"
	"github.com/goliatone/go-orderdesk/pkg/render"
	"github.com/goliatone/go-orderdesk/pkg/renderers/text"
	"github.com/goliatone/go-orderdesk/pkg/renderers/vanilla"
	"github.com/goliatone/go-orderdesk/pkg/seed"
	"github.com/goliatone/go-orderdesk/pkg/tui"
	"github.com/goliatone/go-orderdesk/pkg/web"
)

// Order aliases order.Order for callers of the root package.
type Order = order.Order

// Outcome aliases dispatch.Outcome.
type Outcome = dispatch.Outcome

// Settings selects the service and presentation for a Runtime.
type Settings struct {
	BaseURL       string
	Timeout       time.Duration
	ContractPath  string
	ThemePath     string
	ThemeVariant  string
	TemplatesDir  string
	ResultsFormat string
}

// Runtime holds the shared, stateless pieces. Front-ends build a dispatcher
// per field store on top of it.
type Runtime struct {
	Client    *client.Client
	Contract  *contract.Contract
	Renderers *render.Registry
	Results   render.Renderer
	Logger    *zap.Logger

	templatesDir string
}

// NewRuntime loads the contract, builds the client and registers the text
// and html results renderers.
func NewRuntime(ctx context.Context, settings Settings, logger *zap.Logger) (*Runtime, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	routes, err := contract.LoadFile(ctx, settings.ContractPath)
	if err != nil {
		return nil, fmt.Errorf("orderdesk: %w", err)
	}

	api, err := client.New(settings.BaseURL,
		client.WithContract(routes),
		client.WithTimeout(settings.Timeout),
		client.WithLogger(logger.Named("client")),
	)
	if err != nil {
		return nil, fmt.Errorf("orderdesk: %w", err)
	}

	registry, err := NewRendererRegistry(settings)
	if err != nil {
		return nil, err
	}

	results, err := registry.Resolve(settings.ResultsFormat, "text")
	if err != nil {
		return nil, fmt.Errorf("orderdesk: results format: %w", err)
	}

	return &Runtime{
		Client:    api,
		Contract:  routes,
		Renderers: registry,
		Results:   results,
		Logger:    logger,

		templatesDir: strings.TrimSpace(settings.TemplatesDir),
	}, nil
}

// NewRendererRegistry registers the text renderer and the html renderer.
// The html renderer reads templates from settings.TemplatesDir before the
// embedded ones and takes its tokens from the manifest at settings.ThemePath
// in settings.ThemeVariant.
func NewRendererRegistry(settings Settings) (*render.Registry, error) {
	options := []vanilla.Option{vanilla.WithTemplatesDir(settings.TemplatesDir)}
	if strings.TrimSpace(settings.ThemePath) != "" {
		provider, name, err := vanilla.LoadThemeProvider(settings.ThemePath)
		if err != nil {
			return nil, fmt.Errorf("orderdesk: %w", err)
		}
		options = append(options, vanilla.WithThemeProvider(provider, name, settings.ThemeVariant))
	}
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, fmt.Errorf("orderdesk: %w", err)
	}

	registry := render.NewRegistry()
	registry.MustRegister(text.New(text.WithEmptyMessage("No orders found")))
	registry.MustRegister(html)
	return registry, nil
}

// NewDispatcher binds a dispatcher to fields.
func (rt *Runtime) NewDispatcher(fields form.Fields, options ...dispatch.Option) (*dispatch.Dispatcher, error) {
	if rt == nil {
		return nil, errors.New("orderdesk: runtime is nil")
	}
	binding := form.NewBinding(fields)
	options = append([]dispatch.Option{dispatch.WithLogger(rt.Logger.Named("dispatch"))}, options...)
	return dispatch.New(binding, rt.Client, options...)
}

// NewSession starts a terminal session over a cleared form.
func (rt *Runtime) NewSession(options ...tui.Option) (*tui.Session, error) {
	state := form.NewState(nil)
	d, err := rt.NewDispatcher(state)
	if err != nil {
		return nil, err
	}
	d.Binding().Clear()

	options = append([]tui.Option{
		tui.WithResultsRenderer(rt.Results),
		tui.WithLogger(rt.Logger.Named("tui")),
	}, options...)
	return tui.New(d, options...)
}

// NewWebServer builds the browser front-end. The html renderer is used for
// results regardless of the configured terminal format.
func (rt *Runtime) NewWebServer(options ...web.Option) (*web.Server, error) {
	if rt == nil {
		return nil, errors.New("orderdesk: runtime is nil")
	}
	html, err := rt.Renderers.Get("html")
	if err != nil {
		return nil, fmt.Errorf("orderdesk: %w", err)
	}
	options = append([]web.Option{
		web.WithTemplatesDir(rt.templatesDir),
		web.WithResultsRenderer(html),
		web.WithLogger(rt.Logger.Named("web")),
	}, options...)
	return web.New(rt.Client, options...)
}

// Seed creates every row of the fixture file through the client.
func (rt *Runtime) Seed(ctx context.Context, path string) (seed.Report, error) {
	if rt == nil {
		return seed.Report{}, errors.New("orderdesk: runtime is nil")
	}
	rows, err := seed.LoadFile(path)
	if err != nil {
		return seed.Report{}, fmt.Errorf("orderdesk: %w", err)
	}
	return seed.Run(ctx, rt.Client, rows, seed.WithLogger(rt.Logger.Named("seed")))
}
