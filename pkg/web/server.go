// Package web serves the order form to a browser. Every action is a plain
// form post; the posted fields are the only state.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-orderdesk/pkg/dispatch"
	"github.com/goliatone/go-orderdesk/pkg/form"
	"github.com/goliatone/go-orderdesk/pkg/order"
	"github.com/goliatone/go-orderdesk/pkg/render"
	rendertemplate "github.com/goliatone/go-orderdesk/pkg/render/template"
	gotemplate "github.com/goliatone/go-orderdesk/pkg/render/template/gotemplate"
	"github.com/goliatone/go-orderdesk/pkg/renderers/vanilla"
)

//go:embed templates/*.tmpl
var pageTemplates embed.FS

const pageTemplate = "templates/page.tmpl"

// DefaultTitle heads the page.
const DefaultTitle = "Order Demo RESTful Service"

// anyStatusLabel labels the blank status option, which leaves status out of
// a search.
const anyStatusLabel = "(any)"

var actionLabels = map[dispatch.Operation]string{
	dispatch.OpCreate:   "Create",
	dispatch.OpUpdate:   "Update",
	dispatch.OpRetrieve: "Retrieve",
	dispatch.OpDelete:   "Delete",
	dispatch.OpCancel:   "Cancel",
	dispatch.OpSearch:   "Search",
	dispatch.OpClear:    "Clear",
}

// Option configures a Server.
type Option func(*Server)

// WithLogger attaches a zap logger for request and action logs.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithResultsRenderer replaces the HTML results table renderer.
func WithResultsRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.results = renderer
		}
	}
}

// WithPageRenderer replaces the engine rendering templates/page.tmpl.
func WithPageRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.pages = renderer
		}
	}
}

// WithTemplatesDir reads page templates from dir before the embedded ones.
func WithTemplatesDir(dir string) Option {
	return func(s *Server) {
		s.templatesDir = strings.TrimSpace(dir)
	}
}

// WithTitle overrides DefaultTitle.
func WithTitle(title string) Option {
	return func(s *Server) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			s.title = trimmed
		}
	}
}

// Server renders the page and runs actions against the orders service.
type Server struct {
	client  dispatch.OrdersClient
	results render.Renderer
	pages   rendertemplate.TemplateRenderer
	logger  *zap.Logger
	title   string
	router  chi.Router

	templatesDir string
}

// New builds a server over api.
func New(api dispatch.OrdersClient, options ...Option) (*Server, error) {
	if api == nil {
		return nil, errors.New("web: orders client is required")
	}
	s := &Server{
		client: api,
		logger: zap.NewNop(),
		title:  DefaultTitle,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	if s.results == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("web: results renderer: %w", err)
		}
		s.results = renderer
	}
	if s.pages == nil {
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(s.templatesDir),
			gotemplate.WithFS(pageTemplates),
			gotemplate.WithSetName("web"),
		)
		if err != nil {
			return nil, fmt.Errorf("web: page renderer: %w", err)
		}
		s.pages = engine
	}

	s.router = s.routes()
	return s, nil
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("web listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("web: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleIndex)
	r.Post("/actions/{action}", s.handleAction)
	r.Get("/healthz", s.handleHealth)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	state := form.NewState(nil)
	form.NewBinding(state).Clear()
	s.writePage(w, r, page{fields: state.Snapshot()})
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	op, ok := dispatch.ParseOperation(chi.URLParam(r, "action"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	state := form.StateFromValues(r.PostForm)
	d, err := dispatch.New(form.NewBinding(state), s.client, dispatch.WithLogger(s.logger))
	if err != nil {
		s.fail(w, err)
		return
	}

	outcome := d.Dispatch(r.Context(), op)
	view := page{
		fields:  state.Snapshot(),
		message: outcome.Message,
		failed:  !outcome.OK(),
	}
	if outcome.OK() && outcome.Table != nil {
		html, err := s.results.Render(r.Context(), *outcome.Table)
		if err != nil {
			s.fail(w, err)
			return
		}
		view.results = string(html)
	}
	s.writePage(w, r, view)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type page struct {
	fields  map[string]string
	message string
	failed  bool
	results string
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, view page) {
	statuses := statusOptions(view.fields[form.FieldStatus])
	actions := make([]any, 0, len(actionLabels))
	for _, op := range dispatch.Operations() {
		actions = append(actions, map[string]any{"name": string(op), "label": actionLabels[op]})
	}

	html, err := s.pages.RenderTemplate(pageTemplate, map[string]any{
		"title":    s.title,
		"fields":   view.fields,
		"statuses": statuses,
		"actions":  actions,
		"message":  view.message,
		"failed":   view.failed,
		"results":  view.results,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// statusOptions lists the blank option, the known statuses and, when the
// form carries a status outside that list, the current one so it posts back
// unchanged.
func statusOptions(current string) []any {
	known := order.KnownStatuses()
	options := make([]any, 0, len(known)+2)
	options = append(options, map[string]any{"value": "", "label": anyStatusLabel})
	for _, status := range known {
		options = append(options, map[string]any{"value": status.String(), "label": status.String()})
	}
	if current != "" && !order.Status(current).Known() {
		options = append(options, map[string]any{"value": current, "label": current})
	}
	return options
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("web request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
