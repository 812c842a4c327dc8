package orderdesk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderdesk/pkg/dispatch"
	"github.com/goliatone/go-orderdesk/pkg/form"
	"github.com/goliatone/go-orderdesk/pkg/render"
	"github.com/goliatone/go-orderdesk/pkg/results"
	"github.com/goliatone/go-orderdesk/pkg/testsupport"
	"github.com/goliatone/go-orderdesk/pkg/web"
)

func newRuntime(t *testing.T, settings Settings) (*Runtime, *testsupport.FakeService) {
	t.Helper()
	fake := testsupport.NewFakeService(testsupport.WithIDPrefix("O"))
	settings.BaseURL = fake.Start(t).URL
	if settings.Timeout == 0 {
		settings.Timeout = time.Second
	}
	rt, err := NewRuntime(context.Background(), settings, nil)
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	return rt, fake
}

func TestNewRuntime_Registry(t *testing.T) {
	rt, _ := newRuntime(t, Settings{})

	if diff := cmp.Diff([]string{"html", "text"}, rt.Renderers.List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}
	if rt.Results.Name() != "text" {
		t.Fatalf("expected text results by default, got %q", rt.Results.Name())
	}

	htmlRT, _ := newRuntime(t, Settings{ResultsFormat: "HTML"})
	if htmlRT.Results.Name() != "html" {
		t.Fatalf("expected html results, got %q", htmlRT.Results.Name())
	}
}

func TestNewRuntime_UnknownFormat(t *testing.T) {
	_, err := NewRuntime(context.Background(), Settings{BaseURL: "http://localhost:5000", ResultsFormat: "csv"}, nil)
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestRuntime_DispatcherAndSeed(t *testing.T) {
	rt, fake := newRuntime(t, Settings{})

	dir := t.TempDir()
	path := filepath.Join(dir, "orders.yaml")
	fixture := "- customer_id: C1\n  status: received\n  product_id: P1\n  name: Widget\n  quantity: 3\n  price: 9.99\n"
	if err := os.WriteFile(path, []byte(fixture), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	report, err := rt.Seed(context.Background(), path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(report.Created) != 1 || report.Created[0].ID != "O1" {
		t.Fatalf("unexpected report %+v", report)
	}

	state := form.NewState(map[string]string{form.FieldOrderID: "O1"})
	d, err := rt.NewDispatcher(state)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}
	outcome := d.Dispatch(context.Background(), dispatch.OpCancel)
	if !outcome.OK() || outcome.Message != dispatch.MessageCanceled {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	stored, _ := fake.Order("O1")
	if stored.Status != "canceled" {
		t.Fatalf("expected canceled order, got %q", stored.Status)
	}
}

func TestRuntime_ThemedWebServer(t *testing.T) {
	dir := t.TempDir()
	themePath := filepath.Join(dir, "theme.yaml")
	if err := os.WriteFile(themePath, []byte(strings.Join([]string{
		"name: acme",
		"version: 1.0.0",
		"tokens:",
		"  results.table.class: acme-table",
		"variants:",
		"  dark:",
		"    tokens:",
		"      results.table.class: acme-table acme-dark",
	}, "\n")), 0o600); err != nil {
		t.Fatalf("write theme: %v", err)
	}
	rt, _ := newRuntime(t, Settings{ThemePath: themePath, ThemeVariant: "dark"})

	html, err := rt.Renderers.Get("html")
	if err != nil {
		t.Fatalf("html renderer: %v", err)
	}
	out, err := html.Render(context.Background(), emptyTable())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `class="acme-table acme-dark"`) {
		t.Fatalf("expected themed class:\n%s", out)
	}

	if _, err := rt.NewWebServer(); err != nil {
		t.Fatalf("new web server: %v", err)
	}
	if _, err := rt.NewSession(); err != nil {
		t.Fatalf("new session: %v", err)
	}
}

func TestRuntime_TemplatesDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "templates", "page.tmpl"), []byte(`<p>{{ title }}</p>{{ results|safe }}`), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	rt, _ := newRuntime(t, Settings{TemplatesDir: dir})

	server, err := rt.NewWebServer()
	if err != nil {
		t.Fatalf("new web server: %v", err)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := rec.Body.String(); got != "<p>"+web.DefaultTitle+"</p>" {
		t.Fatalf("expected page from templates dir, got %q", got)
	}
}

func emptyTable() results.Table {
	return results.Build(nil)
}
