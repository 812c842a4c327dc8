package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-orderdesk/pkg/render"
	"github.com/goliatone/go-orderdesk/pkg/results"
)

type namedRenderer struct{ name string }

func (n namedRenderer) Name() string        { return n.name }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, results.Table) ([]byte, error) {
	return []byte(n.name), nil
}

func TestRegistry_RegisterGetList(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer{name: "text"})
	registry.MustRegister(namedRenderer{name: "html"})

	if diff := cmp.Diff([]string{"html", "text"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !registry.Has("text") {
		t.Fatalf("expected text renderer registered")
	}

	got, err := registry.Get("html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "html" {
		t.Fatalf("unexpected renderer %q", got.Name())
	}
}

func TestRegistry_Errors(t *testing.T) {
	registry := render.NewRegistry()

	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
	if err := registry.Register(namedRenderer{}); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}
	registry.MustRegister(namedRenderer{name: "text"})
	if err := registry.Register(namedRenderer{name: "text"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}

	_, err := registry.Get("pdf")
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestRegistry_ResolveFormat(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer{name: "text"})
	registry.MustRegister(namedRenderer{name: "html"})

	cases := []struct {
		format string
		want   string
	}{
		{format: "", want: "text"},
		{format: "  ", want: "text"},
		{format: "HTML", want: "html"},
		{format: " text ", want: "text"},
	}
	for _, tc := range cases {
		got, err := registry.Resolve(tc.format, "text")
		if err != nil {
			t.Fatalf("resolve %q: %v", tc.format, err)
		}
		if got.Name() != tc.want {
			t.Fatalf("resolve %q: want %q, got %q", tc.format, tc.want, got.Name())
		}
	}

	if _, err := registry.Resolve("csv", "text"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound for unknown format, got %v", err)
	}
	if err := registry.Register(namedRenderer{name: "TEXT"}); err == nil {
		t.Fatalf("expected duplicate error for format differing only in case")
	}
}
