package gotemplate_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-orderdesk/pkg/render/template/gotemplate"
)

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tmpl":  {Data: []byte(`Hello {{ name|trim }}!`)},
		"global.tmpl": {Data: []byte(`env={{ settings.env }}`)},
		"cells.tmpl":  {Data: []byte(`{% for cell in cells %}[{{ cell|blank:"-" }}]{% endfor %}`)},
	}

	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateWritesToOutputs(t *testing.T) {
	engine := newEngine(t)

	var sb strings.Builder
	got, err := engine.RenderTemplate("hello", map[string]any{"name": "  Ada "}, &sb)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello Ada!" {
		t.Fatalf("unexpected output %q", got)
	}
	if sb.String() != got {
		t.Fatalf("writer mismatch: %q", sb.String())
	}
}

func TestEngine_Autoescapes(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderTemplate("hello.tmpl", map[string]any{"name": "<b>x</b>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<b>") {
		t.Fatalf("expected escaped markup, got %q", got)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))

	got, err := engine.RenderTemplate("global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "env=staging" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_BlankFilterAndStructData(t *testing.T) {
	engine := newEngine(t)

	data := struct {
		Cells []string `json:"cells"`
	}{Cells: []string{"a", "", " "}}

	got, err := engine.RenderTemplate("cells", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "[a][-][-]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString(`{{ a }}-{{ b }}`, map[string]any{"a": 1, "b": "two"})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "1-two" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without templates source")
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}
