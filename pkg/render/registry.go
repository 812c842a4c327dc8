package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrRendererNotFound is returned by Get for unknown names.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Registry maps results formats to renderers. A format is a renderer's
// Name(), matched case-insensitively, so the results_format setting ("text",
// "html") selects the renderer front-ends draw search results with.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]Renderer),
	}
}

func normalizeFormat(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds a renderer under its format. Duplicate formats return an
// error.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return fmt.Errorf("render: renderer is required")
	}
	format := normalizeFormat(renderer.Name())
	if format == "" {
		return fmt.Errorf("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[format]; exists {
		return fmt.Errorf("render: format %q already registered", format)
	}

	r.renderers[format] = renderer
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get retrieves the renderer for format.
func (r *Registry) Get(format string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[normalizeFormat(format)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, format)
	}
	return renderer, nil
}

// Resolve returns the renderer for a configured format, using fallback when
// format is blank. An unknown format is an error, never a silent fallback.
func (r *Registry) Resolve(format, fallback string) (Renderer, error) {
	if normalizeFormat(format) == "" {
		format = fallback
	}
	return r.Get(format)
}

// List returns the registered formats, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether format is registered.
func (r *Registry) Has(format string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.renderers[normalizeFormat(format)]
	return ok
}
