package vanilla

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// LoadThemeManifest reads and validates a go-theme manifest. The format
// follows the file extension (.json, .yaml or .yml).
func LoadThemeManifest(path string) (*theme.Manifest, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("vanilla: theme path is required")
	}
	manifest, err := theme.LoadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("vanilla: load theme %q: %w", path, err)
	}
	return manifest, nil
}

// LoadThemeProvider loads the manifest at path into a fresh registry and
// returns it with the manifest name for use with WithThemeProvider.
func LoadThemeProvider(path string) (*theme.MemoryRegistry, string, error) {
	manifest, err := LoadThemeManifest(path)
	if err != nil {
		return nil, "", err
	}
	registry := theme.NewRegistry()
	if err := registry.Register(manifest); err != nil {
		return nil, "", fmt.Errorf("vanilla: register theme %q: %w", manifest.Name, err)
	}
	return registry, manifest.Name, nil
}

func resolveTableClass(cfg config) (string, error) {
	if cfg.themeSelector == nil {
		return DefaultTableClass, nil
	}
	selection, err := cfg.themeSelector.Select("", "")
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: select theme: %w", err)
	}
	if class := strings.TrimSpace(selection.Tokens()[TableClassToken]); class != "" {
		return class, nil
	}
	return DefaultTableClass, nil
}
