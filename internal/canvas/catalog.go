// ABOUTME: Widget catalog loaded from an embedded YAML manifest
// ABOUTME: Supplies palette labels and default percentage sizes per widget type

package canvas

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Default size for widget types missing from the catalog.
const (
	DefaultWidth  = 20.0
	DefaultHeight = 20.0
)

//go:embed catalog.yaml
var catalogYAML []byte

// Kind describes one widget type offered by the palette.
type Kind struct {
	Type     string  `yaml:"type"`
	Label    string  `yaml:"label"`
	Subtitle string  `yaml:"subtitle"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
}

type manifest struct {
	Widgets []Kind `yaml:"widgets"`
}

var (
	catalogOnce sync.Once
	catalog     []Kind
	catalogErr  error
)

// parseCatalog decodes a catalog manifest and rejects duplicate or empty types.
func parseCatalog(data []byte) ([]Kind, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse widget catalog: %w", err)
	}
	seen := make(map[string]bool, len(m.Widgets))
	for _, k := range m.Widgets {
		if k.Type == "" {
			return nil, fmt.Errorf("widget catalog: entry without type")
		}
		if seen[k.Type] {
			return nil, fmt.Errorf("widget catalog: duplicate type %q", k.Type)
		}
		seen[k.Type] = true
	}
	return m.Widgets, nil
}

func loadCatalog() {
	catalog, catalogErr = parseCatalog(catalogYAML)
}

// Catalog returns the palette entries in display order.
func Catalog() []Kind {
	catalogOnce.Do(loadCatalog)
	if catalogErr != nil {
		panic(catalogErr)
	}
	return append([]Kind(nil), catalog...)
}

// Lookup returns the catalog entry for typ.
func Lookup(typ string) (Kind, bool) {
	for _, k := range Catalog() {
		if k.Type == typ {
			return k, true
		}
	}
	return Kind{}, false
}

// DefaultSize returns the initial width and height for typ.
func DefaultSize(typ string) (w, h float64) {
	if k, ok := Lookup(typ); ok && k.Width > 0 && k.Height > 0 {
		return k.Width, k.Height
	}
	return DefaultWidth, DefaultHeight
}
