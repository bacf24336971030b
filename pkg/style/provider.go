// Package style resolves named style entries and turns them into style functions for
// map layers.
package style

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Names of the style entries the map layers look up.
const (
	RoadFill            = "road-fill"
	HighlightedRoadFill = "highlighted-road-fill"
	HighlightedPoint    = "highlighted-point"
	HighlightedPath     = "highlighted-path"
	HighlightedArea     = "highlighted-area"
	GeoJSONPoint        = "geojson-point"
	GeoJSONPath         = "geojson-path"
	GeoJSONArea         = "geojson-area"
	QueryPoint          = "query-point"
	QueryPath           = "query-path"
	QueryArea           = "query-area"
)

// Names lists every style entry a Provider must define.
var Names = []string{
	RoadFill, HighlightedRoadFill,
	HighlightedPoint, HighlightedPath, HighlightedArea,
	GeoJSONPoint, GeoJSONPath, GeoJSONArea,
	QueryPoint, QueryPath, QueryArea,
}

//go:embed defaults.yaml
var defaults []byte

// Entry is one named style as written in a style table.
type Entry struct {
	Stroke      string `mapstructure:"stroke" yaml:"stroke"`
	StrokeWidth string `mapstructure:"stroke-width" yaml:"stroke-width"`
	Fill        string `mapstructure:"fill" yaml:"fill"`
}

// Width parses StrokeWidth ("1.5px" or "1.5"); it is 0 when unset.
func (e Entry) Width() (float64, error) {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(e.StrokeWidth), "px"))
	if s == "" {
		return 0, nil
	}
	w, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid stroke-width %q: %w", e.StrokeWidth, err)
	}
	return w, nil
}

// Provider is a read-only table of named styles.
type Provider struct {
	entries map[string]Entry
}

// Default returns the built-in style table.
func Default() *Provider {
	p, err := Parse(nil)
	if err != nil {
		panic(fmt.Sprintf("style: built-in table is invalid: %v", err))
	}
	return p
}

// Load reads a YAML style table from path and layers it over the built-in one.
func Load(path string) (*Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open style table: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read style table: %w", err)
	}
	return Parse(data)
}

// Parse layers a YAML style table over the built-in one. Entries are merged field
// by field, so an override may set only a colour.
func Parse(data []byte) (*Provider, error) {
	entries, err := decode(defaults)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		overrides, err := decode(data)
		if err != nil {
			return nil, err
		}
		for name, o := range overrides {
			e := entries[name]
			if o.Stroke != "" {
				e.Stroke = o.Stroke
			}
			if o.StrokeWidth != "" {
				e.StrokeWidth = o.StrokeWidth
			}
			if o.Fill != "" {
				e.Fill = o.Fill
			}
			entries[name] = e
		}
	}

	for _, name := range Names {
		if _, ok := entries[name]; !ok {
			return nil, fmt.Errorf("style %q is not defined", name)
		}
	}
	for name, e := range entries {
		if _, err := e.Width(); err != nil {
			return nil, fmt.Errorf("style %q: %w", name, err)
		}
	}
	return &Provider{entries: entries}, nil
}

func decode(data []byte) (map[string]Entry, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse style table: %w", err)
	}

	entries := make(map[string]Entry, len(raw))
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &entries,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode style table: %w", err)
	}
	return entries, nil
}

// Lookup returns the named entry.
func (p *Provider) Lookup(name string) (Entry, bool) {
	e, ok := p.entries[name]
	return e, ok
}

// Style builds the visual style of a named entry. Points get a circle of the given
// radius.
func (p *Provider) Style(name string, radius float64) *Style {
	e := p.entries[name]
	s := &Style{Radius: radius}
	if e.Stroke != "" {
		w, _ := e.Width()
		s.Stroke = &Stroke{Color: e.Stroke, Width: w}
	}
	if e.Fill != "" {
		s.Fill = &Fill{Color: e.Fill}
	}
	return s
}
