// Package layers implements the map layers a response can declare: a geometry layer
// for embedded GeoJSON and tile layers for queries.
package layers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/aretw0/outliner/pkg/style"
)

// GeoJSON is a layer drawing the features of a GeoJSON document.
type GeoJSON struct {
	id       string
	raw      json.RawMessage
	features []style.Feature
	style    style.Func
	changes  atomic.Int64
}

type geoJSONObject struct {
	Type       string          `json:"type"`
	Features   []geoJSONObject `json:"features"`
	Geometry   *geoJSONObject  `json:"geometry"`
	Properties map[string]any  `json:"properties"`
}

// NewGeoJSON parses a FeatureCollection, a Feature or a bare geometry.
func NewGeoJSON(raw json.RawMessage, fn style.Func) (*GeoJSON, error) {
	var root geoJSONObject
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("failed to parse geojson: %w", err)
	}

	var features []style.Feature
	switch root.Type {
	case "FeatureCollection":
		for _, f := range root.Features {
			if f.Geometry != nil {
				features = append(features, style.Feature{Geometry: f.Geometry.Type, Properties: f.Properties})
			}
		}
	case "Feature":
		if root.Geometry != nil {
			features = append(features, style.Feature{Geometry: root.Geometry.Type, Properties: root.Properties})
		}
	case "Point", "MultiPoint", "LineString", "MultiLineString", "Polygon", "MultiPolygon", "GeometryCollection":
		features = append(features, style.Feature{Geometry: root.Type})
	default:
		return nil, fmt.Errorf("unsupported geojson type %q", root.Type)
	}

	return &GeoJSON{
		id:       "geojson-" + uuid.NewString(),
		raw:      raw,
		features: features,
		style:    fn,
	}, nil
}

func (l *GeoJSON) ID() string        { return l.id }
func (l *GeoJSON) Style() style.Func { return l.style }
func (l *GeoJSON) Changed()          { l.changes.Add(1) }

// Changes returns how many times the layer was asked to redraw.
func (l *GeoJSON) Changes() int64 { return l.changes.Load() }

// Features returns the parsed features.
func (l *GeoJSON) Features() []style.Feature { return l.features }

// Export returns the document pretty-printed with two space indentation.
func (l *GeoJSON) Export() ([]byte, error) {
	return Pretty(l.raw)
}

// Pretty indents a JSON document with two spaces.
func Pretty(raw json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format geojson: %w", err)
	}
	return buf.Bytes(), nil
}
