package style

import (
	"strconv"

	"github.com/aretw0/outliner/pkg/domain"
)

// PointRadius is the radius of the circle drawn for point features.
const PointRadius = 4

// Stroke is an outline.
type Stroke struct {
	Color string  `json:"color"`
	Width float64 `json:"width"`
}

// Fill is an interior colour.
type Fill struct {
	Color string `json:"color"`
}

// Style is how one feature is drawn. A nil *Style means the feature is not drawn.
type Style struct {
	Stroke *Stroke `json:"stroke,omitempty"`
	Fill   *Fill   `json:"fill,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

// Feature is what a style function sees of a map feature: its geometry type
// ("Point", "LineString", "Polygon", ...) and its properties.
type Feature struct {
	Geometry   string
	Properties map[string]any
}

// Property returns a property as a string.
func (f Feature) Property(name string) string {
	switch v := f.Properties[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Flag reports whether a property is present and not false, zero or empty.
func (f Feature) Flag(name string) bool {
	switch v := f.Properties[name].(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != "" && v != "false" && v != "0"
	}
	return true
}

// Func decides the style of a feature at a map resolution.
type Func func(f Feature, resolution float64) *Style

// Highlights is read by style functions to draw highlighted features differently.
type Highlights interface {
	Highlighted(key domain.HighlightKey) bool
}

var geometryTypes = map[string]domain.FeatureType{
	"Point":           domain.FeatureTypePoint,
	"LineString":      domain.FeatureTypePath,
	"MultiLineString": domain.FeatureTypePath,
	"Polygon":         domain.FeatureTypeArea,
	"MultiPolygon":    domain.FeatureTypeArea,
}

// KeyFromFeature derives the highlight key of a tile feature from its geometry type
// and its "ns" and "id" properties. Tile ids are hexadecimal.
func KeyFromFeature(f Feature) (domain.HighlightKey, bool) {
	t, ok := geometryTypes[f.Geometry]
	if !ok {
		return "", false
	}
	ns, id := f.Property("ns"), f.Property("id")
	if ns == "" || id == "" {
		return "", false
	}
	v, err := strconv.ParseUint(id, 16, 64)
	if err != nil {
		return "", false
	}
	return domain.NewHighlightKey(t, ns, v), true
}

func highlighted(h Highlights, f Feature) bool {
	key, ok := KeyFromFeature(f)
	return ok && h.Highlighted(key)
}

// QueryStyle draws query layer features, switching to the highlighted entries for
// features in h. Background features are not drawn, and boundaries are outlined only.
func QueryStyle(h Highlights, p *Provider) Func {
	point := p.Style(QueryPoint, PointRadius)
	point.Fill = nil
	hPoint := p.Style(HighlightedPoint, PointRadius)
	path := p.Style(QueryPath, 0)
	hPath := p.Style(HighlightedPath, 0)
	area := p.Style(QueryArea, 0)
	hArea := p.Style(HighlightedArea, 0)
	boundary := &Style{Stroke: area.Stroke}
	hBoundary := &Style{Stroke: hArea.Stroke}

	return func(f Feature, _ float64) *Style {
		if f.Property("layer") == "background" {
			return nil
		}
		lit := highlighted(h, f)
		pick := func(normal, hl *Style) *Style {
			if lit {
				return hl
			}
			return normal
		}
		switch f.Geometry {
		case "Point":
			return pick(point, hPoint)
		case "LineString", "MultiLineString":
			return pick(path, hPath)
		case "Polygon", "MultiPolygon":
			if f.Flag("boundary") {
				return pick(boundary, hBoundary)
			}
			return pick(area, hArea)
		}
		return nil
	}
}

// GeoJSONStyle draws features of embedded GeoJSON.
func GeoJSONStyle(p *Provider) Func {
	point := p.Style(GeoJSONPoint, PointRadius)
	path := p.Style(GeoJSONPath, 0)
	area := p.Style(GeoJSONArea, 0)

	return func(f Feature, _ float64) *Style {
		switch f.Geometry {
		case "LineString", "MultiLineString":
			return path
		case "Polygon", "MultiPolygon":
			return area
		}
		return point
	}
}

// BasemapStyle highlights basemap roads and buildings that are in h.
func BasemapStyle(h Highlights, p *Provider) Func {
	road := p.Style(RoadFill, 0)
	hRoad := p.Style(HighlightedRoadFill, 0)
	hArea := p.Style(HighlightedArea, 0)
	building := &Style{Fill: &Fill{Color: "#ffffff"}, Stroke: &Stroke{Color: "#4f5a7d", Width: 0.3}}
	hBuilding := &Style{Fill: hArea.Fill, Stroke: &Stroke{Color: hArea.Stroke.Color, Width: 0.3}}

	return func(f Feature, _ float64) *Style {
		switch f.Property("layer") {
		case "road":
			if highlighted(h, f) {
				return hRoad
			}
			return road
		case "building":
			if highlighted(h, f) {
				return hBuilding
			}
			return building
		}
		return nil
	}
}
