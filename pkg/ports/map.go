package ports

import (
	"encoding/json"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/style"
)

// Layer is a map layer owned by a rendered response or by the basemap.
type Layer interface {
	// ID is unique among the layers attached to a map.
	ID() string

	// Style decides how each of the layer's features is drawn.
	Style() style.Func

	// Changed asks for the layer to be redrawn, e.g. after highlights changed.
	Changed()
}

// Map is the map widget collaborator.
type Map interface {
	AddLayer(layer Layer)
	RemoveLayer(layer Layer)

	// Animate moves the viewport to center.
	Animate(center domain.LatLng)

	// HighlightChanged redraws the basemap layers that depend on highlights.
	HighlightChanged()
}

// LayerFactory builds the layers a response declares.
type LayerFactory interface {
	// GeoJSONLayer builds a geometry layer for embedded GeoJSON.
	GeoJSONLayer(geojson json.RawMessage) (Layer, error)

	// QueryLayer builds a tile layer showing the features matching a query.
	QueryLayer(query string) (Layer, error)
}
