package layers

import (
	"encoding/json"

	"github.com/aretw0/outliner/pkg/ports"
	"github.com/aretw0/outliner/pkg/style"
)

// Factory builds the layers responses declare, styled from a shared provider and
// highlight set.
type Factory struct {
	tileURL      string
	queryStyle   style.Func
	geojsonStyle style.Func
}

// Option configures the Factory.
type Option func(*Factory)

// WithTileURL sets the tile endpoint of query layers.
func WithTileURL(u string) Option {
	return func(f *Factory) {
		f.tileURL = u
	}
}

// NewFactory creates a layer factory.
func NewFactory(h style.Highlights, p *style.Provider, opts ...Option) *Factory {
	f := &Factory{
		tileURL:      DefaultTileURL,
		queryStyle:   style.QueryStyle(h, p),
		geojsonStyle: style.GeoJSONStyle(p),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) GeoJSONLayer(geojson json.RawMessage) (ports.Layer, error) {
	l, err := NewGeoJSON(geojson, f.geojsonStyle)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (f *Factory) QueryLayer(query string) (ports.Layer, error) {
	return NewQuery(query, f.tileURL, f.queryStyle), nil
}
