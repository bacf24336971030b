package layers

import (
	"net/url"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/aretw0/outliner/pkg/style"
)

// DefaultTileURL is the tile endpoint query layers read from.
const DefaultTileURL = "/tiles/query/{z}/{x}/{y}.mvt"

// QueryMinZoom is the lowest zoom at which query tiles are requested.
const QueryMinZoom = 14

// Query is a tile layer showing the features matching a query.
type Query struct {
	id      string
	query   string
	url     string
	style   style.Func
	changes atomic.Int64
}

// NewQuery creates a query layer reading tiles from base.
func NewQuery(query, base string, fn style.Func) *Query {
	params := url.Values{"q": {query}}
	return &Query{
		id:    "query-" + uuid.NewString(),
		query: query,
		url:   base + "?" + params.Encode(),
		style: fn,
	}
}

func (l *Query) ID() string        { return l.id }
func (l *Query) Style() style.Func { return l.style }
func (l *Query) Changed()          { l.changes.Add(1) }

// Changes returns how many times the layer was asked to redraw.
func (l *Query) Changes() int64 { return l.changes.Load() }

// Query returns the query the layer shows.
func (l *Query) Query() string { return l.query }

// URL returns the tile URL template.
func (l *Query) URL() string { return l.url }
