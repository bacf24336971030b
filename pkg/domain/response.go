package domain

import (
	"bytes"
	"encoding/json"
)

// Stack is the root of a response tree.
type Stack struct {
	Substacks []*Substack `json:"substacks,omitempty"`
}

// Substack is an ordered group of lines. Collapsable substacks toggle open on click.
type Substack struct {
	Lines       []*Line `json:"lines,omitempty"`
	Collapsable bool    `json:"collapsable,omitempty"`
}

// ResponseProto is the typed part of a response.
type ResponseProto struct {
	Stack       *Stack      `json:"stack,omitempty"`
	Node        Expression  `json:"node,omitempty"`
	Highlighted *FeatureIDs `json:"highlighted,omitempty"`
	QueryLayers []string    `json:"queryLayers,omitempty"`
	MapCenter   *LatLng     `json:"mapCenter,omitempty"`
}

// Response is one evaluation result as delivered to the client.
type Response struct {
	Proto   *ResponseProto  `json:"proto,omitempty"`
	GeoJSON json.RawMessage `json:"geojson,omitempty"`
}

// Substacks returns the substacks of the tree, or nil when any level is missing.
func (r *Response) Substacks() []*Substack {
	if r == nil || r.Proto == nil || r.Proto.Stack == nil {
		return nil
	}
	return r.Proto.Stack.Substacks
}

// Highlights returns the distinct highlight keys the response declares, in order of
// first appearance.
func (r *Response) Highlights() []HighlightKey {
	if r == nil || r.Proto == nil {
		return nil
	}
	keys := r.Proto.Highlighted.Keys()
	seen := make(map[HighlightKey]struct{}, len(keys))
	out := keys[:0:0]
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Queries returns the query layers the response declares.
func (r *Response) Queries() []string {
	if r == nil || r.Proto == nil {
		return nil
	}
	return r.Proto.QueryLayers
}

// ExpressionContext returns the node the response was evaluated from. Expressions
// typed into the response's shell are applied to it.
func (r *Response) ExpressionContext() Expression {
	if r == nil || r.Proto == nil {
		return nil
	}
	return r.Proto.Node
}

// MapCenter returns the coordinate the map should move to, if any.
func (r *Response) MapCenter() *LatLng {
	if r == nil || r.Proto == nil || r.Proto.MapCenter.IsZero() {
		return nil
	}
	return r.Proto.MapCenter
}

// HasGeoJSON reports whether the response embeds geographic data.
func (r *Response) HasGeoJSON() bool {
	if r == nil {
		return false
	}
	trimmed := bytes.TrimSpace(r.GeoJSON)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// NewResponse builds a response from substacks.
func NewResponse(substacks ...*Substack) *Response {
	return &Response{Proto: &ResponseProto{Stack: &Stack{Substacks: substacks}}}
}

// NewSubstack builds a substack from line variants.
func NewSubstack(lines ...LineVariant) *Substack {
	s := &Substack{Lines: make([]*Line, len(lines))}
	for i, l := range lines {
		s.Lines[i] = LineOf(l)
	}
	return s
}

// ErrorResponse is rendered in place of a result when evaluation fails.
func ErrorResponse(err error) *Response {
	return NewResponse(NewSubstack(&ErrorLine{Error: err.Error()}))
}

// StartupResponse is the initial payload of a session.
type StartupResponse struct {
	Version       string      `json:"version,omitempty"`
	Docked        []*Response `json:"docked,omitempty"`
	OpenDockIndex *int        `json:"openDockIndex,omitempty"`
	MapCenter     *LatLng     `json:"mapCenter,omitempty"`
	MapZoom       int         `json:"mapZoom,omitempty"`
	Root          *FeatureID  `json:"root,omitempty"`
	Expression    string      `json:"expression,omitempty"`
	Error         string      `json:"error,omitempty"`
	Session       uint64      `json:"session,omitempty"`
	Locked        bool        `json:"locked,omitempty"`
}
