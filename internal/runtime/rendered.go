package runtime

import (
	"context"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/layers"
	"github.com/aretw0/outliner/pkg/ports"
	"github.com/aretw0/outliner/pkg/render"
	"github.com/aretw0/outliner/pkg/view"
)

// ExportContentType is the content type of exported GeoJSON.
const ExportContentType = "application/json"

// RenderedResponse is one response bound to a target, together with the resources
// it owns: highlight claims, map layers and an export blob.
type RenderedResponse struct {
	ui       *UI
	target   string
	root     *view.Node
	response *domain.Response
	ticket   uint64

	highlights []domain.HighlightKey
	layers     []ports.Layer
	blobRef    string
	exportURL  string
	removed    bool
}

// newRenderedResponse claims the resources r declares. Malformed optional parts are
// logged and skipped.
func (u *UI) newRenderedResponse(ctx context.Context, t *target, r *domain.Response, ticket uint64) *RenderedResponse {
	rr := &RenderedResponse{ui: u, target: t.name, root: t.node, response: r, ticket: ticket}

	rr.highlights = r.Highlights()
	u.ledger.Add(rr.highlights...)

	if r.HasGeoJSON() {
		rr.attachGeoJSON(ctx)
	}
	for _, q := range r.Queries() {
		layer, err := u.layers.QueryLayer(q)
		if err != nil {
			u.logger.Warn("Failed to build query layer", "target", t.name, "query", q, "err", err)
			continue
		}
		u.mapw.AddLayer(layer)
		rr.layers = append(rr.layers, layer)
	}
	return rr
}

func (rr *RenderedResponse) attachGeoJSON(ctx context.Context) {
	u := rr.ui
	layer, err := u.layers.GeoJSONLayer(rr.response.GeoJSON)
	if err != nil {
		u.logger.Warn("Failed to build geojson layer", "target", rr.target, "err", err)
		return
	}
	u.mapw.AddLayer(layer)
	rr.layers = append(rr.layers, layer)

	if u.blobs == nil {
		return
	}
	data, err := layers.Pretty(rr.response.GeoJSON)
	if err != nil {
		u.logger.Warn("Failed to export geojson", "target", rr.target, "err", err)
		return
	}
	ref, err := u.blobs.Create(ctx, data, ExportContentType)
	if err != nil {
		u.logger.Warn("Failed to export geojson", "target", rr.target, "err", err)
		return
	}
	rr.blobRef = ref
	rr.exportURL = u.blobURL + ref
}

// Remove releases everything the response owns. It is safe to call more than once.
// It reports whether highlights were released.
func (rr *RenderedResponse) Remove(ctx context.Context) bool {
	if rr.removed {
		return false
	}
	rr.removed = true
	u := rr.ui

	for _, layer := range rr.layers {
		u.mapw.RemoveLayer(layer)
	}
	rr.layers = nil

	if err := u.ledger.Remove(rr.highlights...); err != nil {
		u.logger.Warn("Highlight ledger underflow", "target", rr.target, "err", err)
	}
	released := len(rr.highlights) > 0

	if rr.blobRef != "" {
		if err := u.blobs.Revoke(ctx, rr.blobRef); err != nil {
			u.logger.Warn("Failed to revoke export", "target", rr.target, "ref", rr.blobRef, "err", err)
		}
		rr.blobRef = ""
		rr.exportURL = ""
	}
	return released
}

// Removed reports whether Remove was called.
func (rr *RenderedResponse) Removed() bool { return rr.removed }

// Target names the container the response is bound to.
func (rr *RenderedResponse) Target() string { return rr.target }

// Response returns the bound response.
func (rr *RenderedResponse) Response() *domain.Response { return rr.response }

// Root returns the stack container.
func (rr *RenderedResponse) Root() *view.Node { return rr.root }

// Highlights returns the keys the response claims.
func (rr *RenderedResponse) Highlights() []domain.HighlightKey { return rr.highlights }

// Layers returns the attached layers.
func (rr *RenderedResponse) Layers() []ports.Layer { return rr.layers }

// ExportURL addresses the exported GeoJSON, or is empty.
func (rr *RenderedResponse) ExportURL() string { return rr.exportURL }

// BlobRef returns the export reference, or is empty.
func (rr *RenderedResponse) BlobRef() string { return rr.blobRef }

func (rr *RenderedResponse) redrawHighlights() {
	for _, layer := range rr.layers {
		layer.Changed()
	}
}

// pass is the render.Context of one reconciliation of a response.
type pass struct {
	ctx context.Context
	rr  *RenderedResponse
}

var _ render.Context = (*pass)(nil)

func (p *pass) Target() string                       { return p.rr.target }
func (p *pass) ExpressionContext() domain.Expression { return p.rr.response.ExpressionContext() }
func (p *pass) ExportURL() string                    { return p.rr.exportURL }

func (p *pass) Activate(expr domain.Expression) {
	p.rr.ui.Submit(p.rr.target, domain.EvaluationRequest{Node: expr, Root: p.rr.ui.root})
}

func (p *pass) Evaluate(expression string) {
	p.rr.ui.Submit(p.rr.target, domain.EvaluationRequest{
		Node:       p.ExpressionContext(),
		Expression: expression,
		Root:       p.rr.ui.root,
	})
}

func (p *pass) BeginDrag(_ *view.Node, pointer view.Point) {
	p.rr.ui.drag.Start(p.rr.root, pointer)
}

func (p *pass) Close() {
	if err := p.rr.ui.Remove(p.ctx, p.rr.target); err != nil {
		p.rr.ui.logger.Debug("close ignored", "target", p.rr.target, "err", err)
	}
}

func (p *pass) RenderAtoms(parent *view.Node, atoms ...*domain.Atom) error {
	return p.rr.ui.reconciler.Atoms(p.ctx, parent, atoms, p)
}
