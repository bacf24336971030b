// Package runtime binds response trees to view containers and keeps the resources
// they own in step with what is rendered.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/outliner/internal/logging"
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/highlight"
	"github.com/aretw0/outliner/pkg/layers"
	"github.com/aretw0/outliner/pkg/ports"
	"github.com/aretw0/outliner/pkg/render"
	"github.com/aretw0/outliner/pkg/style"
	"github.com/aretw0/outliner/pkg/view"
)

// Featured is the target evaluations without an owning response render into.
const Featured = "featured"

// StackOrigin is where the featured stack is placed.
var StackOrigin = view.Point{X: 10, Y: 100}

// target is a named stack container and the response bound to it.
type target struct {
	name     string
	node     *view.Node
	rendered *RenderedResponse
	// bound is the ticket of the bound response, or of the target's creation.
	bound uint64
}

// UI owns the view document, the highlight ledger and every rendering target. All
// methods must be called from one goroutine; evaluations run elsewhere and re-enter
// through Run or Await.
type UI struct {
	doc        *view.Document
	registry   *render.Registry
	reconciler *Reconciler
	ledger     *highlight.Ledger
	mapw       ports.Map
	layers     ports.LayerFactory
	blobs      ports.BlobStore
	evaluator  ports.Evaluator
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	blobURL    string
	root       *domain.FeatureID

	targets map[string]*target
	order   []string
	dock    *view.Node
	drag    *DragController
	stacks  int

	tickets  uint64
	results  chan result
	lifetime context.Context
	stop     context.CancelFunc
}

// Option configures the UI.
type Option func(*UI)

// WithMap sets the map widget layers are attached to.
func WithMap(m ports.Map) Option {
	return func(u *UI) {
		u.mapw = m
	}
}

// WithLayerFactory sets how declared layers are built.
func WithLayerFactory(f ports.LayerFactory) Option {
	return func(u *UI) {
		u.layers = f
	}
}

// WithBlobStore enables GeoJSON export. URLs handed to renderers are prefix + ref.
func WithBlobStore(s ports.BlobStore, prefix string) Option {
	return func(u *UI) {
		u.blobs = s
		u.blobURL = prefix
	}
}

// WithLedger injects the highlight ledger.
func WithLedger(l *highlight.Ledger) Option {
	return func(u *UI) {
		u.ledger = l
	}
}

// WithRegistry replaces the default renderers.
func WithRegistry(r *render.Registry) Option {
	return func(u *UI) {
		u.registry = r
	}
}

// WithLogger configures a logger for the UI.
func WithLogger(logger *slog.Logger) Option {
	return func(u *UI) {
		u.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(u *UI) {
		u.hooks = hooks
	}
}

// WithRoot sets the root feature sent along with every evaluation.
func WithRoot(root *domain.FeatureID) Option {
	return func(u *UI) {
		u.root = root
	}
}

// New creates a UI evaluating expressions with evaluator.
func New(evaluator ports.Evaluator, opts ...Option) *UI {
	u := &UI{
		doc:       view.NewDocument(),
		evaluator: evaluator,
		logger:    logging.NewNop(),
		targets:   make(map[string]*target),
		results:   make(chan result),
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.registry == nil {
		u.registry = render.Default()
	}
	if u.ledger == nil {
		u.ledger = highlight.NewLedger()
	}
	if u.mapw == nil {
		u.mapw = nopMap{}
	}
	if u.layers == nil {
		u.layers = layers.NewFactory(u.ledger, style.Default())
	}
	u.reconciler = NewReconciler(u.registry, u.logger, u.hooks)
	u.lifetime, u.stop = context.WithCancel(context.Background())

	body := u.doc.Root()
	u.dock = body.Append("div").SetClass("dock")
	u.drag = NewDragController(u.logger, u.detachFeatured)
	body.On(view.EventPointerMove, func(e *view.Event) {
		if u.drag.Move(e.Pointer) {
			e.PreventDefault()
		}
	})
	body.On(view.EventPointerUp, func(e *view.Event) {
		if u.drag.End() {
			e.PreventDefault()
		}
	})
	return u
}

// Close abandons pending evaluations. Responses remain bound.
func (u *UI) Close() {
	u.stop()
}

// Document returns the view document.
func (u *UI) Document() *view.Document { return u.doc }

// Ledger returns the highlight ledger.
func (u *UI) Ledger() *highlight.Ledger { return u.ledger }

// Drag returns the drag controller.
func (u *UI) Drag() *DragController { return u.drag }

// Bind renders r into the named target, creating a free floating stack when the
// target does not exist. Protocol errors in individual items are returned joined;
// everything else was still rendered.
func (u *UI) Bind(ctx context.Context, name string, r *domain.Response) (*RenderedResponse, error) {
	t, ok := u.targets[name]
	if !ok {
		t = u.newTarget(name, u.doc.Root().Append("div").SetClass("stack"))
	}
	u.tickets++
	return u.bind(ctx, t, r, u.tickets)
}

// Stack returns the container of a target.
func (u *UI) Stack(name string) (*view.Node, bool) {
	t, ok := u.targets[name]
	if !ok {
		return nil, false
	}
	return t.node, true
}

// Rendered returns the response bound to a target.
func (u *UI) Rendered(name string) (*RenderedResponse, bool) {
	t, ok := u.targets[name]
	if !ok || t.rendered == nil {
		return nil, false
	}
	return t.rendered, true
}

func (u *UI) newTarget(name string, node *view.Node) *target {
	t := &target{name: name, node: node, bound: u.tickets}
	u.targets[name] = t
	u.order = append(u.order, name)
	return t
}

func (u *UI) bind(ctx context.Context, t *target, r *domain.Response, ticket uint64) (*RenderedResponse, error) {
	if r == nil {
		r = &domain.Response{}
	}
	changed := false
	if t.rendered != nil {
		ev := u.bindEvent(domain.EventRemove, t.rendered)
		changed = t.rendered.Remove(ctx)
		if u.hooks.OnRemove != nil {
			u.hooks.OnRemove(ctx, ev)
		}
		t.rendered = nil
	}

	rr := u.newRenderedResponse(ctx, t, r, ticket)
	changed = changed || len(rr.highlights) > 0
	t.rendered = rr
	t.bound = ticket

	err := u.reconciler.Stack(ctx, t.node, r.Substacks(), &pass{ctx: ctx, rr: rr})

	if changed {
		u.redrawHighlights(ctx)
	}
	u.logger.Debug("bound response", "target", t.name, "highlights", len(rr.highlights), "layers", len(rr.layers))
	if u.hooks.OnBind != nil {
		u.hooks.OnBind(ctx, u.bindEvent(domain.EventBind, rr))
	}
	if err != nil {
		return rr, fmt.Errorf("rendering %s: %w", t.name, err)
	}
	return rr, nil
}

func (u *UI) bindEvent(t domain.EventType, rr *RenderedResponse) *domain.BindEvent {
	return &domain.BindEvent{
		EventBase:  domain.NewEventBase(t, rr.target),
		Highlights: len(rr.highlights),
		Layers:     len(rr.layers),
		Export:     rr.blobRef != "",
	}
}

// Remove tears down the named target: its response releases its resources and the
// container leaves the document.
func (u *UI) Remove(ctx context.Context, name string) error {
	t, ok := u.targets[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTargetNotFound, name)
	}
	if t.rendered != nil {
		ev := u.bindEvent(domain.EventRemove, t.rendered)
		released := t.rendered.Remove(ctx)
		t.rendered = nil
		if released {
			u.redrawHighlights(ctx)
		}
		if u.hooks.OnRemove != nil {
			u.hooks.OnRemove(ctx, ev)
		}
	}
	if u.drag.Dragging(t.node) {
		u.drag.End()
	}
	t.node.Remove()
	delete(u.targets, name)
	for i, n := range u.order {
		if n == name {
			u.order = append(u.order[:i], u.order[i+1:]...)
			break
		}
	}
	return nil
}

// Live returns the bound responses in target creation order.
func (u *UI) Live() []*RenderedResponse {
	var live []*RenderedResponse
	for _, name := range u.order {
		if t := u.targets[name]; t.rendered != nil {
			live = append(live, t.rendered)
		}
	}
	return live
}

// Targets returns the target names in creation order.
func (u *UI) Targets() []string {
	return append([]string(nil), u.order...)
}

func (u *UI) redrawHighlights(ctx context.Context) {
	layerCount := 0
	for _, rr := range u.Live() {
		rr.redrawHighlights()
		layerCount += len(rr.layers)
	}
	u.mapw.HighlightChanged()
	if u.hooks.OnRedraw != nil {
		u.hooks.OnRedraw(ctx, &domain.RedrawEvent{
			EventBase:   domain.NewEventBase(domain.EventRedraw, ""),
			Highlighted: u.ledger.Len(),
			Layers:      layerCount,
		})
	}
}

// featured returns the featured target, creating its container when needed.
func (u *UI) featured() *target {
	if t, ok := u.targets[Featured]; ok {
		return t
	}
	node := u.doc.Root().Append("div").SetClass("stack stack-featured").SetPosition(StackOrigin)
	return u.newTarget(Featured, node)
}

// RenderFeatured renders r into the featured stack and pans the map to its center.
func (u *UI) RenderFeatured(ctx context.Context, r *domain.Response) (*RenderedResponse, error) {
	u.tickets++
	return u.renderFeatured(ctx, r, u.tickets)
}

func (u *UI) renderFeatured(ctx context.Context, r *domain.Response, ticket uint64) (*RenderedResponse, error) {
	t := u.featured()
	t.node.SetPosition(StackOrigin)
	rr, err := u.bind(ctx, t, r, ticket)
	if center := r.MapCenter(); center != nil {
		u.mapw.Animate(*center)
	}
	return rr, err
}

// detachFeatured turns the featured stack into a regular one, so the next featured
// response gets a fresh container.
func (u *UI) detachFeatured(node *view.Node) {
	t, ok := u.targets[Featured]
	if !ok || t.node != node {
		return
	}
	node.SetClassed("stack-featured", false)
	u.stacks++
	name := fmt.Sprintf("stack-%d", u.stacks)
	delete(u.targets, Featured)
	for i, n := range u.order {
		if n == Featured {
			u.order[i] = name
		}
	}
	t.name = name
	u.targets[name] = t
	if t.rendered != nil {
		t.rendered.target = name
	}
	u.logger.Debug("featured stack detached", "target", name)
}

// DockTarget names the i-th docked stack.
func DockTarget(i int) string {
	return fmt.Sprintf("dock-%d", i)
}

// RenderDock renders responses as docked stacks. Docked stacks start closed;
// clicking one opens it and closes the others.
func (u *UI) RenderDock(ctx context.Context, responses []*domain.Response) error {
	for i := len(responses); ; i++ {
		if _, ok := u.targets[DockTarget(i)]; !ok {
			break
		}
		if err := u.Remove(ctx, DockTarget(i)); err != nil {
			return err
		}
	}

	var errs []error
	for i, r := range responses {
		name := DockTarget(i)
		t, ok := u.targets[name]
		if !ok {
			t = u.newTarget(name, u.dock.Append("div"))
		}
		node := t.node
		node.SetClass("stack closed")
		node.On(view.EventClick, func(e *view.Event) {
			e.PreventDefault()
			u.openDocked(node)
		})
		u.tickets++
		if _, err := u.bind(ctx, t, r, u.tickets); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenDock opens the i-th docked stack and closes the others.
func (u *UI) OpenDock(i int) error {
	t, ok := u.targets[DockTarget(i)]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTargetNotFound, DockTarget(i))
	}
	u.openDocked(t.node)
	return nil
}

func (u *UI) openDocked(node *view.Node) {
	for _, s := range u.dock.Children() {
		s.SetClassed("closed", true)
	}
	node.SetClassed("closed", false)
}

// SetRoot changes the root feature sent along with later evaluations.
func (u *UI) SetRoot(root *domain.FeatureID) {
	u.root = root
}

// Map returns the map widget.
func (u *UI) Map() ports.Map { return u.mapw }

// nopMap is used when no map widget is attached.
type nopMap struct{}

func (nopMap) AddLayer(ports.Layer)    {}
func (nopMap) RemoveLayer(ports.Layer) {}
func (nopMap) Animate(domain.LatLng)   {}
func (nopMap) HighlightChanged()       {}
