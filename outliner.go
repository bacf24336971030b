package outliner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/outliner/internal/logging"
	"github.com/aretw0/outliner/internal/runtime"
	httpAdapter "github.com/aretw0/outliner/pkg/adapters/http"
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/highlight"
	"github.com/aretw0/outliner/pkg/layers"
	"github.com/aretw0/outliner/pkg/ports"
	"github.com/aretw0/outliner/pkg/render"
	"github.com/aretw0/outliner/pkg/style"
	"github.com/aretw0/outliner/pkg/view"
)

// StartupSource is implemented by evaluators that can also serve the initial
// session payload, such as the HTTP client.
type StartupSource interface {
	Startup(ctx context.Context) (*domain.StartupResponse, error)
}

// Outliner is the high-level entry point of the library.
// It wraps the runtime UI and its console behind a small API.
type Outliner struct {
	ui      *runtime.UI
	console *runtime.Console

	evaluator    ports.Evaluator
	evaluatorURL string
	mapw         ports.Map
	blobs        ports.BlobStore
	blobPrefix   string
	history      ports.HistoryStore
	styles       *style.Provider
	tileURL      string
	registry     *render.Registry
	ledger       *highlight.Ledger
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	root         *domain.FeatureID
}

// Option defines a functional option for configuring the Outliner.
type Option func(*Outliner)

// WithEvaluator sets the evaluator expressions are sent to.
func WithEvaluator(e ports.Evaluator) Option {
	return func(o *Outliner) {
		o.evaluator = e
	}
}

// WithEvaluatorURL evaluates expressions against a remote server.
func WithEvaluatorURL(base string) Option {
	return func(o *Outliner) {
		o.evaluatorURL = base
	}
}

// WithMap attaches the map widget.
func WithMap(m ports.Map) Option {
	return func(o *Outliner) {
		o.mapw = m
	}
}

// WithBlobStore enables GeoJSON export; download links are prefix + ref.
func WithBlobStore(s ports.BlobStore, prefix string) Option {
	return func(o *Outliner) {
		o.blobs = s
		o.blobPrefix = prefix
	}
}

// WithHistoryStore persists the console history.
func WithHistoryStore(s ports.HistoryStore) Option {
	return func(o *Outliner) {
		o.history = s
	}
}

// WithStyles replaces the default style table.
func WithStyles(p *style.Provider) Option {
	return func(o *Outliner) {
		o.styles = p
	}
}

// WithTileURL sets the URL template of query tile layers.
func WithTileURL(u string) Option {
	return func(o *Outliner) {
		o.tileURL = u
	}
}

// WithRegistry replaces the default renderers.
func WithRegistry(r *render.Registry) Option {
	return func(o *Outliner) {
		o.registry = r
	}
}

// WithLedger shares a highlight ledger, e.g. with an HTTP server.
func WithLedger(l *highlight.Ledger) Option {
	return func(o *Outliner) {
		o.ledger = l
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Outliner) {
		o.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Outliner) {
		o.logger = logger
	}
}

// WithRoot sets the root feature sent along with every evaluation.
func WithRoot(root *domain.FeatureID) Option {
	return func(o *Outliner) {
		o.root = root
	}
}

// New initializes an Outliner. An evaluator is required. The console history is
// loaded from the history store, when one is given.
func New(ctx context.Context, opts ...Option) (*Outliner, error) {
	o := &Outliner{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.evaluator == nil && o.evaluatorURL != "" {
		o.evaluator = httpAdapter.NewClient(o.evaluatorURL, httpAdapter.WithClientLogger(o.logger))
	}
	if o.evaluator == nil {
		return nil, fmt.Errorf("an evaluator is required (use WithEvaluator or WithEvaluatorURL)")
	}
	if o.ledger == nil {
		o.ledger = highlight.NewLedger()
	}
	if o.styles == nil {
		o.styles = style.Default()
	}

	var factoryOpts []layers.Option
	if o.tileURL != "" {
		factoryOpts = append(factoryOpts, layers.WithTileURL(o.tileURL))
	}
	uiOpts := []runtime.Option{
		runtime.WithLogger(o.logger),
		runtime.WithLifecycleHooks(o.hooks),
		runtime.WithLedger(o.ledger),
		runtime.WithLayerFactory(layers.NewFactory(o.ledger, o.styles, factoryOpts...)),
		runtime.WithRoot(o.root),
	}
	if o.mapw != nil {
		uiOpts = append(uiOpts, runtime.WithMap(o.mapw))
	}
	if o.blobs != nil {
		uiOpts = append(uiOpts, runtime.WithBlobStore(o.blobs, o.blobPrefix))
	}
	if o.registry != nil {
		uiOpts = append(uiOpts, runtime.WithRegistry(o.registry))
	}
	o.ui = runtime.New(o.evaluator, uiOpts...)

	console, err := runtime.NewConsole(ctx, o.ui, o.history)
	if err != nil {
		o.ui.Close()
		return nil, err
	}
	o.console = console
	return o, nil
}

// Start applies the initial session payload: the dock, the map position, the root
// feature and the first featured response. An error carried by the payload is shown
// in the featured stack instead of the startup expression.
func (o *Outliner) Start(ctx context.Context, s *domain.StartupResponse) error {
	if s == nil {
		return nil
	}
	if s.Root != nil {
		o.ui.SetRoot(s.Root)
	}

	var errs []error
	if len(s.Docked) > 0 {
		if err := o.ui.RenderDock(ctx, s.Docked); err != nil {
			errs = append(errs, fmt.Errorf("failed to render dock: %w", err))
		}
	}
	if s.OpenDockIndex != nil {
		if err := o.ui.OpenDock(*s.OpenDockIndex); err != nil {
			errs = append(errs, err)
		}
	}
	if !s.MapCenter.IsZero() {
		o.ui.Map().Animate(*s.MapCenter)
	}

	switch {
	case s.Error != "":
		if _, err := o.ui.RenderFeatured(ctx, domain.ErrorResponse(errors.New(s.Error))); err != nil {
			errs = append(errs, err)
		}
	case s.Expression != "":
		o.ui.Evaluate(s.Expression)
	}
	return errors.Join(errs...)
}

// Boot fetches the startup payload from the evaluator and applies it. Evaluators
// that cannot serve one leave the UI empty and return a nil payload.
func (o *Outliner) Boot(ctx context.Context) (*domain.StartupResponse, error) {
	src, ok := o.evaluator.(StartupSource)
	if !ok {
		o.logger.Debug("evaluator has no startup payload")
		return nil, nil
	}
	s, err := src.Startup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch startup: %w", err)
	}
	return s, o.Start(ctx, s)
}

// Render binds r to the named target, creating a floating stack when needed.
func (o *Outliner) Render(ctx context.Context, target string, r *domain.Response) (*runtime.RenderedResponse, error) {
	return o.ui.Bind(ctx, target, r)
}

// Featured renders r into the featured stack.
func (o *Outliner) Featured(ctx context.Context, r *domain.Response) (*runtime.RenderedResponse, error) {
	return o.ui.RenderFeatured(ctx, r)
}

// Dock renders responses as docked stacks.
func (o *Outliner) Dock(ctx context.Context, responses ...*domain.Response) error {
	return o.ui.RenderDock(ctx, responses)
}

// Remove unbinds the named target and releases what its response owns.
func (o *Outliner) Remove(ctx context.Context, target string) error {
	return o.ui.Remove(ctx, target)
}

// Evaluate submits an expression into the featured stack. The result is applied by
// Run or Await.
func (o *Outliner) Evaluate(expression string) uint64 {
	return o.ui.Evaluate(expression)
}

// Await applies the next finished evaluation.
func (o *Outliner) Await(ctx context.Context) (*runtime.RenderedResponse, error) {
	return o.ui.Await(ctx)
}

// Run applies evaluation results until ctx is done or the Outliner is closed.
func (o *Outliner) Run(ctx context.Context) error {
	return o.ui.Run(ctx)
}

// Close abandons pending evaluations.
func (o *Outliner) Close() {
	o.ui.Close()
}

// Console returns the global shell.
func (o *Outliner) Console() *runtime.Console { return o.console }

// UI returns the underlying runtime.
func (o *Outliner) UI() *runtime.UI { return o.ui }

// Document returns the view document.
func (o *Outliner) Document() *view.Document { return o.ui.Document() }

// Ledger returns the highlight ledger.
func (o *Outliner) Ledger() *highlight.Ledger { return o.ledger }

// Evaluator returns the evaluator expressions are sent to.
func (o *Outliner) Evaluator() ports.Evaluator { return o.evaluator }

// Dump writes an outline of the whole view document.
func (o *Outliner) Dump(w io.Writer, opts ...view.DumpOption) error {
	return view.Dump(w, o.ui.Document().Root(), opts...)
}
