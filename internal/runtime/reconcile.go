package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/outliner/internal/logging"
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/render"
	"github.com/aretw0/outliner/pkg/view"
)

// Action is what reconciliation does to a container.
type Action int

const (
	// ActionUpdate writes new data into the existing structure.
	ActionUpdate Action = iota
	// ActionRebuild clears the container and enters it before updating.
	ActionRebuild
)

func (a Action) String() string {
	if a == ActionRebuild {
		return "rebuild"
	}
	return "update"
}

// Decide compares the identity recorded on a container with the style class of the
// renderer about to draw into it. A container no renderer has entered is rebuilt.
func Decide(recorded, styleClass string) Action {
	if recorded == "" || recorded != styleClass {
		return ActionRebuild
	}
	return ActionUpdate
}

// Reconciler matches protocol items to view containers.
type Reconciler struct {
	registry *render.Registry
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// NewReconciler creates a reconciler drawing with the registry.
func NewReconciler(registry *render.Registry, logger *slog.Logger, hooks domain.LifecycleHooks) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{registry: registry, logger: logger, hooks: hooks}
}

// Item draws one decoded variant into container, entering it first when its
// identity changed.
func (r *Reconciler) Item(ctx context.Context, container *view.Node, kind string, item domain.Variant, rc render.Context) error {
	renderer, err := r.registry.Lookup(kind, item.Tag())
	if err != nil {
		return err
	}
	sc := renderer.StyleClass()
	if Decide(container.Identity(), sc) == ActionRebuild {
		container.Reset()
		container.SetClass(kind + " " + sc)
		container.SetIdentity(sc)
		renderer.Enter(container)
		if r.hooks.OnEnter != nil {
			r.hooks.OnEnter(ctx, &domain.RenderEvent{
				EventBase:  domain.NewEventBase(domain.EventEnter, rc.Target()),
				Kind:       kind,
				StyleClass: sc,
			})
		}
	}
	return renderer.Update(container, item, rc)
}

// Stack draws the substacks of a response into root. Each substack is a div holding
// a scrollable div of lines; collapsable substacks toggle open when clicked.
func (r *Reconciler) Stack(ctx context.Context, root *view.Node, substacks []*domain.Substack, rc render.Context) error {
	containers := root.Join("substack", "div", len(substacks), func(n *view.Node) {
		n.Append("div").SetClass("scrollable")
	})

	var errs []error
	for i, s := range substacks {
		c := containers[i]
		if s == nil {
			s = &domain.Substack{}
		}
		c.SetClassed("collapsable", s.Collapsable)
		if s.Collapsable {
			c.On(view.EventClick, func(e *view.Event) {
				e.PreventDefault()
				c.SetClassed("collapsable-open", !c.Classed("collapsable-open"))
			})
		} else {
			c.SetClassed("collapsable-open", false)
			c.On(view.EventClick, nil)
		}
		errs = append(errs, r.Lines(ctx, c.Select("scrollable"), s.Lines, rc))
	}
	return errors.Join(errs...)
}

// Lines draws lines into "line" children of parent, matched by position.
func (r *Reconciler) Lines(ctx context.Context, parent *view.Node, lines []*domain.Line, rc render.Context) error {
	containers := parent.Join(domain.KindLine, "div", len(lines), nil)

	var errs []error
	for i, line := range lines {
		v, err := line.Variant()
		if err == nil {
			err = r.Item(ctx, containers[i], domain.KindLine, v, rc)
		}
		if err != nil {
			errs = append(errs, r.fail(ctx, containers[i], domain.KindLine, err, rc))
		}
	}
	return errors.Join(errs...)
}

// Atoms draws atoms into "atom" children of parent, matched by position.
func (r *Reconciler) Atoms(ctx context.Context, parent *view.Node, atoms []*domain.Atom, rc render.Context) error {
	containers := parent.Join(domain.KindAtom, "span", len(atoms), nil)

	var errs []error
	for i, atom := range atoms {
		v, err := atom.Variant()
		if err == nil {
			err = r.Item(ctx, containers[i], domain.KindAtom, v, rc)
		}
		if err != nil {
			errs = append(errs, r.fail(ctx, containers[i], domain.KindAtom, err, rc))
		}
	}
	return errors.Join(errs...)
}

// fail abandons a container whose item could not be drawn. It is left empty and
// flagged so the next render rebuilds it.
func (r *Reconciler) fail(ctx context.Context, container *view.Node, kind string, err error, rc render.Context) error {
	if tag := container.Identity(); tag != "" {
		var pe *domain.ProtocolError
		if !errors.As(err, &pe) {
			err = fmt.Errorf("failed to render %s %s: %w", kind, tag, err)
		}
	}

	container.Reset()
	container.SetClass(kind + " " + kind + "-invalid")

	r.logger.Error("Failed to render item", "kind", kind, "target", rc.Target(), "err", err)
	if r.hooks.OnRenderFail != nil {
		r.hooks.OnRenderFail(ctx, &domain.RenderEvent{
			EventBase: domain.NewEventBase(domain.EventRenderFail, rc.Target()),
			Kind:      kind,
			Err:       err,
		})
	}
	return err
}
