// Package render maps protocol variants onto view nodes.
//
// A Renderer is stateless. Enter builds the persistent structure a variant needs
// inside a container and runs once per identity transition; Update writes the current
// data into that structure and runs on every render, so it must be idempotent.
package render

import (
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/view"
)

// Renderer draws one variant of a line or atom.
type Renderer interface {
	// StyleClass is the stable identity of the variant. A container entered by a
	// renderer with a different style class is rebuilt.
	StyleClass() string
	Enter(container *view.Node)
	Update(container *view.Node, item domain.Variant, rc Context) error
}

// Context is what renderers may use of the response being rendered.
type Context interface {
	// Target names the container the response is bound to.
	Target() string
	// ExpressionContext is the node expressions typed into the response apply to.
	ExpressionContext() domain.Expression
	// ExportURL addresses the response's exported GeoJSON, or is empty.
	ExportURL() string
	// Activate submits a click expression for evaluation against the target.
	Activate(expr domain.Expression)
	// Evaluate submits a typed expression in the response's expression context.
	Evaluate(expression string)
	// BeginDrag starts dragging the stack holding container.
	BeginDrag(container *view.Node, pointer view.Point)
	// Close removes the response from its target.
	Close()
	// RenderAtoms reconciles atoms into "atom" children of parent.
	RenderAtoms(parent *view.Node, atoms ...*domain.Atom) error
}

// Func adapts plain functions into a Renderer.
type Func struct {
	Class      string
	EnterFunc  func(container *view.Node)
	UpdateFunc func(container *view.Node, item domain.Variant, rc Context) error
}

func (f *Func) StyleClass() string { return f.Class }

func (f *Func) Enter(container *view.Node) {
	if f.EnterFunc != nil {
		f.EnterFunc(container)
	}
}

func (f *Func) Update(container *view.Node, item domain.Variant, rc Context) error {
	if f.UpdateFunc == nil {
		return nil
	}
	return f.UpdateFunc(container, item, rc)
}

// as checks that item is the variant a renderer was registered for.
func as[T domain.Variant](kind string, item domain.Variant) (T, error) {
	v, ok := item.(T)
	if !ok {
		var zero T
		tag := "<nil>"
		if item != nil {
			tag = item.Tag()
		}
		return zero, &domain.ProtocolError{Kind: kind, Tag: tag, Err: domain.ErrProtocolViolation}
	}
	return v, nil
}

func atomsOf(atoms ...*domain.Atom) []*domain.Atom {
	var out []*domain.Atom
	for _, a := range atoms {
		if a != nil {
			out = append(out, a)
		}
	}
	return out
}

// clickable makes n submit expr when clicked, or clears that behaviour when expr is
// absent.
func clickable(n *view.Node, expr domain.Expression, rc Context) {
	if expr.IsZero() {
		n.SetClassed("clickable", false)
		n.On(view.EventClick, nil)
		return
	}
	n.SetClassed("clickable", true)
	n.On(view.EventClick, func(e *view.Event) {
		e.PreventDefault()
		e.StopPropagation()
		rc.Activate(expr)
	})
}
