package runtime

import (
	"log/slog"

	"github.com/aretw0/outliner/internal/logging"
	"github.com/aretw0/outliner/pkg/view"
)

// DragState is the state of the drag controller.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	if s == DragDragging {
		return "dragging"
	}
	return "idle"
}

// DragSession is one press-move-release of a stack.
type DragSession struct {
	Container      *view.Node
	PointerStart   view.Point
	ContainerStart view.Point
}

// DragController moves stacks with the pointer. At most one session is live.
type DragController struct {
	session *DragSession
	logger  *slog.Logger
	// detach is called with a featured stack before it is dragged.
	detach func(*view.Node)
}

// NewDragController creates an idle controller. detach may be nil.
func NewDragController(logger *slog.Logger, detach func(*view.Node)) *DragController {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DragController{logger: logger, detach: detach}
}

// State returns the current state.
func (d *DragController) State() DragState {
	if d.session != nil {
		return DragDragging
	}
	return DragIdle
}

// Session returns the live session, or nil.
func (d *DragController) Session() *DragSession { return d.session }

// Dragging reports whether container is being dragged.
func (d *DragController) Dragging(container *view.Node) bool {
	return d.session != nil && d.session.Container == container
}

// Start begins dragging container. A featured stack is first turned into a regular
// one. A session already in progress is replaced.
func (d *DragController) Start(container *view.Node, pointer view.Point) {
	if d.session != nil {
		d.logger.Warn("Replacing active drag session", "from", d.session.Container.ID(), "to", container.ID())
		d.session.Container.SetClassed("dragging", false)
	}
	if container.Classed("stack-featured") {
		if d.detach != nil {
			d.detach(container)
		}
		container.SetClassed("stack-featured", false)
	}
	container.SetClassed("dragging", true)
	d.session = &DragSession{
		Container:      container,
		PointerStart:   pointer,
		ContainerStart: container.Position(),
	}
}

// Move translates the dragged container by the pointer's offset from where the drag
// started. It reports whether a session is live.
func (d *DragController) Move(pointer view.Point) bool {
	if d.session == nil {
		return false
	}
	s := d.session
	s.Container.SetPosition(s.ContainerStart.Add(pointer.Sub(s.PointerStart)))
	return true
}

// End finishes the session. It reports whether one was live.
func (d *DragController) End() bool {
	if d.session == nil {
		return false
	}
	d.session.Container.SetClassed("dragging", false)
	d.session = nil
	return true
}
