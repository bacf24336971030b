package view

// EventType names an input event.
type EventType string

const (
	EventClick       EventType = "click"
	EventPointerDown EventType = "pointerdown"
	EventPointerMove EventType = "pointermove"
	EventPointerUp   EventType = "pointerup"
	EventKeyDown     EventType = "keydown"
	EventKeyUp       EventType = "keyup"
	EventSubmit      EventType = "submit"
	EventFocusIn     EventType = "focusin"
	EventFocusOut    EventType = "focusout"
)

// Event is an input event travelling from a node up to the root.
type Event struct {
	Type    EventType
	Pointer Point
	Key     string
	Shift   bool

	target           *Node
	defaultPrevented bool
	stopped          bool
}

// Target returns the node the event was dispatched on.
func (e *Event) Target() *Node { return e.target }

// PreventDefault marks the event as handled so the host skips its default action
// (navigation, form submission, focus change).
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation keeps the event from reaching ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Handler reacts to an event.
type Handler func(*Event)

// On installs the handler for the event type, replacing any previous one. A nil
// handler removes it.
func (n *Node) On(t EventType, h Handler) *Node {
	if h == nil {
		delete(n.handlers, t)
		return n
	}
	if n.handlers == nil {
		n.handlers = make(map[EventType]Handler)
	}
	n.handlers[t] = h
	return n
}

// HasHandler reports whether a handler is installed for the event type.
func (n *Node) HasHandler(t EventType) bool {
	_, ok := n.handlers[t]
	return ok
}

// Dispatch delivers the event to n and then to each ancestor until a handler stops
// propagation. It returns the event for inspection.
func (n *Node) Dispatch(e *Event) *Event {
	e.target = n
	for c := n; c != nil && !e.stopped; c = c.parent {
		if h, ok := c.handlers[e.Type]; ok {
			h(e)
		}
	}
	return e
}
