package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventBind       EventType = "bind"
	EventRemove     EventType = "remove"
	EventStale      EventType = "stale"
	EventEnter      EventType = "enter"
	EventRenderFail EventType = "render_fail"
	EventRedraw     EventType = "redraw"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Target    string    `json:"target"`
}

// BindEvent describes a response being bound to, or removed from, a target.
type BindEvent struct {
	EventBase
	Highlights int  `json:"highlights"`
	Layers     int  `json:"layers"`
	Export     bool `json:"export,omitempty"`
}

// RenderEvent describes a renderer entering a container, or failing to render one.
type RenderEvent struct {
	EventBase
	Kind       string `json:"kind"`
	StyleClass string `json:"style_class,omitempty"`
	Err        error  `json:"-"`
}

// RedrawEvent describes one batched highlight redraw.
type RedrawEvent struct {
	EventBase
	Highlighted int `json:"highlighted"`
	Layers      int `json:"layers"`
}

// LifecycleHooks defines callbacks for observability of the rendering lifecycle.
// Any hook may be nil.
type LifecycleHooks struct {
	OnBind       func(context.Context, *BindEvent)
	OnRemove     func(context.Context, *BindEvent)
	OnStale      func(context.Context, *BindEvent)
	OnEnter      func(context.Context, *RenderEvent)
	OnRenderFail func(context.Context, *RenderEvent)
	OnRedraw     func(context.Context, *RedrawEvent)
}

// NewEventBase stamps an event.
func NewEventBase(t EventType, target string) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t, Target: target}
}
