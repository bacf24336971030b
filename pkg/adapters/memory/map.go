package memory

import (
	"slices"
	"sync"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/ports"
)

// Map implements ports.Map by recording what is attached to it.
type Map struct {
	mu               sync.Mutex
	layers           []ports.Layer
	center           *domain.LatLng
	highlightRedraws int
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{}
}

func (m *Map) AddLayer(layer ports.Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers = append(m.layers, layer)
}

func (m *Map) RemoveLayer(layer ports.Layer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layers = slices.DeleteFunc(m.layers, func(l ports.Layer) bool { return l.ID() == layer.ID() })
}

func (m *Map) Animate(center domain.LatLng) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.center = &center
}

func (m *Map) HighlightChanged() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.highlightRedraws++
}

// Layers returns the attached layers in attachment order.
func (m *Map) Layers() []ports.Layer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.layers)
}

// Center returns where the map was last moved to, or nil.
func (m *Map) Center() *domain.LatLng {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.center
}

// HighlightRedraws returns how many times basemap highlights were redrawn.
func (m *Map) HighlightRedraws() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.highlightRedraws
}
