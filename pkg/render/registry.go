package render

import (
	"sync"

	"github.com/aretw0/outliner/pkg/domain"
)

// Registry maps (kind, variant tag) to renderers.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]map[string]Renderer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		renderers: make(map[string]map[string]Renderer),
	}
}

// Register adds a renderer. An existing renderer for the same kind and tag is
// replaced.
func (r *Registry) Register(kind, tag string, renderer Renderer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	byTag, ok := r.renderers[kind]
	if !ok {
		byTag = make(map[string]Renderer)
		r.renderers[kind] = byTag
	}
	byTag[tag] = renderer
}

// Get returns the renderer for a kind and tag.
func (r *Registry) Get(kind, tag string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[kind][tag]
	return renderer, ok
}

// Lookup is Get with a diagnosable error for a missing renderer, which means client
// and server disagree on the protocol.
func (r *Registry) Lookup(kind, tag string) (Renderer, error) {
	renderer, ok := r.Get(kind, tag)
	if !ok {
		return nil, &domain.ProtocolError{Kind: kind, Tag: tag, Err: domain.ErrNoRenderer}
	}
	return renderer, nil
}

// Default returns a registry holding renderers for every line and atom variant.
func Default() *Registry {
	r := NewRegistry()

	r.Register(domain.KindAtom, domain.AtomValue, valueAtom{})
	r.Register(domain.KindAtom, domain.AtomLabelledIcon, labelledIconAtom{})
	r.Register(domain.KindAtom, domain.AtomDownload, downloadAtom{})

	r.Register(domain.KindLine, domain.LineValue, valueLine{})
	r.Register(domain.KindLine, domain.LineValuePair, valuePairLine{})
	r.Register(domain.KindLine, domain.LineExpression, expressionLine{})
	r.Register(domain.KindLine, domain.LineTags, tagsLine{})
	r.Register(domain.KindLine, domain.LineHistogramBar, histogramBarLine{})
	r.Register(domain.KindLine, domain.LineShell, shellLine{})
	r.Register(domain.KindLine, domain.LineQuestion, questionLine{})
	r.Register(domain.KindLine, domain.LineError, errorLine{})
	r.Register(domain.KindLine, domain.LineHeader, headerLine{})
	r.Register(domain.KindLine, domain.LineChoice, choiceLine{})

	return r
}
