// Package validator checks responses against the protocol before they are
// rendered, reporting every problem rather than the first.
package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/render"
)

type collector struct {
	registry *render.Registry
	errors   []string
}

func (c *collector) addf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *collector) err() error {
	if len(c.errors) == 0 {
		return nil
	}
	return fmt.Errorf("found %d errors:\n- %s", len(c.errors), strings.Join(c.errors, "\n- "))
}

// ValidateResponse reports malformed unions, variants without a renderer in
// registry, and embedded GeoJSON that is not valid JSON.
// A nil registry means the default renderers.
func ValidateResponse(r *domain.Response, registry *render.Registry) error {
	c := &collector{registry: registry}
	if c.registry == nil {
		c.registry = render.Default()
	}
	c.response("response", r)
	return c.err()
}

// ValidateStartup validates every docked response and the open dock index.
func ValidateStartup(s *domain.StartupResponse, registry *render.Registry) error {
	c := &collector{registry: registry}
	if c.registry == nil {
		c.registry = render.Default()
	}
	for i, r := range s.Docked {
		c.response(fmt.Sprintf("docked %d", i), r)
	}
	if s.OpenDockIndex != nil && (*s.OpenDockIndex < 0 || *s.OpenDockIndex >= len(s.Docked)) {
		c.addf("openDockIndex %d is outside the %d docked responses", *s.OpenDockIndex, len(s.Docked))
	}
	if s.Root != nil {
		if _, err := domain.ParseHighlightKey(string(s.Root.Key())); err != nil {
			c.addf("root: %v", err)
		}
	}
	return c.err()
}

func (c *collector) response(path string, r *domain.Response) {
	if r == nil {
		c.addf("%s: missing", path)
		return
	}
	if r.HasGeoJSON() && !json.Valid(r.GeoJSON) {
		c.addf("%s: geojson is not valid JSON", path)
	}
	for i, sub := range r.Substacks() {
		if sub == nil {
			c.addf("%s substack %d: missing", path, i)
			continue
		}
		for j, line := range sub.Lines {
			c.line(fmt.Sprintf("%s substack %d line %d", path, i, j), line)
		}
	}
}

func (c *collector) line(path string, line *domain.Line) {
	v, err := line.Variant()
	if err != nil {
		c.addf("%s: %v", path, err)
		return
	}
	if _, err := c.registry.Lookup(domain.KindLine, v.Tag()); err != nil {
		c.addf("%s: %v", path, err)
	}
	for i, a := range atomsOf(v) {
		c.atom(fmt.Sprintf("%s atom %d", path, i), a)
	}
	if h, ok := v.(*domain.HistogramBarLine); ok && (h.Value < 0 || h.Value > h.Total) {
		c.addf("%s: histogram value %d is outside 0..%d", path, h.Value, h.Total)
	}
	if ch, ok := v.(*domain.ChoiceLine); ok && len(ch.Chips) > 0 && (ch.Selected < 0 || ch.Selected >= len(ch.Chips)) {
		c.addf("%s: selected chip %d of %d", path, ch.Selected, len(ch.Chips))
	}
}

func (c *collector) atom(path string, a *domain.Atom) {
	v, err := a.Variant()
	if err != nil {
		c.addf("%s: %v", path, err)
		return
	}
	if _, err := c.registry.Lookup(domain.KindAtom, v.Tag()); err != nil {
		c.addf("%s: %v", path, err)
	}
}

// atomsOf lists the atoms present in a line. Absent optional atoms are skipped.
func atomsOf(v domain.LineVariant) []*domain.Atom {
	var atoms []*domain.Atom
	add := func(as ...*domain.Atom) {
		for _, a := range as {
			if a != nil {
				atoms = append(atoms, a)
			}
		}
	}
	switch l := v.(type) {
	case *domain.ValueLine:
		add(l.Atom)
	case *domain.ValuePairLine:
		if l.First != nil {
			add(l.First.Atom)
		}
		if l.Second != nil {
			add(l.Second.Atom)
		}
	case *domain.HistogramBarLine:
		add(l.Range)
	case *domain.HeaderLine:
		add(l.Title)
	case *domain.ChoiceLine:
		add(l.Label)
		add(l.Chips...)
	}
	return atoms
}
