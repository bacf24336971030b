package shell

import (
	"slices"
	"strings"
)

// MaxSuggestions caps the number of suggestions shown at once.
const MaxSuggestions = 6

// Key names understood by Completer.Key.
const (
	KeyUp   = "ArrowUp"
	KeyDown = "ArrowDown"
	KeyTab  = "Tab"
)

// Suggestion is one rendered autocomplete entry.
type Suggestion struct {
	Text        string
	Highlighted bool
}

// Completer filters a sorted candidate list by the typed prefix and tracks which
// match is highlighted.
type Completer struct {
	candidates  []string
	filtered    []string
	highlighted int
}

// NewCompleter creates a completer over the candidates.
func NewCompleter(candidates ...string) *Completer {
	c := &Completer{}
	c.SetCandidates(candidates)
	return c
}

// SetCandidates replaces the candidate list. It is kept sorted ascending.
func (c *Completer) SetCandidates(candidates []string) {
	c.candidates = slices.Clone(candidates)
	slices.Sort(c.candidates)
	c.filtered = nil
	c.highlighted = 0
}

// Candidates returns the sorted candidate list.
func (c *Completer) Candidates() []string { return slices.Clone(c.candidates) }

// Filter recomputes the matches for input. Matching is a case-sensitive prefix test.
// The highlighted index is clamped to the shown matches, or -1 when there are none.
func (c *Completer) Filter(input string) []string {
	c.filtered = c.filtered[:0]
	for _, s := range c.candidates {
		if strings.HasPrefix(s, input) {
			c.filtered = append(c.filtered, s)
		}
	}
	c.clamp()
	return slices.Clone(c.filtered)
}

// Key reacts to a released key: up and down move the highlight, any other key
// resets it to the first match. The matches are then recomputed for input.
func (c *Completer) Key(key, input string) {
	switch key {
	case KeyUp:
		c.highlighted--
	case KeyDown:
		c.highlighted++
	default:
		c.highlighted = 0
	}
	c.Filter(input)
}

func (c *Completer) clamp() {
	if c.highlighted < 0 {
		c.highlighted = 0
	}
	if n := min(len(c.filtered), MaxSuggestions); c.highlighted >= n {
		c.highlighted = n - 1
	}
}

// Highlighted returns the highlighted match.
func (c *Completer) Highlighted() (string, bool) {
	if c.highlighted < 0 || c.highlighted >= len(c.filtered) {
		return "", false
	}
	return c.filtered[c.highlighted], true
}

// Suggestions returns at most MaxSuggestions matches, with the highlighted one flagged.
func (c *Completer) Suggestions() []Suggestion {
	n := min(len(c.filtered), MaxSuggestions)
	out := make([]Suggestion, n)
	for i := 0; i < n; i++ {
		out[i] = Suggestion{Text: c.filtered[i], Highlighted: i == c.highlighted}
	}
	return out
}

// Complete returns the highlighted match followed by a space when it is strictly
// longer than input. Otherwise input is returned unchanged and ok is false.
func (c *Completer) Complete(input string) (string, bool) {
	s, ok := c.Highlighted()
	if !ok || len(s) <= len(input) {
		return input, false
	}
	return s + " ", true
}

// Accept returns the expression to submit: the highlighted match when it is strictly
// longer than input, otherwise input.
func (c *Completer) Accept(input string) string {
	if s, ok := c.Highlighted(); ok && len(s) > len(input) {
		return s
	}
	return input
}
