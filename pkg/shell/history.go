// Package shell holds the input state of an expression shell: command history with a
// replay cursor, and autocomplete over a list of function names.
package shell

import "slices"

// History is an append-only list of submitted expressions with a replay cursor.
// Cursor 0 means "not browsing"; cursor i shows the i-th most recent entry.
type History struct {
	entries []string
	cursor  int
}

// NewHistory creates a history preloaded with entries, oldest first.
func NewHistory(entries ...string) *History {
	return &History{entries: slices.Clone(entries)}
}

// Push appends an entry and stops browsing.
func (h *History) Push(entry string) {
	h.entries = append(h.entries, entry)
	h.cursor = 0
}

// Prev moves one entry back in time and returns the text to display. At the oldest
// entry it stays put and reports false.
func (h *History) Prev() (string, bool) {
	if h.cursor >= len(h.entries) {
		return h.current(), false
	}
	h.cursor++
	return h.current(), true
}

// Next moves one entry forward in time and returns the text to display; the empty
// string once the cursor is back at 0. At cursor 0 it reports false.
func (h *History) Next() (string, bool) {
	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.current(), true
}

func (h *History) current() string {
	if h.cursor == 0 {
		return ""
	}
	return h.entries[len(h.entries)-h.cursor]
}

// Reset stops browsing.
func (h *History) Reset() { h.cursor = 0 }

// Cursor returns the replay cursor.
func (h *History) Cursor() int { return h.cursor }

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy of the entries, oldest first.
func (h *History) Entries() []string { return slices.Clone(h.entries) }
