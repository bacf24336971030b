// Package highlight tracks which features are highlighted, and by how many rendered
// responses.
package highlight

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/outliner/pkg/domain"
)

// ErrUnderflow is returned when a key is released more often than it was added.
var ErrUnderflow = errors.New("highlight released more often than added")

// Ledger is a reference-counted set of highlight keys.
//
// Counts are always positive: a key whose count drops to zero is deleted. Mutation
// belongs to the lifecycle manager; the lock exists so style functions can read the
// ledger while tiles are drawn elsewhere.
type Ledger struct {
	mu     sync.RWMutex
	counts map[domain.HighlightKey]int
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{counts: make(map[domain.HighlightKey]int)}
}

// Add increments the count of each key.
func (l *Ledger) Add(keys ...domain.HighlightKey) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, k := range keys {
		l.counts[k]++
	}
}

// Remove decrements the count of each key, deleting keys that reach zero. Keys that
// are not present are left absent and reported as ErrUnderflow; the remaining keys are
// still released.
func (l *Ledger) Remove(keys ...domain.HighlightKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var missing []domain.HighlightKey
	for _, k := range keys {
		n, ok := l.counts[k]
		if !ok {
			missing = append(missing, k)
			continue
		}
		if n <= 1 {
			delete(l.counts, k)
		} else {
			l.counts[k] = n - 1
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrUnderflow, missing)
	}
	return nil
}

// Count returns the number of live claims on a key.
func (l *Ledger) Count(k domain.HighlightKey) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.counts[k]
}

// Highlighted reports whether any live response claims the key.
func (l *Ledger) Highlighted(k domain.HighlightKey) bool {
	return l.Count(k) > 0
}

// Len returns the number of distinct highlighted keys.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.counts)
}

// Total returns the sum of all counts.
func (l *Ledger) Total() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	total := 0
	for _, n := range l.counts {
		total += n
	}
	return total
}

// Snapshot returns a copy of the counts.
func (l *Ledger) Snapshot() map[domain.HighlightKey]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[domain.HighlightKey]int, len(l.counts))
	for k, n := range l.counts {
		out[k] = n
	}
	return out
}

// Keys returns the highlighted keys in ascending order.
func (l *Ledger) Keys() []domain.HighlightKey {
	l.mu.RLock()
	defer l.mu.RUnlock()

	keys := make([]domain.HighlightKey, 0, len(l.counts))
	for k := range l.counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
