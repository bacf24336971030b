package runtime

import (
	"context"
	"fmt"

	"github.com/aretw0/outliner/pkg/ports"
	"github.com/aretw0/outliner/pkg/shell"
)

// ConsoleHistory is the history name of the global shell.
const ConsoleHistory = "console"

// Console is the global shell. Its expressions evaluate into the featured stack and
// its history may be persisted.
type Console struct {
	ui     *UI
	shell  *shell.Shell
	store  ports.HistoryStore
	closed bool
}

// NewConsole creates the global shell, loading its history from store when given.
func NewConsole(ctx context.Context, u *UI, store ports.HistoryStore) (*Console, error) {
	c := &Console{ui: u, shell: shell.New(), store: store, closed: true}
	if store != nil {
		entries, err := store.Load(ctx, ConsoleHistory)
		if err != nil {
			return nil, fmt.Errorf("failed to load console history: %w", err)
		}
		c.shell.History = shell.NewHistory(entries...)
	}
	return c, nil
}

// Shell returns the input state.
func (c *Console) Shell() *shell.Shell { return c.shell }

// Closed reports whether the console is hidden.
func (c *Console) Closed() bool { return c.closed }

// Toggle shows or hides the console.
func (c *Console) Toggle() { c.closed = !c.closed }

// Key handles a navigation key; see shell.Shell.Key.
func (c *Console) Key(key string) bool { return c.shell.Key(key) }

// Type replaces the input text.
func (c *Console) Type(input string) { c.shell.Type(input) }

// Submit evaluates the input into the featured stack, records it and hides the
// console. It reports false for empty input.
func (c *Console) Submit(ctx context.Context) (uint64, bool) {
	expression, ok := c.shell.Submit()
	if !ok {
		return 0, false
	}
	c.closed = true
	if c.store != nil {
		if err := c.store.Append(ctx, ConsoleHistory, expression); err != nil {
			c.ui.logger.Warn("Failed to persist console history", "err", err)
		}
	}
	return c.ui.Evaluate(expression), true
}
