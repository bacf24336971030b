package outliner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/outliner/internal/presentation/tui"
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/view"
)

// Runner drives the console from line based IO: every line read is submitted as an
// expression and the featured stack is printed once its response arrives.
// This allows for easy testing and integration with different frontends.
type Runner struct {
	Input    io.Reader
	Output   io.Writer
	Headless bool
	Renderer ContentRenderer
}

// ContentRenderer transforms the markdown of a stack before it is written, e.g. to
// ANSI for a terminal.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner. Input and Output must be set before Run.
func NewRunner() *Runner {
	return &Runner{}
}

// Run reads expressions until EOF, "exit" or "quit".
func (r *Runner) Run(ctx context.Context, o *Outliner) error {
	if r.Input == nil {
		return fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewReader(r.Input)
	console := o.Console()

	for {
		if !r.Headless {
			fmt.Fprint(r.Output, "> ")
		}
		text, err := lines.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("input error: %w", err)
		}
		input := strings.TrimSpace(text)
		if input == "exit" || input == "quit" {
			if !r.Headless {
				fmt.Fprintln(r.Output, "Bye!")
			}
			return nil
		}

		if input != "" {
			console.Type(input)
			if _, ok := console.Submit(ctx); ok {
				if werr := r.Await(ctx, o); werr != nil {
					return werr
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// Await waits for the next evaluation and prints the stack it was rendered into.
// Results for superseded submissions are skipped.
func (r *Runner) Await(ctx context.Context, o *Outliner) error {
	for {
		rr, err := o.Await(ctx)
		if errors.Is(err, domain.ErrStaleBind) {
			continue
		}
		if rr == nil {
			return err
		}
		if err != nil {
			o.logger.Warn("Response rendered with errors", "err", err)
		}
		return r.Print(rr.Root())
	}
}

// Print writes a rendered stack as markdown, through the Renderer when set.
func (r *Runner) Print(stack *view.Node) error {
	content := tui.Markdown(stack)
	output := content
	if r.Renderer != nil {
		if rendered, err := r.Renderer(content); err == nil {
			output = rendered
		}
	}
	if _, err := fmt.Fprintln(r.Output, strings.TrimSpace(output)); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}
