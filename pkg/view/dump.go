package view

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// DumpOption configures Dump.
type DumpOption func(*dumper)

// WithDecorator wraps the selector part of each line (element and classes), e.g. to
// colour it for a terminal.
func WithDecorator(fn func(string) string) DumpOption {
	return func(d *dumper) {
		d.decorate = fn
	}
}

// WithPositions includes node positions in the output.
func WithPositions() DumpOption {
	return func(d *dumper) {
		d.positions = true
	}
}

type dumper struct {
	w         io.Writer
	decorate  func(string) string
	positions bool
	err       error
}

// Dump writes an indented outline of n and its descendants, one node per line:
//
//	div.line.line-value "Collection" [href=...]
func Dump(w io.Writer, n *Node, opts ...DumpOption) error {
	d := &dumper{w: w, decorate: func(s string) string { return s }}
	for _, opt := range opts {
		opt(d)
	}
	d.node(n, 0)
	return d.err
}

// String returns the Dump of n.
func String(n *Node) string {
	var b strings.Builder
	_ = Dump(&b, n)
	return b.String()
}

func (d *dumper) node(n *Node, depth int) {
	if d.err != nil {
		return
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))

	selector := n.element
	if class := n.Class(); class != "" {
		selector += "." + strings.ReplaceAll(class, " ", ".")
	}
	b.WriteString(d.decorate(selector))

	if n.text != "" {
		fmt.Fprintf(&b, " %q", n.text)
	}
	if len(n.attrs) > 0 {
		names := make([]string, 0, len(n.attrs))
		for name := range n.attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, " [%s=%s]", name, n.attrs[name])
		}
	}
	if d.positions && n.position != (Point{}) {
		fmt.Fprintf(&b, " @(%d,%d)", n.position.X, n.position.Y)
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(d.w, b.String()); err != nil {
		d.err = err
		return
	}
	for _, c := range n.children {
		d.node(c, depth+1)
	}
}
