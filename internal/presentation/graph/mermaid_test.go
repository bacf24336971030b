package graph_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aretw0/outliner/internal/presentation/graph"
	"github.com/aretw0/outliner/pkg/view"
)

func TestGenerateMermaid(t *testing.T) {
	doc := view.NewDocument()
	stack := doc.Root().Append("div").SetClass("stack")
	sub := stack.Append("div").SetClass("substack")
	line := sub.Append("div").SetClass("line line-value clickable")
	line.Append("span").SetClass("atom atom-value").SetText(`say "hi"`)
	bad := sub.Append("div").SetClass("line line-invalid")

	out := graph.GenerateMermaid(stack, &graph.Overlay{Current: line.ID()})

	tests := []struct {
		name     string
		contains string
	}{
		{"Stack Shape", "((\"div.stack\"))"},
		{"Substack Shape", "[[\"div.substack\"]]"},
		{"Atom Shape And Quote Escaping", "(\"span.atom.atom-value say 'hi'\")"},
		{"Edge", "--> n" + itoa(line.ID())},
		{"Clickable Class", "class n" + itoa(line.ID()) + " clickable;"},
		{"Invalid Class", "class n" + itoa(bad.ID()) + " invalid;"},
		{"Current Class", "class n" + itoa(line.ID()) + " current;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(out, tt.contains) {
				t.Errorf("expected output to contain %q\n%s", tt.contains, out)
			}
		})
	}
}

func TestGenerateMermaid_TruncatesLongText(t *testing.T) {
	doc := view.NewDocument()
	n := doc.Root().Append("div").SetText(strings.Repeat("x", 100))

	out := graph.GenerateMermaid(n, nil)
	if !strings.Contains(out, strings.Repeat("x", 32)+"...") {
		t.Errorf("expected truncated label, got\n%s", out)
	}
	if strings.Contains(out, "classDef") {
		t.Errorf("expected no styles without marks, got\n%s", out)
	}
}

func itoa(id view.NodeID) string {
	return fmt.Sprint(uint64(id))
}
