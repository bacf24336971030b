package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/outliner/pkg/view"
)

// maxLabel bounds the text shown inside a diagram node.
const maxLabel = 32

// Overlay marks nodes to emphasise on the diagram.
type Overlay struct {
	Current view.NodeID
}

// GenerateMermaid produces a Mermaid flowchart of the view tree under root.
// Shapes follow the structural role of each node:
// - Stack: ((Circle))
// - Substack: [[Subroutine]]
// - Atom: (Rounded)
// - Default: [Rectangle]
// Clickable nodes and nodes that failed to render get their own class.
func GenerateMermaid(root *view.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var clickable, invalid []string
	var walk func(n *view.Node)
	walk = func(n *view.Node) {
		id := mermaidID(n)
		opener, closer := "[", "]"
		switch {
		case n.Classed("stack"):
			opener, closer = "((", "))"
		case n.Classed("substack"):
			opener, closer = "[[", "]]"
		case n.Classed("atom"):
			opener, closer = "(", ")"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label(n), closer)

		if n.Classed("clickable") {
			clickable = append(clickable, id)
		}
		if n.Classed("line-invalid") || n.Classed("atom-invalid") {
			invalid = append(invalid, id)
		}
		for _, c := range n.Children() {
			fmt.Fprintf(&sb, "    %s --> %s\n", id, mermaidID(c))
			walk(c)
		}
	}
	walk(root)

	if len(clickable) > 0 || len(invalid) > 0 || overlay != nil {
		sb.WriteString("\n    %% Styles\n")
		sb.WriteString("    classDef clickable stroke:#5a6db1,stroke-width:2px;\n")
		sb.WriteString("    classDef invalid fill:#ffe0e0,stroke:#ff6d6d,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range clickable {
			fmt.Fprintf(&sb, "    class %s clickable;\n", id)
		}
		for _, id := range invalid {
			fmt.Fprintf(&sb, "    class %s invalid;\n", id)
		}
		if overlay != nil && overlay.Current != 0 {
			fmt.Fprintf(&sb, "    class n%d current;\n", overlay.Current)
		}
	}

	return sb.String()
}

func mermaidID(n *view.Node) string {
	return fmt.Sprintf("n%d", n.ID())
}

func label(n *view.Node) string {
	s := n.Element()
	if class := n.Class(); class != "" {
		s += "." + strings.ReplaceAll(class, " ", ".")
	}
	if text := n.Text(); text != "" {
		if len(text) > maxLabel {
			text = text[:maxLabel] + "..."
		}
		s += " " + text
	}
	// Double quotes end a Mermaid label
	return strings.ReplaceAll(s, "\"", "'")
}
