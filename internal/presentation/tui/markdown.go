package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/outliner/pkg/view"
)

// Markdown describes a rendered stack as markdown, one section per substack, for
// display in a terminal.
func Markdown(stack *view.Node) string {
	var sections []string
	for _, sub := range stack.Children() {
		if !sub.Classed("substack") {
			continue
		}
		var b strings.Builder
		scroll := sub.Select("scrollable")
		if scroll == nil {
			continue
		}
		for _, line := range scroll.Children() {
			if s := markdownLine(line); s != "" {
				b.WriteString(s)
				b.WriteString("\n")
			}
		}
		sections = append(sections, b.String())
	}
	return strings.Join(sections, "\n---\n\n")
}

func markdownLine(line *view.Node) string {
	switch {
	case line.Classed("line-header"):
		return "### " + texts(line.Select("title"))
	case line.Classed("line-value"):
		return "- " + clickableText(line, texts(line))
	case line.Classed("line-value-pair"):
		first, second := line.Select("first"), line.Select("second")
		return fmt.Sprintf("- %s: %s", clickableText(first, texts(first)), clickableText(second, texts(second)))
	case line.Classed("line-expression"):
		return "`" + line.Text() + "`"
	case line.Classed("line-tags"):
		var items []string
		for _, tag := range line.SelectAll("tag") {
			value := tag.Select("value")
			items = append(items, fmt.Sprintf("- `%s%s` = %s",
				tag.Select("prefix").Text(), tag.Select("key").Text(), clickableText(value, value.Text())))
		}
		return strings.Join(items, "\n")
	case line.Classed("line-histogram-bar"):
		return fmt.Sprintf("- %s **%s** %s", texts(line.Select("range")), line.Select("value").Text(), line.Select("total").Text())
	case line.Classed("line-question"):
		return "*" + line.Text() + "*"
	case line.Classed("line-error"):
		return "> **Error:** " + line.Text()
	case line.Classed("line-choice"):
		var chips []string
		for _, chip := range line.SelectAll("chip") {
			if chip.Classed("selected") {
				chips = append(chips, "**"+texts(chip)+"**")
			} else {
				chips = append(chips, texts(chip))
			}
		}
		return fmt.Sprintf("%s: %s", texts(line.Select("label")), strings.Join(chips, " · "))
	case line.Classed("line-shell"):
		return "> `" + strings.TrimSpace(line.Select("prompt").Text()+" "+line.SelectElement("input").Attr("value")) + "`"
	case line.Classed("line-invalid"):
		return "> _unrenderable line_"
	}
	return texts(line)
}

func clickableText(n *view.Node, s string) string {
	if n != nil && n.Classed("clickable") {
		return "[" + s + "]()"
	}
	return s
}

// texts joins the text of n and its descendants, in document order.
func texts(n *view.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	var walk func(*view.Node)
	walk = func(c *view.Node) {
		if t := c.Text(); t != "" {
			parts = append(parts, t)
		}
		for _, child := range c.Children() {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
