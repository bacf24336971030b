package tui

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the outliner banner in the profile's colours.
func PrintBanner(w io.Writer, p termenv.Profile) {
	rows := []struct {
		text, color string
	}{
		{"              _   _ _                 ", "#5a6db1"},
		{"   ___  _   _| |_| (_)_ __   ___ _ __ ", "#6f7fc0"},
		{"  / _ \\| | | | __| | | '_ \\ / _ \\ '__|", "#8a93cc"},
		{" | (_) | |_| | |_| | | | | |  __/ |   ", "#c084fc"},
		{"  \\___/ \\__,_|\\__|_|_|_| |_|\\___|_|   ", "#ff6d6d"},
	}
	fmt.Fprintln(w)
	for _, r := range rows {
		fmt.Fprintln(w, p.String(r.text).Foreground(p.Color(r.color)))
	}
	fmt.Fprintln(w)
}

// Selector returns a view.Dump decorator colouring node selectors: stacks and
// substacks in the path colour, failed items in the highlight colour.
func Selector(p termenv.Profile) func(string) string {
	return func(s string) string {
		color := "#8a93cc"
		switch {
		case containsClass(s, "line-invalid"), containsClass(s, "atom-invalid"):
			color = "#ff6d6d"
		case containsClass(s, "stack"), containsClass(s, "substack"):
			color = "#5a6db1"
		}
		return p.String(s).Foreground(p.Color(color)).String()
	}
}

func containsClass(selector, class string) bool {
	return slices.Contains(strings.Split(selector, "."), class)
}
