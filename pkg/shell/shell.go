package shell

import "strings"

// Shell is the state of one input box: the text being edited, its history and its
// completer.
type Shell struct {
	Input     string
	History   *History
	Completer *Completer
}

// New creates a shell offering the given function names.
func New(functions ...string) *Shell {
	return &Shell{History: NewHistory(), Completer: NewCompleter(functions...)}
}

// Type replaces the input text as if the user typed it, recomputing suggestions.
func (s *Shell) Type(input string) {
	s.Input = input
	s.Completer.Key("", input)
}

// Key handles a navigation key. Up and down move through suggestions when there are
// any, and through history otherwise. Tab completes. It reports whether the key was
// consumed.
func (s *Shell) Key(key string) bool {
	switch key {
	case KeyTab:
		if completed, ok := s.Completer.Complete(s.Input); ok {
			s.Input = completed
			s.Completer.Key("", s.Input)
		}
		return true
	case KeyUp, KeyDown:
		if len(s.Completer.Suggestions()) > 0 && s.Input != "" {
			s.Completer.Key(key, s.Input)
			return true
		}
		var text string
		var moved bool
		if key == KeyUp {
			text, moved = s.History.Prev()
		} else {
			text, moved = s.History.Next()
		}
		if moved {
			s.Input = text
		}
		return true
	}
	return false
}

// Submit takes the input for evaluation: the highlighted suggestion when it extends
// the input, otherwise the trimmed input. Empty input yields false. On success the
// expression is pushed onto history and the input is cleared.
func (s *Shell) Submit() (string, bool) {
	expression := strings.TrimSpace(s.Input)
	if expression == "" {
		return "", false
	}
	s.Completer.Filter(expression)
	expression = s.Completer.Accept(expression)
	s.History.Push(expression)
	s.Input = ""
	s.Completer.Filter("")
	return expression, true
}
