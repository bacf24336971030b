package render

import (
	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/shell"
	"github.com/aretw0/outliner/pkg/view"
)

// Prompt is the text shown before shell inputs.
const Prompt = ">"

type shellLine struct{}

func (shellLine) StyleClass() string { return "line-shell" }

// Enter creates the input together with its shell state, so typed text and history
// survive updates of the line.
func (shellLine) Enter(line *view.Node) {
	form := line.Append("form")
	form.Append("div").SetClass("prompt").SetText(Prompt)
	form.Append("input").SetAttr("type", "text")
	form.Append("ul").SetClass("suggestions")
	line.SetState(shell.New())
}

func (shellLine) Update(line *view.Node, item domain.Variant, rc Context) error {
	v, err := as[*domain.ShellLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	state, ok := line.State().(*shell.Shell)
	if !ok {
		state = shell.New()
		line.SetState(state)
	}
	state.Completer.SetCandidates(v.Functions)

	form := line.SelectElement("form")
	input := form.SelectElement("input")
	list := form.Select("suggestions")

	input.On(view.EventFocusIn, func(*view.Event) { list.SetClassed("focussed", true) })
	input.On(view.EventFocusOut, func(*view.Event) { list.SetClassed("focussed", false) })

	form.On(view.EventKeyDown, func(e *view.Event) {
		if e.Key != shell.KeyTab {
			return
		}
		e.PreventDefault()
		state.Input = input.Attr("value")
		state.Key(shell.KeyTab)
		syncShell(input, list, state)
	})
	form.On(view.EventKeyUp, func(e *view.Event) {
		state.Input = input.Attr("value")
		switch e.Key {
		case shell.KeyUp, shell.KeyDown:
			e.PreventDefault()
			state.Key(e.Key)
		case shell.KeyTab:
		default:
			state.Completer.Key(e.Key, state.Input)
		}
		syncShell(input, list, state)
	})
	form.On(view.EventSubmit, func(e *view.Event) {
		e.PreventDefault()
		state.Input = input.Attr("value")
		if expression, ok := state.Submit(); ok {
			rc.Evaluate(expression)
		}
		syncShell(input, list, state)
	})

	state.Completer.Filter(state.Input)
	syncShell(input, list, state)
	return nil
}

func syncShell(input, list *view.Node, s *shell.Shell) {
	input.SetAttr("value", s.Input)
	suggestions := s.Completer.Suggestions()
	items := list.Join("suggestion", "li", len(suggestions), nil)
	for i, suggestion := range suggestions {
		items[i].SetText(suggestion.Text).SetClassed("highlighted", suggestion.Highlighted)
	}
}
