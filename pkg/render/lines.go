package render

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/view"
)

type valueLine struct{}

func (valueLine) StyleClass() string { return "line-value" }
func (valueLine) Enter(*view.Node)   {}

func (valueLine) Update(line *view.Node, item domain.Variant, rc Context) error {
	v, err := as[*domain.ValueLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	clickable(line, v.ClickExpression, rc)
	return rc.RenderAtoms(line, atomsOf(v.Atom)...)
}

type valuePairLine struct{}

func (valuePairLine) StyleClass() string { return "line-value-pair" }

func (valuePairLine) Enter(line *view.Node) {
	line.Append("span").SetClass("first")
	line.Append("span").SetClass("second")
}

func (valuePairLine) Update(line *view.Node, item domain.Variant, rc Context) error {
	v, err := as[*domain.ValuePairLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	return errors.Join(
		pairSlot(line.Select("first"), v.First, rc),
		pairSlot(line.Select("second"), v.Second, rc),
	)
}

func pairSlot(slot *view.Node, value *domain.ClickableAtom, rc Context) error {
	if value == nil {
		clickable(slot, nil, rc)
		return rc.RenderAtoms(slot)
	}
	clickable(slot, value.ClickExpression, rc)
	return rc.RenderAtoms(slot, atomsOf(value.Atom)...)
}

type expressionLine struct{}

func (expressionLine) StyleClass() string { return "line-expression" }
func (expressionLine) Enter(*view.Node)   {}

func (expressionLine) Update(line *view.Node, item domain.Variant, rc Context) error {
	v, err := as[*domain.ExpressionLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	line.SetText(v.Expression)
	line.On(view.EventPointerDown, func(e *view.Event) {
		e.PreventDefault()
		rc.BeginDrag(line, e.Pointer)
	})
	return nil
}

type tagsLine struct{}

func (tagsLine) StyleClass() string { return "line-tags" }

func (tagsLine) Enter(line *view.Node) {
	line.Append("ul")
}

func (tagsLine) Update(line *view.Node, item domain.Variant, rc Context) error {
	v, err := as[*domain.TagsLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	items := line.SelectElement("ul").Join("tag", "li", len(v.Tags), func(li *view.Node) {
		li.Append("span").SetClass("prefix")
		li.Append("span").SetClass("key")
		li.Append("span").SetClass("value")
	})
	for i, tag := range v.Tags {
		if tag == nil {
			tag = &domain.Tag{}
		}
		items[i].Select("prefix").SetText(tag.Prefix)
		items[i].Select("key").SetText(tag.Key)
		value := items[i].Select("value").SetText(tag.Value)
		clickable(value, tag.ClickExpression, rc)
	}
	return nil
}

type histogramBarLine struct{}

func (histogramBarLine) StyleClass() string { return "line-histogram-bar" }

func (histogramBarLine) Enter(line *view.Node) {
	line.Append("div").SetClass("range-icon")
	line.Append("span").SetClass("range")
	line.Append("span").SetClass("value")
	line.Append("span").SetClass("total")
	line.Append("div").SetClass("value-bar").Append("div").SetClass("fill")
}

func (histogramBarLine) Update(line *view.Node, item domain.Variant, rc Context) error {
	v, err := as[*domain.HistogramBarLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	line.Select("range-icon").SetClass(fmt.Sprintf("range-icon index-%d", v.Index))
	line.Select("value").SetText(strconv.Itoa(v.Value))
	line.Select("total").SetText(fmt.Sprintf("/ %d", v.Total))
	line.Select("fill").SetAttr("style", fmt.Sprintf("width: %.2f%%;", v.Fraction()*100))
	return rc.RenderAtoms(line.Select("range"), atomsOf(v.Range)...)
}

type questionLine struct{}

func (questionLine) StyleClass() string { return "line-question" }
func (questionLine) Enter(*view.Node)   {}

func (questionLine) Update(line *view.Node, item domain.Variant, _ Context) error {
	v, err := as[*domain.QuestionLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	line.SetText(v.Question)
	return nil
}

type errorLine struct{}

func (errorLine) StyleClass() string { return "line-error" }
func (errorLine) Enter(*view.Node)   {}

func (errorLine) Update(line *view.Node, item domain.Variant, _ Context) error {
	v, err := as[*domain.ErrorLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	line.SetText(v.Error)
	return nil
}

type headerLine struct{}

func (headerLine) StyleClass() string { return "line-header" }

func (headerLine) Enter(line *view.Node) {
	line.Append("span").SetClass("title")
	line.Append("button").SetClass("close")
}

func (headerLine) Update(line *view.Node, item domain.Variant, rc Context) error {
	v, err := as[*domain.HeaderLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	button := line.Select("close").SetClassed("hidden", !v.Close)
	if v.Close {
		button.On(view.EventClick, func(e *view.Event) {
			e.PreventDefault()
			e.StopPropagation()
			rc.Close()
		})
	} else {
		button.On(view.EventClick, nil)
	}
	return rc.RenderAtoms(line.Select("title"), atomsOf(v.Title)...)
}

type choiceLine struct{}

func (choiceLine) StyleClass() string { return "line-choice" }

func (choiceLine) Enter(line *view.Node) {
	line.Append("span").SetClass("label")
	line.Append("ul").SetClass("chips")
}

func (choiceLine) Update(line *view.Node, item domain.Variant, rc Context) error {
	v, err := as[*domain.ChoiceLine](domain.KindLine, item)
	if err != nil {
		return err
	}
	errs := []error{rc.RenderAtoms(line.Select("label"), atomsOf(v.Label)...)}
	chips := line.Select("chips").Join("chip", "li", len(v.Chips), nil)
	for i, chip := range v.Chips {
		chips[i].SetClassed("selected", i == v.Selected)
		errs = append(errs, rc.RenderAtoms(chips[i], atomsOf(chip)...))
	}
	return errors.Join(errs...)
}
