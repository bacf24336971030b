package render

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/shell"
	"github.com/aretw0/outliner/pkg/view"
)

// fakeContext records what renderers ask of the response and renders atoms with the
// same registry.
type fakeContext struct {
	registry  *Registry
	exportURL string
	activated []domain.Expression
	evaluated []string
	dragged   []view.Point
	closed    int
}

func (f *fakeContext) Target() string                       { return "test" }
func (f *fakeContext) ExpressionContext() domain.Expression { return nil }
func (f *fakeContext) ExportURL() string                    { return f.exportURL }
func (f *fakeContext) Activate(expr domain.Expression)      { f.activated = append(f.activated, expr) }
func (f *fakeContext) Evaluate(expression string)           { f.evaluated = append(f.evaluated, expression) }
func (f *fakeContext) Close()                               { f.closed++ }

func (f *fakeContext) BeginDrag(_ *view.Node, pointer view.Point) {
	f.dragged = append(f.dragged, pointer)
}

func (f *fakeContext) RenderAtoms(parent *view.Node, atoms ...*domain.Atom) error {
	var errs []error
	for i, c := range parent.Join(domain.KindAtom, "span", len(atoms), nil) {
		v, err := atoms[i].Variant()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		errs = append(errs, f.render(c, domain.KindAtom, v))
	}
	return errors.Join(errs...)
}

func (f *fakeContext) render(c *view.Node, kind string, v domain.Variant) error {
	r, err := f.registry.Lookup(kind, v.Tag())
	if err != nil {
		return err
	}
	if c.Identity() != r.StyleClass() {
		c.Reset()
		c.SetClass(kind + " " + r.StyleClass())
		c.SetIdentity(r.StyleClass())
		r.Enter(c)
	}
	return r.Update(c, v, f)
}

func newFixture(t *testing.T) (*fakeContext, *view.Node) {
	t.Helper()
	return &fakeContext{registry: Default(), exportURL: "/blobs/1"}, view.NewDocument().Root().Append("div")
}

func renderLine(t *testing.T, f *fakeContext, container *view.Node, v domain.LineVariant) {
	t.Helper()
	require.NoError(t, f.render(container, domain.KindLine, v))
}

func TestRegistry_LookupMissing(t *testing.T) {
	_, err := NewRegistry().Lookup(domain.KindLine, "chart")

	require.ErrorIs(t, err, domain.ErrNoRenderer)
	var pe *domain.ProtocolError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "chart", pe.Tag)
}

func TestRegistry_DefaultCoversEveryVariant(t *testing.T) {
	r := Default()
	for _, tag := range []string{
		domain.LineValue, domain.LineValuePair, domain.LineExpression, domain.LineTags,
		domain.LineHistogramBar, domain.LineShell, domain.LineQuestion, domain.LineError,
		domain.LineHeader, domain.LineChoice,
	} {
		_, ok := r.Get(domain.KindLine, tag)
		assert.True(t, ok, tag)
	}
	for _, tag := range []string{domain.AtomValue, domain.AtomLabelledIcon, domain.AtomDownload} {
		_, ok := r.Get(domain.KindAtom, tag)
		assert.True(t, ok, tag)
	}
}

func TestRenderer_WrongVariantIsProtocolViolation(t *testing.T) {
	f, c := newFixture(t)
	r, _ := f.registry.Get(domain.KindLine, domain.LineValue)

	err := r.Update(c, &domain.ErrorLine{Error: "x"}, f)
	require.ErrorIs(t, err, domain.ErrProtocolViolation)
	assert.Contains(t, err.Error(), "can't render line of type error")
}

func TestValueLine_ClickActivatesExpression(t *testing.T) {
	f, c := newFixture(t)
	expr := domain.Expression(`{"call":{"function":"find"}}`)

	renderLine(t, f, c, &domain.ValueLine{Atom: domain.TextAtom("Building"), ClickExpression: expr})
	assert.True(t, c.Classed("clickable"))
	assert.Equal(t, "Building", c.Select("atom").Text())

	ev := c.Select("atom").Dispatch(&view.Event{Type: view.EventClick})
	assert.True(t, ev.DefaultPrevented())
	require.Len(t, f.activated, 1)
	assert.JSONEq(t, string(expr), string(f.activated[0]))

	renderLine(t, f, c, &domain.ValueLine{Atom: domain.TextAtom("Plain")})
	assert.False(t, c.Classed("clickable"))
	assert.False(t, c.HasHandler(view.EventClick))
}

func TestValueLine_UpdateIsIdempotent(t *testing.T) {
	f, c := newFixture(t)
	line := &domain.ValueLine{Atom: domain.AtomOf(&domain.LabelledIcon{Icon: "park", Label: "Hyde Park"})}

	renderLine(t, f, c, line)
	once := view.String(c)
	renderLine(t, f, c, line)

	assert.Equal(t, once, view.String(c))
}

func TestAtoms(t *testing.T) {
	f, c := newFixture(t)
	renderLine(t, f, c, &domain.ValuePairLine{
		First:  &domain.ClickableAtom{Atom: domain.AtomOf(&domain.LabelledIcon{Icon: "area", Label: "Area"})},
		Second: &domain.ClickableAtom{Atom: domain.AtomOf(domain.DownloadAtom("GeoJSON"))},
	})

	img := c.SelectElement("img")
	assert.Equal(t, "/images/area.svg", img.Attr("src"))
	assert.True(t, img.Classed("icon-area"))

	a := c.SelectElement("a")
	assert.Equal(t, "/blobs/1", a.Attr("href"))
	assert.Equal(t, DownloadName, a.Attr("download"))
	assert.Equal(t, "GeoJSON", a.Text())
}

func TestValuePairLine_SlotsAreIndependentlyClickable(t *testing.T) {
	f, c := newFixture(t)
	renderLine(t, f, c, &domain.ValuePairLine{
		First:  &domain.ClickableAtom{Atom: domain.TextAtom("building"), ClickExpression: domain.Expression(`1`)},
		Second: &domain.ClickableAtom{Atom: domain.TextAtom("42")},
	})

	assert.True(t, c.Select("first").Classed("clickable"))
	assert.False(t, c.Select("second").Classed("clickable"))

	c.Select("second").Select("atom").Dispatch(&view.Event{Type: view.EventClick})
	assert.Empty(t, f.activated)
	c.Select("first").Select("atom").Dispatch(&view.Event{Type: view.EventClick})
	assert.Len(t, f.activated, 1)
}

func TestExpressionLine_PointerDownStartsDrag(t *testing.T) {
	f, c := newFixture(t)
	renderLine(t, f, c, &domain.ExpressionLine{Expression: "all-areas"})
	assert.Equal(t, "all-areas", c.Text())

	c.Dispatch(&view.Event{Type: view.EventPointerDown, Pointer: view.Point{X: 3, Y: 4}})
	assert.Equal(t, []view.Point{{X: 3, Y: 4}}, f.dragged)
}

func TestTagsLine(t *testing.T) {
	f, c := newFixture(t)
	renderLine(t, f, c, &domain.TagsLine{Tags: []*domain.Tag{
		{Prefix: "#", Key: "building", Value: "yes", ClickExpression: domain.Expression(`2`)},
		{Key: "name", Value: "Granary"},
	}})

	items := c.SelectAll("tag")
	require.Len(t, items, 2)
	assert.Equal(t, "#", items[0].Select("prefix").Text())
	assert.Equal(t, "building", items[0].Select("key").Text())
	assert.True(t, items[0].Select("value").Classed("clickable"))
	assert.False(t, items[1].Select("value").Classed("clickable"))

	renderLine(t, f, c, &domain.TagsLine{Tags: []*domain.Tag{{Key: "name", Value: "Coal Drops"}}})
	items = c.SelectAll("tag")
	require.Len(t, items, 1)
	assert.Equal(t, "Coal Drops", items[0].Select("value").Text())
}

func TestHistogramBarLine(t *testing.T) {
	f, c := newFixture(t)
	renderLine(t, f, c, &domain.HistogramBarLine{Range: domain.TextAtom("0-10"), Value: 1, Total: 4, Index: 2})

	assert.Equal(t, "index-2 range-icon", c.Select("range-icon").Class())
	assert.Equal(t, "0-10", c.Select("range").Select("atom").Text())
	assert.Equal(t, "1", c.Select("value").Text())
	assert.Equal(t, "/ 4", c.Select("total").Text())
	assert.Equal(t, "width: 25.00%;", c.Select("fill").Attr("style"))

	renderLine(t, f, c, &domain.HistogramBarLine{Value: 0, Total: 0})
	assert.Equal(t, "width: 0.00%;", c.Select("fill").Attr("style"))
}

func TestHeaderLine_Close(t *testing.T) {
	f, c := newFixture(t)
	renderLine(t, f, c, &domain.HeaderLine{Title: domain.TextAtom("Results"), Close: true})

	assert.False(t, c.Select("close").Classed("hidden"))
	c.Select("close").Dispatch(&view.Event{Type: view.EventClick})
	assert.Equal(t, 1, f.closed)

	renderLine(t, f, c, &domain.HeaderLine{Title: domain.TextAtom("Results")})
	assert.True(t, c.Select("close").Classed("hidden"))
	assert.False(t, c.Select("close").HasHandler(view.EventClick))
}

func TestChoiceLine(t *testing.T) {
	f, c := newFixture(t)
	renderLine(t, f, c, &domain.ChoiceLine{
		Label:    domain.TextAtom("Mode"),
		Chips:    []*domain.Atom{domain.TextAtom("walk"), domain.TextAtom("bus")},
		Selected: 1,
	})

	chips := c.SelectAll("chip")
	require.Len(t, chips, 2)
	assert.False(t, chips[0].Classed("selected"))
	assert.True(t, chips[1].Classed("selected"))
	assert.Equal(t, "Mode", c.Select("label").Select("atom").Text())
}

func TestChoiceLine_MalformedChipIsReported(t *testing.T) {
	f, c := newFixture(t)
	err := f.render(c, domain.KindLine, &domain.ChoiceLine{Chips: []*domain.Atom{{}, domain.TextAtom("ok")}})

	require.ErrorIs(t, err, domain.ErrProtocolViolation)
	assert.Equal(t, "ok", c.SelectAll("chip")[1].Select("atom").Text(), "siblings still render")
}

func TestShellLine_KeepsStateAcrossUpdates(t *testing.T) {
	f, c := newFixture(t)
	renderLine(t, f, c, &domain.ShellLine{Functions: []string{"find", "filter", "first"}})

	state, ok := c.State().(*shell.Shell)
	require.True(t, ok)
	form := c.SelectElement("form")
	input := form.SelectElement("input")
	assert.Len(t, c.SelectAll("suggestion"), 3, "an empty input lists every function")

	input.SetAttr("value", "fi")
	input.Dispatch(&view.Event{Type: view.EventKeyUp, Key: "i"})

	var texts []string
	for _, s := range c.SelectAll("suggestion") {
		texts = append(texts, s.Text())
	}
	assert.Equal(t, []string{"filter", "find", "first"}, texts)
	assert.True(t, c.SelectAll("suggestion")[0].Classed("highlighted"))

	renderLine(t, f, c, &domain.ShellLine{Functions: []string{"find", "filter", "first", "fit"}})
	assert.Same(t, state, c.State())
	assert.Same(t, input, c.SelectElement("input"))
	assert.Equal(t, "fi", input.Attr("value"))
	assert.Len(t, c.SelectAll("suggestion"), 4)

	input.SetAttr("value", "z")
	input.Dispatch(&view.Event{Type: view.EventKeyUp, Key: "z"})
	assert.Empty(t, c.SelectAll("suggestion"))
}

func TestShellLine_TabAndSubmit(t *testing.T) {
	f, c := newFixture(t)
	renderLine(t, f, c, &domain.ShellLine{Functions: []string{"find-feature", "filter"}})
	input := c.SelectElement("input")

	input.SetAttr("value", "fin")
	input.Dispatch(&view.Event{Type: view.EventKeyUp, Key: "n"})
	ev := input.Dispatch(&view.Event{Type: view.EventKeyDown, Key: shell.KeyTab})
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, "find-feature ", input.Attr("value"))

	input.SetAttr("value", "find-feature /area/ns/2")
	ev = input.Dispatch(&view.Event{Type: view.EventSubmit})
	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, []string{"find-feature /area/ns/2"}, f.evaluated)
	assert.Equal(t, "", input.Attr("value"))
}

func TestLineFromWire(t *testing.T) {
	var line domain.Line
	require.NoError(t, json.Unmarshal([]byte(`{"question":{"question":"Which area?"}}`), &line))
	v, err := line.Variant()
	require.NoError(t, err)

	f, c := newFixture(t)
	renderLine(t, f, c, v)
	assert.Equal(t, "Which area?", c.Text())
	assert.Equal(t, "line line-question", c.Class())
}
