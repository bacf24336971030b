package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_NeverLeavesBounds(t *testing.T) {
	h := NewHistory("a", "b", "c")
	n := h.Len()

	var shown string
	for i := 0; i < n+5; i++ {
		shown, _ = h.Prev()
		assert.LessOrEqual(t, h.Cursor(), n)
	}
	assert.Equal(t, "a", shown)
	assert.Equal(t, n, h.Cursor())

	for i := 0; i < n+5; i++ {
		shown, _ = h.Next()
		assert.GreaterOrEqual(t, h.Cursor(), 0)
	}
	assert.Equal(t, "", shown)
	assert.Equal(t, 0, h.Cursor())
}

func TestHistory_PrevShowsMostRecentFirst(t *testing.T) {
	h := NewHistory()
	h.Push("first")
	h.Push("second")

	got, ok := h.Prev()
	require.True(t, ok)
	assert.Equal(t, "second", got)

	got, _ = h.Prev()
	assert.Equal(t, "first", got)

	got, _ = h.Next()
	assert.Equal(t, "second", got)

	got, ok = h.Next()
	require.True(t, ok)
	assert.Equal(t, "", got)

	_, ok = h.Next()
	assert.False(t, ok)
}

func TestCompleter_FilterSortsAndMatchesPrefix(t *testing.T) {
	c := NewCompleter("find", "filter", "first")

	assert.Equal(t, []string{"filter", "find", "first"}, c.Filter("fi"))
	assert.Equal(t, []string{"find"}, c.Filter("fin"))

	assert.Empty(t, c.Filter("z"))
	assert.Empty(t, c.Suggestions())
	_, ok := c.Highlighted()
	assert.False(t, ok)

	assert.Empty(t, c.Filter("Fi"), "matching is case-sensitive")
}

func TestCompleter_HighlightClamps(t *testing.T) {
	c := NewCompleter("find", "filter", "first")
	c.Key("i", "fi")

	for i := 0; i < 10; i++ {
		c.Key(KeyDown, "fi")
	}
	got, _ := c.Highlighted()
	assert.Equal(t, "first", got)

	for i := 0; i < 10; i++ {
		c.Key(KeyUp, "fi")
	}
	got, _ = c.Highlighted()
	assert.Equal(t, "filter", got)

	c.Key(KeyDown, "fi")
	c.Key("n", "fin")
	got, _ = c.Highlighted()
	assert.Equal(t, "find", got, "typing resets the highlight")
}

func TestCompleter_SuggestionsAreCapped(t *testing.T) {
	c := NewCompleter("a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8")
	c.Filter("a")

	s := c.Suggestions()
	require.Len(t, s, MaxSuggestions)
	assert.Equal(t, Suggestion{Text: "a1", Highlighted: true}, s[0])
	for _, x := range s[1:] {
		assert.False(t, x.Highlighted)
	}
}

func TestCompleter_HighlightStaysWithinShownSuggestions(t *testing.T) {
	c := NewCompleter("a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8")
	c.Filter("a")
	for i := 0; i < 10; i++ {
		c.Key(KeyDown, "a")
	}

	got, ok := c.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "a6", got)
	s := c.Suggestions()
	assert.True(t, s[MaxSuggestions-1].Highlighted)

	completed, ok := c.Complete("a")
	require.True(t, ok)
	assert.Equal(t, "a6 ", completed)
}

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter("find", "filter")
	c.Filter("fil")

	got, ok := c.Complete("fil")
	require.True(t, ok)
	assert.Equal(t, "filter ", got)

	c.Filter("filter")
	got, ok = c.Complete("filter")
	assert.False(t, ok, "not strictly longer")
	assert.Equal(t, "filter", got)
}

func TestShell_SubmitTrimsAndRecords(t *testing.T) {
	s := New()
	s.Type("  all-areas  ")

	got, ok := s.Submit()
	require.True(t, ok)
	assert.Equal(t, "all-areas", got)
	assert.Equal(t, "", s.Input)
	assert.Equal(t, []string{"all-areas"}, s.History.Entries())
	assert.Equal(t, 0, s.History.Cursor())

	s.Type("   ")
	_, ok = s.Submit()
	assert.False(t, ok)
	assert.Equal(t, 1, s.History.Len())
}

func TestShell_SubmitAcceptsHighlightedSuggestion(t *testing.T) {
	s := New("find-feature", "filter")
	s.Type("fin")

	got, ok := s.Submit()
	require.True(t, ok)
	assert.Equal(t, "find-feature", got)
}

func TestShell_KeysNavigateHistoryWithoutSuggestions(t *testing.T) {
	s := New("find")
	s.History.Push("one")
	s.History.Push("two")

	assert.True(t, s.Key(KeyUp))
	assert.Equal(t, "two", s.Input)
	s.Key(KeyUp)
	assert.Equal(t, "one", s.Input)
	s.Key(KeyDown)
	s.Key(KeyDown)
	assert.Equal(t, "", s.Input)

	s.Type("fi")
	s.Key(KeyTab)
	assert.Equal(t, "find ", s.Input)
	assert.False(t, s.Key("Enter"))
}
