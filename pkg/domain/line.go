package domain

// Line variant tags.
const (
	LineValue        = "value"
	LineValuePair    = "valuePair"
	LineExpression   = "expression"
	LineTags         = "tags"
	LineHistogramBar = "histogramBar"
	LineShell        = "shell"
	LineQuestion     = "question"
	LineError        = "error"
	LineHeader       = "header"
	LineChoice       = "choice"
)

// LineVariant is the closed set of line cases.
type LineVariant interface {
	Variant
	isLine()
}

// ValueLine shows a single atom.
type ValueLine struct {
	Atom            *Atom      `json:"atom,omitempty"`
	ClickExpression Expression `json:"clickExpression,omitempty"`
}

// ValuePairLine shows two atoms side by side, each independently clickable.
type ValuePairLine struct {
	First  *ClickableAtom `json:"first,omitempty"`
	Second *ClickableAtom `json:"second,omitempty"`
}

// ExpressionLine shows the source of the evaluated expression. It doubles as the
// drag handle of its stack.
type ExpressionLine struct {
	Expression string `json:"expression"`
}

// Tag is a key/value pair attached to a feature.
type Tag struct {
	Prefix          string     `json:"prefix,omitempty"`
	Key             string     `json:"key"`
	Value           string     `json:"value"`
	ClickExpression Expression `json:"clickExpression,omitempty"`
}

// TagsLine lists the tags of a feature.
type TagsLine struct {
	Tags []*Tag `json:"tags,omitempty"`
}

// HistogramBarLine is one bucket of a histogram.
type HistogramBarLine struct {
	Range *Atom `json:"range,omitempty"`
	Value int   `json:"value"`
	Total int   `json:"total"`
	Index int   `json:"index,omitempty"`
}

// Fraction returns Value/Total, or 0 for an empty histogram.
func (h *HistogramBarLine) Fraction() float64 {
	if h.Total <= 0 {
		return 0
	}
	return float64(h.Value) / float64(h.Total)
}

// ShellLine is an input box scoped to the response. Functions are the names that
// accept the response's value as their first argument.
type ShellLine struct {
	Functions []string `json:"functions,omitempty"`
}

// QuestionLine asks the user something.
type QuestionLine struct {
	Question string `json:"question"`
}

// ErrorLine reports an evaluation failure.
type ErrorLine struct {
	Error string `json:"error"`
}

// HeaderLine titles a stack, optionally with a close button.
type HeaderLine struct {
	Title *Atom `json:"title,omitempty"`
	Close bool  `json:"close,omitempty"`
}

// ChoiceLine offers a set of chips of which one is selected.
type ChoiceLine struct {
	Label    *Atom   `json:"label,omitempty"`
	Chips    []*Atom `json:"chips,omitempty"`
	Selected int     `json:"selected,omitempty"`
}

func (*ValueLine) Tag() string        { return LineValue }
func (*ValuePairLine) Tag() string    { return LineValuePair }
func (*ExpressionLine) Tag() string   { return LineExpression }
func (*TagsLine) Tag() string         { return LineTags }
func (*HistogramBarLine) Tag() string { return LineHistogramBar }
func (*ShellLine) Tag() string        { return LineShell }
func (*QuestionLine) Tag() string     { return LineQuestion }
func (*ErrorLine) Tag() string        { return LineError }
func (*HeaderLine) Tag() string       { return LineHeader }
func (*ChoiceLine) Tag() string       { return LineChoice }

func (*ValueLine) isLine()        {}
func (*ValuePairLine) isLine()    {}
func (*ExpressionLine) isLine()   {}
func (*TagsLine) isLine()         {}
func (*HistogramBarLine) isLine() {}
func (*ShellLine) isLine()        {}
func (*QuestionLine) isLine()     {}
func (*ErrorLine) isLine()        {}
func (*HeaderLine) isLine()       {}
func (*ChoiceLine) isLine()       {}

// Line is the wire shape of a line: exactly one field must be set.
type Line struct {
	Value        *ValueLine        `json:"value,omitempty"`
	ValuePair    *ValuePairLine    `json:"valuePair,omitempty"`
	Expression   *ExpressionLine   `json:"expression,omitempty"`
	Tags         *TagsLine         `json:"tags,omitempty"`
	HistogramBar *HistogramBarLine `json:"histogramBar,omitempty"`
	Shell        *ShellLine        `json:"shell,omitempty"`
	Question     *QuestionLine     `json:"question,omitempty"`
	Error        *ErrorLine        `json:"error,omitempty"`
	Header       *HeaderLine       `json:"header,omitempty"`
	Choice       *ChoiceLine       `json:"choice,omitempty"`
}

// Variant returns the single populated case.
func (l *Line) Variant() (LineVariant, error) {
	if l == nil {
		return nil, &ProtocolError{Kind: KindLine, Err: ErrProtocolViolation}
	}
	var found []LineVariant
	if l.Value != nil {
		found = append(found, l.Value)
	}
	if l.ValuePair != nil {
		found = append(found, l.ValuePair)
	}
	if l.Expression != nil {
		found = append(found, l.Expression)
	}
	if l.Tags != nil {
		found = append(found, l.Tags)
	}
	if l.HistogramBar != nil {
		found = append(found, l.HistogramBar)
	}
	if l.Shell != nil {
		found = append(found, l.Shell)
	}
	if l.Question != nil {
		found = append(found, l.Question)
	}
	if l.Error != nil {
		found = append(found, l.Error)
	}
	if l.Header != nil {
		found = append(found, l.Header)
	}
	if l.Choice != nil {
		found = append(found, l.Choice)
	}
	return only(KindLine, found)
}

// LineOf wraps a variant into its wire shape.
func LineOf(v LineVariant) *Line {
	switch v := v.(type) {
	case *ValueLine:
		return &Line{Value: v}
	case *ValuePairLine:
		return &Line{ValuePair: v}
	case *ExpressionLine:
		return &Line{Expression: v}
	case *TagsLine:
		return &Line{Tags: v}
	case *HistogramBarLine:
		return &Line{HistogramBar: v}
	case *ShellLine:
		return &Line{Shell: v}
	case *QuestionLine:
		return &Line{Question: v}
	case *ErrorLine:
		return &Line{Error: v}
	case *HeaderLine:
		return &Line{Header: v}
	case *ChoiceLine:
		return &Line{Choice: v}
	}
	return &Line{}
}
