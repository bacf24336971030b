package domain

// Kinds of tagged union in the protocol.
const (
	KindLine = "line"
	KindAtom = "atom"
)

// Atom variant tags.
const (
	AtomValue        = "value"
	AtomLabelledIcon = "labelledIcon"
	AtomDownload     = "download"
)

// Variant is one decoded case of a tagged union.
type Variant interface {
	// Tag is the wire name of the populated field.
	Tag() string
}

// AtomVariant is the closed set of atom cases: ValueAtom, *LabelledIcon, DownloadAtom.
type AtomVariant interface {
	Variant
	isAtom()
}

// ValueAtom is plain text.
type ValueAtom string

// DownloadAtom is a link to the response's exported GeoJSON, labelled with the text.
type DownloadAtom string

// LabelledIcon is an icon name with a text label.
type LabelledIcon struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

func (ValueAtom) Tag() string     { return AtomValue }
func (*LabelledIcon) Tag() string { return AtomLabelledIcon }
func (DownloadAtom) Tag() string  { return AtomDownload }

func (ValueAtom) isAtom()     {}
func (*LabelledIcon) isAtom() {}
func (DownloadAtom) isAtom()  {}

// Atom is the wire shape of an atom: exactly one field must be set.
type Atom struct {
	Value        *string       `json:"value,omitempty"`
	LabelledIcon *LabelledIcon `json:"labelledIcon,omitempty"`
	Download     *string       `json:"download,omitempty"`
}

// Variant returns the single populated case.
func (a *Atom) Variant() (AtomVariant, error) {
	if a == nil {
		return nil, &ProtocolError{Kind: KindAtom, Err: ErrProtocolViolation}
	}
	var found []AtomVariant
	if a.Value != nil {
		found = append(found, ValueAtom(*a.Value))
	}
	if a.LabelledIcon != nil {
		found = append(found, a.LabelledIcon)
	}
	if a.Download != nil {
		found = append(found, DownloadAtom(*a.Download))
	}
	return only(KindAtom, found)
}

// AtomOf wraps a variant into its wire shape.
func AtomOf(v AtomVariant) *Atom {
	switch v := v.(type) {
	case ValueAtom:
		s := string(v)
		return &Atom{Value: &s}
	case *LabelledIcon:
		return &Atom{LabelledIcon: v}
	case DownloadAtom:
		s := string(v)
		return &Atom{Download: &s}
	}
	return &Atom{}
}

// TextAtom is shorthand for a value atom.
func TextAtom(s string) *Atom {
	return AtomOf(ValueAtom(s))
}

// ClickableAtom is an atom that evaluates ClickExpression when activated.
type ClickableAtom struct {
	Atom            *Atom      `json:"atom,omitempty"`
	ClickExpression Expression `json:"clickExpression,omitempty"`
}

func only[V Variant](kind string, found []V) (V, error) {
	var zero V
	if len(found) == 1 {
		return found[0], nil
	}
	tags := make([]string, len(found))
	for i, v := range found {
		tags[i] = v.Tag()
	}
	return zero, &ProtocolError{Kind: kind, Populated: tags, Err: ErrProtocolViolation}
}
