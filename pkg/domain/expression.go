package domain

import (
	"bytes"
	"fmt"
	"strconv"
)

// Expression is an opaque expression node produced by the server. The client never
// inspects it; activating an element sends it back verbatim for evaluation.
type Expression []byte

func (e Expression) MarshalJSON() ([]byte, error) {
	if len(e) == 0 {
		return []byte("null"), nil
	}
	return e, nil
}

func (e *Expression) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*e = nil
		return nil
	}
	*e = append((*e)[:0], b...)
	return nil
}

// IsZero reports whether the expression is absent.
func (e Expression) IsZero() bool {
	return len(e) == 0 || bytes.Equal(e, []byte("null"))
}

// Equal compares two expressions byte for byte.
func (e Expression) Equal(o Expression) bool {
	return bytes.Equal(e, o)
}

// EvaluationRequest asks the server to evaluate either a free-form expression, an
// opaque node, or an expression applied to a node (the node is the left hand side).
type EvaluationRequest struct {
	Node       Expression `json:"node,omitempty"`
	Expression string     `json:"expression,omitempty"`
	Root       *FeatureID `json:"root,omitempty"`
}

// IsEmpty reports whether there is nothing to evaluate.
func (r EvaluationRequest) IsEmpty() bool {
	return r.Node.IsZero() && r.Expression == ""
}

// FindFeatureExpression returns the expression that looks up a feature by id, as
// issued when a feature is picked on the map.
func FindFeatureExpression(id FeatureID) string {
	return "find-feature " + string(id.Key())
}

// LatLngLiteral formats a coordinate as an expression literal, as issued when the map
// itself is clicked.
func LatLngLiteral(lat, lng float64) string {
	return fmt.Sprintf("%s, %s", strconv.FormatFloat(lat, 'g', 8, 64), strconv.FormatFloat(lng, 'g', 8, 64))
}
