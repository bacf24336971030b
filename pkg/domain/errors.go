package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrProtocolViolation is returned when a tagged union has zero or several populated
// fields, or when a renderer receives a variant of the wrong type.
var ErrProtocolViolation = errors.New("protocol violation")

// ErrNoRenderer is returned when no renderer is registered for a kind and tag. It
// means the client and server disagree on the protocol version.
var ErrNoRenderer = errors.New("no renderer registered")

// ErrStaleBind is returned when a response arrives for a target that has since been
// rebound or removed.
var ErrStaleBind = errors.New("stale bind")

// ErrTargetNotFound is returned when an operation names an unknown rendering target.
var ErrTargetNotFound = errors.New("target not found")

// ErrBlobNotFound is returned when an export reference is unknown or was revoked.
var ErrBlobNotFound = errors.New("blob not found")

// ErrEvaluationRejected wraps failures reported by the evaluator.
var ErrEvaluationRejected = errors.New("evaluation rejected")

// ProtocolError describes a malformed or unrenderable item.
type ProtocolError struct {
	Kind      string   // "line" or "atom"
	Tag       string   // set when the variant was decoded but could not be rendered
	Populated []string // populated fields, when the union itself was malformed
	Err       error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Tag != "":
		return fmt.Sprintf("can't render %s of type %s: %v", e.Kind, e.Tag, e.Err)
	case len(e.Populated) == 0:
		return fmt.Sprintf("%s has no populated variant: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s has %d populated variants (%s): %v", e.Kind, len(e.Populated), strings.Join(e.Populated, ", "), e.Err)
	}
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
