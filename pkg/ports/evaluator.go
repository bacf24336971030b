package ports

import (
	"context"

	"github.com/aretw0/outliner/pkg/domain"
)

// Evaluator evaluates expressions on the server.
type Evaluator interface {
	// Evaluate returns the response tree for the request. Failures reported by the
	// server wrap domain.ErrEvaluationRejected.
	Evaluate(ctx context.Context, req domain.EvaluationRequest) (*domain.Response, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(ctx context.Context, req domain.EvaluationRequest) (*domain.Response, error)

func (f EvaluatorFunc) Evaluate(ctx context.Context, req domain.EvaluationRequest) (*domain.Response, error) {
	return f(ctx, req)
}
