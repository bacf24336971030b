// Package memory provides in-memory implementations of the ports, for tests,
// demos and the offline CLI.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/outliner/pkg/domain"
)

// Evaluator answers expressions from a fixed table of responses.
// Safe for concurrent use.
type Evaluator struct {
	mu          sync.RWMutex
	expressions map[string]*domain.Response
	nodes       map[string]*domain.Response
	requests    []domain.EvaluationRequest
}

// NewEvaluator creates an evaluator knowing no expressions.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		expressions: make(map[string]*domain.Response),
		nodes:       make(map[string]*domain.Response),
	}
}

// Handle answers a free-form expression with r.
func (e *Evaluator) Handle(expression string, r *domain.Response) *Evaluator {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.expressions[expression] = r
	return e
}

// HandleNode answers an expression node, sent on click, with r.
func (e *Evaluator) HandleNode(node domain.Expression, r *domain.Response) *Evaluator {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nodes[string(node)] = r
	return e
}

// Evaluate looks the request up: the expression text first, then the node.
func (e *Evaluator) Evaluate(ctx context.Context, req domain.EvaluationRequest) (*domain.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.requests = append(e.requests, req)

	if req.Expression != "" {
		if r, ok := e.expressions[req.Expression]; ok {
			return r, nil
		}
		return nil, fmt.Errorf("%w: unknown expression %q", domain.ErrEvaluationRejected, req.Expression)
	}
	if r, ok := e.nodes[string(req.Node)]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: unknown node %s", domain.ErrEvaluationRejected, req.Node)
}

// Requests returns the requests received so far.
func (e *Evaluator) Requests() []domain.EvaluationRequest {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]domain.EvaluationRequest(nil), e.requests...)
}
