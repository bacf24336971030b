package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/outliner/pkg/domain"
)

// result is a finished evaluation on its way back to the UI goroutine.
type result struct {
	target   string
	ticket   uint64
	response *domain.Response
}

// Submit evaluates req in the background and rebinds the named target with the
// result. Evaluation failures are rendered in place as an error line. It returns the
// ticket of the submission.
func (u *UI) Submit(name string, req domain.EvaluationRequest) uint64 {
	u.tickets++
	ticket := u.tickets
	if req.IsEmpty() {
		u.logger.Debug("empty evaluation request ignored", "target", name)
		return ticket
	}

	ctx := u.lifetime
	go func() {
		r, err := u.evaluator.Evaluate(ctx, req)
		if err != nil {
			if !errors.Is(err, domain.ErrEvaluationRejected) {
				err = fmt.Errorf("%w: %w", domain.ErrEvaluationRejected, err)
			}
			r = domain.ErrorResponse(err)
		}
		select {
		case u.results <- result{target: name, ticket: ticket, response: r}:
		case <-ctx.Done():
		}
	}()
	return ticket
}

// Evaluate submits a free-form expression into the featured stack.
func (u *UI) Evaluate(expression string) uint64 {
	return u.Submit(Featured, domain.EvaluationRequest{Expression: expression, Root: u.root})
}

// ClickMap evaluates the coordinate literal of a clicked map location.
func (u *UI) ClickMap(lat, lng float64) uint64 {
	return u.Evaluate(domain.LatLngLiteral(lat, lng))
}

// PickFeature evaluates the lookup of a feature picked on the map.
func (u *UI) PickFeature(id domain.FeatureID) uint64 {
	return u.Evaluate(domain.FindFeatureExpression(id))
}

// Await blocks until one evaluation finishes and applies it. Stale results are
// discarded and reported as domain.ErrStaleBind.
func (u *UI) Await(ctx context.Context) (*RenderedResponse, error) {
	if err := u.lifetime.Err(); err != nil {
		return nil, err
	}
	select {
	case res := <-u.results:
		return u.apply(ctx, res)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-u.lifetime.Done():
		return nil, u.lifetime.Err()
	}
}

// Run applies evaluation results until ctx is done.
func (u *UI) Run(ctx context.Context) error {
	for {
		_, err := u.Await(ctx)
		switch {
		case err == nil, errors.Is(err, domain.ErrStaleBind):
		case ctx.Err() != nil:
			return ctx.Err()
		case u.lifetime.Err() != nil:
			return nil
		default:
			u.logger.Warn("Response rendered with errors", "err", err)
		}
	}
}

// apply binds a result unless its target was removed or already holds a newer
// response.
func (u *UI) apply(ctx context.Context, res result) (*RenderedResponse, error) {
	t, ok := u.targets[res.target]
	if !ok && res.target == Featured {
		t, ok = u.featured(), true
		t.bound = 0
	}
	if !ok || res.ticket < t.bound {
		u.logger.Debug("stale response discarded", "target", res.target, "ticket", res.ticket)
		if u.hooks.OnStale != nil {
			u.hooks.OnStale(ctx, &domain.BindEvent{EventBase: domain.NewEventBase(domain.EventStale, res.target)})
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrStaleBind, res.target)
	}
	if t.name == Featured {
		return u.renderFeatured(ctx, res.response, res.ticket)
	}
	return u.bind(ctx, t, res.response, res.ticket)
}
