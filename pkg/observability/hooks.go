package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/outliner/pkg/domain"
)

// LogHooks returns lifecycle hooks writing one record per event. Binds and
// removals are logged at debug, failures at warn.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBind: func(ctx context.Context, e *domain.BindEvent) {
			logger.DebugContext(ctx, "response_bind", "target", e.Target, "highlights", e.Highlights, "layers", e.Layers, "export", e.Export)
		},
		OnRemove: func(ctx context.Context, e *domain.BindEvent) {
			logger.DebugContext(ctx, "response_remove", "target", e.Target, "highlights", e.Highlights, "layers", e.Layers)
		},
		OnStale: func(ctx context.Context, e *domain.BindEvent) {
			logger.DebugContext(ctx, "response_stale", "target", e.Target)
		},
		OnRenderFail: func(ctx context.Context, e *domain.RenderEvent) {
			logger.WarnContext(ctx, "render_fail", "target", e.Target, "kind", e.Kind, "err", e.Err)
		},
		OnRedraw: func(ctx context.Context, e *domain.RedrawEvent) {
			logger.DebugContext(ctx, "highlight_redraw", "highlighted", e.Highlighted, "layers", e.Layers)
		},
	}
}

// Chain combines hooks so that each event reaches every set, in order.
func Chain(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		out.OnBind = chain(out.OnBind, h.OnBind)
		out.OnRemove = chain(out.OnRemove, h.OnRemove)
		out.OnStale = chain(out.OnStale, h.OnStale)
		out.OnEnter = chain(out.OnEnter, h.OnEnter)
		out.OnRenderFail = chain(out.OnRenderFail, h.OnRenderFail)
		out.OnRedraw = chain(out.OnRedraw, h.OnRedraw)
	}
	return out
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
