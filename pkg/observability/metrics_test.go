package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/outliner/pkg/domain"
	"github.com/aretw0/outliner/pkg/observability"
)

func TestMetrics_Hooks(t *testing.T) {
	ctx := context.Background()
	m := observability.NewMetrics()
	h := m.Hooks()

	h.OnBind(ctx, &domain.BindEvent{EventBase: domain.NewEventBase(domain.EventBind, "dock-0")})
	h.OnBind(ctx, &domain.BindEvent{EventBase: domain.NewEventBase(domain.EventBind, "dock-1")})
	h.OnEnter(ctx, &domain.RenderEvent{Kind: domain.KindLine, StyleClass: "line-value"})
	h.OnRenderFail(ctx, &domain.RenderEvent{Kind: domain.KindAtom})
	h.OnRedraw(ctx, &domain.RedrawEvent{Highlighted: 3, Layers: 2})

	expected := `
# HELP outliner_binds_total Responses bound to a target
# TYPE outliner_binds_total counter
outliner_binds_total{target="dock"} 2
# HELP outliner_highlighted_features Distinct features currently highlighted
# TYPE outliner_highlighted_features gauge
outliner_highlighted_features 3
`
	err := testutil.GatherAndCompare(m.Registry(), bytes.NewBufferString(expected),
		"outliner_binds_total", "outliner_highlighted_features")
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "outliner_enters_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "outliner_render_failures_total"))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnRedraw(context.Background(), &domain.RedrawEvent{Highlighted: 1})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "outliner_highlight_redraws_total 1")
}

func TestTargetClass(t *testing.T) {
	assert.Equal(t, "featured", observability.TargetClass("featured"))
	assert.Equal(t, "stack", observability.TargetClass("stack-12"))
	assert.Equal(t, "dock", observability.TargetClass("dock-0"))
}

func TestChain(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m := observability.NewMetrics()

	var seen int
	counting := domain.LifecycleHooks{OnStale: func(context.Context, *domain.BindEvent) { seen++ }}
	h := observability.Chain(observability.LogHooks(logger), m.Hooks(), counting)

	h.OnStale(context.Background(), &domain.BindEvent{EventBase: domain.NewEventBase(domain.EventStale, "featured")})

	assert.Equal(t, 1, seen)
	assert.Contains(t, buf.String(), "response_stale")
	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "outliner_stale_results_total"))
}
