package observability

import (
	"context"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/outliner/pkg/domain"
)

const namespace = "outliner"

// Metrics records rendering activity.
type Metrics struct {
	registry *prometheus.Registry

	binds          *prometheus.CounterVec
	removes        *prometheus.CounterVec
	stale          *prometheus.CounterVec
	enters         *prometheus.CounterVec
	renderFailures *prometheus.CounterVec
	redraws        prometheus.Counter
	highlighted    prometheus.Gauge
	layers         prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		binds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "binds_total",
			Help:      "Responses bound to a target",
		}, []string{"target"}),
		removes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removes_total",
			Help:      "Responses removed from a target",
		}, []string{"target"}),
		stale: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Evaluation results discarded because their target moved on",
		}, []string{"target"}),
		enters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enters_total",
			Help:      "Containers rebuilt for a renderer",
		}, []string{"kind", "style_class"}),
		renderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_failures_total",
			Help:      "Items that could not be rendered",
		}, []string{"kind"}),
		redraws: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "highlight_redraws_total",
			Help:      "Batched highlight redraws",
		}),
		highlighted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "highlighted_features",
			Help:      "Distinct features currently highlighted",
		}),
		layers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_layers",
			Help:      "Map layers owned by live responses at the last redraw",
		}),
	}
	m.registry.MustRegister(
		m.binds, m.removes, m.stale, m.enters, m.renderFailures,
		m.redraws, m.highlighted, m.layers,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBind: func(_ context.Context, e *domain.BindEvent) {
			m.binds.WithLabelValues(TargetClass(e.Target)).Inc()
		},
		OnRemove: func(_ context.Context, e *domain.BindEvent) {
			m.removes.WithLabelValues(TargetClass(e.Target)).Inc()
		},
		OnStale: func(_ context.Context, e *domain.BindEvent) {
			m.stale.WithLabelValues(TargetClass(e.Target)).Inc()
		},
		OnEnter: func(_ context.Context, e *domain.RenderEvent) {
			m.enters.WithLabelValues(e.Kind, e.StyleClass).Inc()
		},
		OnRenderFail: func(_ context.Context, e *domain.RenderEvent) {
			m.renderFailures.WithLabelValues(e.Kind).Inc()
		},
		OnRedraw: func(_ context.Context, e *domain.RedrawEvent) {
			m.redraws.Inc()
			m.highlighted.Set(float64(e.Highlighted))
			m.layers.Set(float64(e.Layers))
		},
	}
}

// TargetClass collapses a target name to a bounded label value: "dock-3" and
// "stack-12" become "dock" and "stack".
func TargetClass(target string) string {
	if i := strings.LastIndexByte(target, '-'); i > 0 {
		return target[:i]
	}
	return target
}
