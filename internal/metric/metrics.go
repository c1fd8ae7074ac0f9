package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors. All components accept a
// nil *Metrics and skip instrumentation, so tests and the batch CLI can run
// without a registry.
type Metrics struct {
	registry *prometheus.Registry

	ValidationsTotal   *prometheus.CounterVec
	ValidationDuration prometheus.Histogram
	RuleDuration       *prometheus.HistogramVec
	RuleFailures       *prometheus.CounterVec
	DegradedTotal      prometheus.Counter
	ActiveRules        prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "defvalidator",
				Subsystem: "engine",
				Name:      "validations_total",
				Help:      "Total validations by terminal state (completed, degraded)",
			},
			[]string{"state"},
		),

		ValidationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "defvalidator",
				Subsystem: "engine",
				Name:      "validation_duration_seconds",
				Help:      "Wall-clock duration of a full validation",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),

		RuleDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "defvalidator",
				Subsystem: "rules",
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of a single rule evaluation",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
			},
			[]string{"rule", "tier"},
		),

		RuleFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "defvalidator",
				Subsystem: "rules",
				Name:      "failures_total",
				Help:      "Isolated rule failures by rule and synthetic code",
			},
			[]string{"rule", "code"},
		),

		DegradedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "defvalidator",
				Subsystem: "engine",
				Name:      "degraded_results_total",
				Help:      "Validations that returned a degraded result",
			},
		),

		ActiveRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "defvalidator",
				Subsystem: "rules",
				Name:      "active",
				Help:      "Number of rules in the active rule set",
			},
		),
	}

	m.registry.MustRegister(
		m.ValidationsTotal,
		m.ValidationDuration,
		m.RuleDuration,
		m.RuleFailures,
		m.DegradedTotal,
		m.ActiveRules,
	)

	return m
}

// Handler serves the metrics endpoint for this registry only.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
