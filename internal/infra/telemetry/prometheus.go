package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"picgo-mcp/internal/domain"
)

type PrometheusMetrics struct {
	invocations     *prometheus.CounterVec
	forwardDuration *prometheus.HistogramVec
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		invocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "picgo_mcp_invocations_total",
				Help: "Total number of upload tool invocations by outcome",
			},
			[]string{"outcome"},
		),
		forwardDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "picgo_mcp_forward_duration_seconds",
				Help:    "Duration of upload requests forwarded to PicGo in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"outcome"},
		),
	}
}

func (p *PrometheusMetrics) ObserveInvocation(outcome domain.OutcomeKind) {
	p.invocations.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusMetrics) ObserveForward(outcome domain.OutcomeKind, duration time.Duration) {
	p.forwardDuration.WithLabelValues(string(outcome)).Observe(duration.Seconds())
}

var _ domain.Metrics = (*PrometheusMetrics)(nil)
