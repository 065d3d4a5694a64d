package telemetry

import (
	"time"

	"picgo-mcp/internal/domain"
)

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveInvocation(_ domain.OutcomeKind) {}

func (n *NoopMetrics) ObserveForward(_ domain.OutcomeKind, _ time.Duration) {}

var _ domain.Metrics = (*NoopMetrics)(nil)
