package domain

import "time"

// Metrics records upload pipeline observations.
type Metrics interface {
	ObserveInvocation(outcome OutcomeKind)
	ObserveForward(outcome OutcomeKind, duration time.Duration)
}
