package telemetry

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/period"
)

// Collector records what the daemon does. Every method is cheap and safe
// to call from the daemon loop while the metrics server reads.
type Collector interface {
	// PeriodStored counts a period accepted by the merge engine.
	PeriodStored(stored period.Period, merged bool)
	// NotifyActiveAfterBreak counts a return from a break.
	NotifyActiveAfterBreak(gap time.Duration)
	ProbeFailed()
	StoreFailed()
	// Snapshot publishes the latest reporter values.
	Snapshot(activeToday time.Duration, current period.Kind)
	Close() error
}
