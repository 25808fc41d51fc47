package telemetry

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/period"
)

// noopCollector is used when telemetry is disabled.
type noopCollector struct{}

func (noopCollector) PeriodStored(period.Period, bool) {}
func (noopCollector) NotifyActiveAfterBreak(time.Duration) {}
func (noopCollector) ProbeFailed() {}
func (noopCollector) StoreFailed() {}
func (noopCollector) Snapshot(time.Duration, period.Kind) {}
func (noopCollector) Close() error { return nil }
