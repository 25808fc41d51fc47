package timeline

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/period"
)

// BreakListener is told when the user comes back after being away for at
// least the idle timeout.
type BreakListener interface {
	NotifyActiveAfterBreak(gap time.Duration)
}

// BreakListenerFunc adapts a function to BreakListener.
type BreakListenerFunc func(gap time.Duration)

func (f BreakListenerFunc) NotifyActiveAfterBreak(gap time.Duration) {
	f(gap)
}

// Observer sees the stored outcome of every period the engine accepts.
type Observer interface {
	PeriodStored(stored period.Period, merged bool)
}

// Option configures an Engine.
type Option func(*Engine)

// WithBreakListener registers l for return-from-break notifications.
func WithBreakListener(l BreakListener) Option {
	return func(e *Engine) {
		e.breaks = l
	}
}

// WithObserver registers o for stored-period outcomes.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}
