package sampler

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/period"
)

// Clock provides the current time. It is an interface so tests can drive
// the sampler deterministically.
type Clock interface {
	Now() time.Time
}

// Probe reads an opaque token that changes whenever the user provides input.
type Probe interface {
	LastInputTick() (uint64, error)
}

// ActivityListener receives every period the sampler measures.
type ActivityListener interface {
	PeriodPassed(p period.Period) error
}

// ListenerFunc adapts a function to ActivityListener.
type ListenerFunc func(p period.Period) error

func (f ListenerFunc) PeriodPassed(p period.Period) error {
	return f(p)
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func() (uint64, error)

func (f ProbeFunc) LastInputTick() (uint64, error) {
	return f()
}
