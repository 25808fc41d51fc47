// Package stats answers questions about the stored timeline. It only
// reads; the merge engine remains the store's sole writer.
package stats

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/store"
)

// Window is how far back the trailing reports look.
const Window = 24 * time.Hour

type Clock interface {
	Now() time.Time
}

type Reporter struct {
	reader store.Reader
	clock  Clock
	policy period.Policy
}

func New(reader store.Reader, clock Clock, policy period.Policy) *Reporter {
	return &Reporter{reader: reader, clock: clock, policy: policy}
}

// SetPolicy changes the idle timeout used to reinterpret short breaks.
func (r *Reporter) SetPolicy(policy period.Policy) {
	r.policy = policy
}

// recent returns the periods of the trailing window ordered by start.
func (r *Reporter) recent() ([]period.Period, error) {
	ps, err := r.reader.QueryAfter(r.clock.Now().Add(-Window))
	if err != nil {
		return nil, errors.New().Wrap(ErrQueryFailed, err)
	}
	return ps, nil
}

func (r *Reporter) shortIdle(p period.Period) bool {
	return p.Kind == period.Idle && p.Duration() <= r.policy.IdleTimeout
}

// TotalActiveTime sums the Active periods starting at or after
// windowStart. A trailing Idle period no longer than the idle timeout is
// counted too, since it does not end the session yet.
func (r *Reporter) TotalActiveTime(windowStart time.Time) (time.Duration, error) {
	ps, err := r.reader.QueryAfter(windowStart)
	if err != nil {
		return 0, errors.New().Wrap(ErrQueryFailed, err)
	}

	var total time.Duration
	for _, p := range ps {
		if p.Kind == period.Active && !p.Start.Before(windowStart) {
			total += p.Duration()
		}
	}

	recent, err := r.recent()
	if err != nil {
		return 0, err
	}
	if n := len(recent); n > 0 {
		latest := recent[n-1]
		if r.shortIdle(latest) && !latest.Start.Before(windowStart) {
			total += latest.Duration()
		}
	}

	return total, nil
}

// CurrentLogicalPeriod returns what the user is doing now. A short
// trailing Idle period is folded into the period before it.
func (r *Reporter) CurrentLogicalPeriod() (period.Period, error) {
	ps, err := r.recent()
	if err != nil {
		return period.Period{}, err
	}

	return r.currentLogical(ps), nil
}

func (r *Reporter) currentLogical(ps []period.Period) period.Period {
	n := len(ps)
	if n == 0 {
		now := r.clock.Now()
		return period.Period{Start: now, End: now, Kind: period.Idle}
	}

	latest := ps[n-1]
	if r.shortIdle(latest) && n > 1 {
		return period.Merge(ps[n-2], latest)
	}

	return latest
}

// LastBreakDuration returns the length of the ongoing break, or of the
// most recent one when the user is active.
func (r *Reporter) LastBreakDuration() (time.Duration, error) {
	ps, err := r.recent()
	if err != nil {
		return 0, err
	}

	if current := r.currentLogical(ps); current.Kind == period.Idle {
		return current.Duration(), nil
	}

	var actives []period.Period
	for _, p := range ps {
		if p.Kind == period.Active {
			actives = append(actives, p)
		}
	}

	switch n := len(actives); {
	case n >= 2:
		return actives[n-1].Start.Sub(actives[n-2].End), nil
	case n == 1:
		return actives[0].Start.Sub(ps[0].Start), nil
	default:
		return 0, nil
	}
}

// PeriodsForDay returns the periods starting on the calendar day of day,
// in day's location.
func (r *Reporter) PeriodsForDay(day time.Time) ([]period.Period, error) {
	span := period.Day(day)
	ps, err := r.reader.QueryRange(span)
	if err != nil {
		return nil, errors.New().Wrap(ErrQueryFailed, err)
	}

	out := ps[:0]
	for _, p := range ps {
		if span.Contains(p.Start) {
			out = append(out, p)
		}
	}

	return out, nil
}
