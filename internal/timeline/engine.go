// Package timeline keeps the stored timeline compact by merging each new
// period with the stored periods it belongs with.
package timeline

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/logger"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/store"
)

// Engine is the only writer of its store. It is not safe for concurrent
// use; the daemon loop drives it from a single goroutine.
type Engine struct {
	store    store.Store
	policy   period.Policy
	breaks   BreakListener
	observer Observer
	log      logger.Logger
}

// New returns an engine writing to s under policy.
func New(s store.Store, policy period.Policy, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		policy: policy,
		log:    logger.Component("timeline"),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Policy returns the policy currently applied.
func (e *Engine) Policy() period.Policy {
	return e.policy
}

// SetPolicy replaces the policy used for later periods. Stored periods are
// left as they are.
func (e *Engine) SetPolicy(policy period.Policy) error {
	if policy.IdleTimeout <= 0 {
		return errors.New().WithData(ErrInvalidPolicy, policy.IdleTimeout)
	}

	e.log.Info().
		Dur("old_idle_timeout", e.policy.IdleTimeout).
		Dur("new_idle_timeout", policy.IdleTimeout).
		Msg("Merge policy updated")
	e.policy = policy

	return nil
}

// PeriodPassed lets the engine listen to a sampler directly.
func (e *Engine) PeriodPassed(p period.Period) error {
	_, err := e.AddPeriod(p)
	return err
}

// AddPeriod stores p, merging it with every stored period of the same kind
// it can merge with. Periods lying inside the merged span are absorbed,
// whatever their kind. It returns the stored period now representing p.
//
// On error the store is left as it was.
func (e *Engine) AddPeriod(p period.Period) (period.Period, error) {
	errFactory := errors.New()

	// Include periods ending exactly at the window edge.
	lower := p.Start.Add(-e.policy.MergeWindow()).Add(-time.Nanosecond)
	candidates, err := e.store.QueryAfter(lower)
	if err != nil {
		return period.Period{}, errFactory.Wrap(ErrStoreFailed, err)
	}

	merged, ok := e.mergeCandidates(p, candidates)
	if !ok && contains(candidates, p) {
		return p, nil
	}
	if ok {
		if err := e.store.Replace(merged.Span(), merged); err != nil {
			return period.Period{}, errFactory.Wrap(ErrStoreFailed, err)
		}

		e.log.Debug().
			Stringer("period", p).
			Stringer("merged", merged).
			Msg("Period merged")
		e.observe(merged, true)

		return merged, nil
	}

	if err := e.store.Add(p); err != nil {
		return period.Period{}, errFactory.Wrap(ErrStoreFailed, err)
	}

	e.log.Debug().Stringer("period", p).Msg("Period added")
	e.observe(p, false)

	if p.Kind == period.Active {
		e.notifyIfReturning(p)
	}

	return p, nil
}

// mergeCandidates folds every candidate that can merge into p, repeating
// until nothing more joins, so merging across one neighbour never leaves
// another mergeable neighbour behind.
func (e *Engine) mergeCandidates(p period.Period, candidates []period.Period) (period.Period, bool) {
	merged := p
	joined := false
	used := make([]bool, len(candidates))

	for changed := true; changed; {
		changed = false
		for i, c := range candidates {
			if used[i] || c.Equal(p) {
				continue
			}
			if period.CanMerge(c, merged, e.policy.IdleTimeout) {
				merged = period.Merge(c, merged)
				used[i] = true
				joined, changed = true, true
			}
		}
	}

	return merged, joined
}

func contains(ps []period.Period, p period.Period) bool {
	for _, q := range ps {
		if q.Equal(p) {
			return true
		}
	}
	return false
}

func (e *Engine) observe(p period.Period, merged bool) {
	if e.observer != nil {
		e.observer.PeriodStored(p, merged)
	}
}

// notifyIfReturning fires the break listener when anything ended at least
// one idle timeout before p started. The reported gap runs from the end of
// the latest earlier Active period, or from the start of the oldest
// stored period when there is none.
func (e *Engine) notifyIfReturning(p period.Period) {
	if e.breaks == nil {
		return
	}

	if _, ok, err := e.store.QueryLastBefore(p.Start.Add(-e.policy.IdleTimeout)); err != nil || !ok {
		if err != nil {
			e.log.Warn().Err(err).Msg("Failed to look up break before period")
		}
		return
	}

	gap, err := e.breakBefore(p)
	if err != nil {
		e.log.Warn().Err(err).Msg("Failed to measure break before period")
		return
	}

	e.log.Info().Dur("gap", gap).Msg("Activity resumed after break")
	e.breaks.NotifyActiveAfterBreak(gap)
}

func (e *Engine) breakBefore(p period.Period) (time.Duration, error) {
	cursor := p.Start
	oldest := p.Start

	for {
		q, ok, err := e.store.QueryLastBefore(cursor)
		if err != nil {
			return 0, err
		}
		if !ok {
			return p.Start.Sub(oldest), nil
		}
		if q.Kind == period.Active && !q.Equal(p) {
			return p.Start.Sub(q.End), nil
		}

		if q.Start.Before(oldest) {
			oldest = q.Start
		}
		if q.Start.Before(cursor) {
			cursor = q.Start
		} else {
			cursor = cursor.Add(-time.Nanosecond)
		}
	}
}
