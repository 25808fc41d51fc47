// Package sampler turns periodic reads of the input probe into a sequence
// of Active and Idle periods.
package sampler

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/logger"
	"codeberg.org/mutker/idletrack/internal/period"
)

// Resolution is the granularity sampled period lengths are rounded to.
const Resolution = 100 * time.Millisecond

// Sampler measures the time between ticks and classifies it.
// It is not safe for concurrent use.
type Sampler struct {
	probe    Probe
	clock    Clock
	listener ActivityListener
	log      logger.Logger

	started    bool
	lastInput  uint64
	checkpoint time.Time
}

// New returns a Sampler that reports periods to listener.
func New(probe Probe, clock Clock, listener ActivityListener) *Sampler {
	return &Sampler{
		probe:    probe,
		clock:    clock,
		listener: listener,
		log:      logger.Component("sampler"),
	}
}

// Checkpoint returns the instant the next period will start at. It is the
// zero time before the first tick.
func (s *Sampler) Checkpoint() time.Time {
	return s.checkpoint
}

// Tick reads the probe and the clock. The first call only records a
// baseline; every later call emits exactly one period covering the time
// since the checkpoint, rounded to Resolution.
//
// A probe failure leaves the sampler untouched so the next tick measures
// the full span again. A listener failure does the same.
func (s *Sampler) Tick() error {
	errFactory := errors.New()

	input, err := s.probe.LastInputTick()
	if err != nil {
		return errFactory.Wrap(ErrProbeFailed, err)
	}
	now := s.clock.Now()

	if !s.started {
		s.started = true
		s.lastInput = input
		s.checkpoint = now
		s.log.Debug().Time("checkpoint", now).Msg("Sampler baseline recorded")

		return nil
	}

	elapsed := now.Sub(s.checkpoint)
	if elapsed < 0 {
		s.log.Warn().Dur("elapsed", elapsed).Msg("Clock moved backwards, clamping interval")
		elapsed = 0
	}
	length := elapsed.Round(Resolution)

	kind := period.Idle
	if input != s.lastInput {
		kind = period.Active
	}

	p := period.Period{Start: s.checkpoint, End: s.checkpoint.Add(length), Kind: kind}
	if err := s.listener.PeriodPassed(p); err != nil {
		return errFactory.Wrap(ErrListenerFailed, err)
	}

	s.checkpoint = p.End
	s.lastInput = input

	return nil
}
