package sampler_test

import (
	"fmt"
	"testing"
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var t0 = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

type fakeProbe struct {
	value uint64
	err   error
}

func (p *fakeProbe) LastInputTick() (uint64, error) {
	return p.value, p.err
}

type recorder struct {
	periods []period.Period
	err     error
}

func (r *recorder) PeriodPassed(p period.Period) error {
	if r.err != nil {
		return r.err
	}
	r.periods = append(r.periods, p)
	return nil
}

func newSampler() (*sampler.Sampler, *fakeProbe, *sampler.ManualClock, *recorder) {
	probe := &fakeProbe{}
	clock := sampler.NewManualClock(t0)
	rec := &recorder{}
	return sampler.New(probe, clock, rec), probe, clock, rec
}

func TestFirstTickEmitsNothing(t *testing.T) {
	s, _, _, rec := newSampler()

	require.NoError(t, s.Tick())
	assert.Empty(t, rec.periods)
	assert.Equal(t, t0, s.Checkpoint())
}

func TestTickRoundsElapsedTime(t *testing.T) {
	s, _, clock, rec := newSampler()
	require.NoError(t, s.Tick())

	clock.Advance(1051 * time.Millisecond)
	require.NoError(t, s.Tick())

	clock.Advance(1049 * time.Millisecond)
	require.NoError(t, s.Tick())

	require.Len(t, rec.periods, 2)
	assert.Equal(t, 1100*time.Millisecond, rec.periods[0].Duration())
	assert.Equal(t, t0, rec.periods[0].Start)
	assert.Equal(t, 1000*time.Millisecond, rec.periods[1].Duration())
	assert.Equal(t, rec.periods[0].End, rec.periods[1].Start)
	assert.Equal(t, t0.Add(2100*time.Millisecond), s.Checkpoint())
}

func TestTickClassifiesByProbeChange(t *testing.T) {
	s, probe, clock, rec := newSampler()
	require.NoError(t, s.Tick())

	clock.Advance(time.Second)
	require.NoError(t, s.Tick())

	probe.value = 7
	clock.Advance(time.Second)
	require.NoError(t, s.Tick())

	clock.Advance(time.Second)
	require.NoError(t, s.Tick())

	require.Len(t, rec.periods, 3)
	assert.Equal(t, period.Idle, rec.periods[0].Kind)
	assert.Equal(t, period.Active, rec.periods[1].Kind)
	assert.Equal(t, period.Idle, rec.periods[2].Kind)
}

func TestProbeErrorLeavesStateUntouched(t *testing.T) {
	s, probe, clock, rec := newSampler()
	require.NoError(t, s.Tick())

	probe.err = fmt.Errorf("platform call failed")
	clock.Advance(time.Second)
	err := s.Tick()
	require.Error(t, err)
	assert.True(t, sampler.IsProbeError(err))
	assert.Empty(t, rec.periods)
	assert.Equal(t, t0, s.Checkpoint())

	probe.err = nil
	clock.Advance(time.Second)
	require.NoError(t, s.Tick())
	require.Len(t, rec.periods, 1)
	assert.Equal(t, 2*time.Second, rec.periods[0].Duration())
}

func TestProbeErrorOnFirstTick(t *testing.T) {
	s, probe, _, rec := newSampler()
	probe.err = fmt.Errorf("no display")

	assert.True(t, sampler.IsProbeError(s.Tick()))
	assert.True(t, s.Checkpoint().IsZero())
	assert.Empty(t, rec.periods)
}

func TestListenerErrorDoesNotAdvance(t *testing.T) {
	s, _, clock, rec := newSampler()
	require.NoError(t, s.Tick())

	rec.err = fmt.Errorf("disk full")
	clock.Advance(time.Second)
	err := s.Tick()
	assert.True(t, errors.HasCode(err, sampler.ErrListenerFailed))
	assert.Equal(t, t0, s.Checkpoint())

	rec.err = nil
	clock.Advance(time.Second)
	require.NoError(t, s.Tick())
	require.Len(t, rec.periods, 1)
	assert.Equal(t, t0, rec.periods[0].Start)
	assert.Equal(t, 2*time.Second, rec.periods[0].Duration())
}

func TestBackwardsClockEmitsZeroLengthPeriod(t *testing.T) {
	s, _, clock, rec := newSampler()
	require.NoError(t, s.Tick())

	clock.Advance(-3 * time.Second)
	require.NoError(t, s.Tick())

	require.Len(t, rec.periods, 1)
	assert.Zero(t, rec.periods[0].Duration())
	assert.Equal(t, t0, s.Checkpoint())
}

func TestPeriodsAreContiguous(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s, probe, clock, rec := newSampler()
		if err := s.Tick(); err != nil {
			t.Fatalf("first tick: %v", err)
		}

		var elapsed time.Duration
		n := rapid.IntRange(1, 50).Draw(t, "ticks")
		for i := 0; i < n; i++ {
			step := time.Duration(rapid.Int64Range(0, 3000).Draw(t, "step_ms")) * time.Millisecond
			elapsed += step
			clock.Advance(step)
			probe.value = rapid.Uint64Range(0, 2).Draw(t, "input")
			if err := s.Tick(); err != nil {
				t.Fatalf("tick: %v", err)
			}
		}

		if len(rec.periods) != n {
			t.Fatalf("got %d periods, want %d", len(rec.periods), n)
		}
		for i := 1; i < n; i++ {
			if !rec.periods[i].Start.Equal(rec.periods[i-1].End) {
				t.Fatalf("gap between period %d and %d", i-1, i)
			}
		}
		// Rounding error never accumulates beyond half a resolution step.
		drift := s.Checkpoint().Sub(t0) - elapsed
		if drift < -sampler.Resolution/2 || drift > sampler.Resolution/2 {
			t.Fatalf("checkpoint drifted by %v", drift)
		}
	})
}
