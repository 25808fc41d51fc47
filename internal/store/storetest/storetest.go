// Package storetest holds the behaviour every store.Store backend must
// share. Backend packages run it from their own tests.
package storetest

import (
	"testing"
	"time"

	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It should register its own cleanup.
type Factory func(t *testing.T) store.Store

// Base is the reference instant used by the suite.
var Base = time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

// At returns Base plus offset.
func At(offset time.Duration) time.Time {
	return Base.Add(offset)
}

// P builds a period from offsets relative to Base.
func P(start, end time.Duration, kind period.Kind) period.Period {
	return period.Period{Start: At(start), End: At(end), Kind: kind}
}

// RequirePeriods compares periods by instant, ignoring location.
func RequirePeriods(t *testing.T, want, got []period.Period) {
	t.Helper()
	require.Len(t, got, len(want), "got %v", got)
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "index %d: want %v, got %v", i, want[i], got[i])
	}
}

func add(t *testing.T, s store.Store, ps ...period.Period) {
	t.Helper()
	for _, p := range ps {
		require.NoError(t, s.Add(p))
	}
}

func all(t *testing.T, s store.Store) []period.Period {
	t.Helper()
	ps, err := s.QueryRange(period.Span{Start: At(-24 * time.Hour), End: At(24 * time.Hour)})
	require.NoError(t, err)
	return ps
}

// Run executes the conformance suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	sec := time.Second

	t.Run("QueryRangeOrdersByStart", func(t *testing.T) {
		s := newStore(t)
		add(t, s,
			P(10*sec, 20*sec, period.Active),
			P(0, 5*sec, period.Idle),
			P(5*sec, 10*sec, period.Active),
		)

		RequirePeriods(t, []period.Period{
			P(0, 5*sec, period.Idle),
			P(5*sec, 10*sec, period.Active),
			P(10*sec, 20*sec, period.Active),
		}, all(t, s))
	})

	t.Run("ExactDuplicateStoredOnce", func(t *testing.T) {
		s := newStore(t)
		add(t, s, P(0, sec, period.Active), P(0, sec, period.Active))

		assert.Len(t, all(t, s), 1)
	})

	t.Run("SameSpanDifferentKind", func(t *testing.T) {
		s := newStore(t)
		add(t, s, P(0, sec, period.Active), P(0, sec, period.Idle))

		RequirePeriods(t, []period.Period{
			P(0, sec, period.Idle),
			P(0, sec, period.Active),
		}, all(t, s))
	})

	t.Run("QueryRangeIsHalfOpen", func(t *testing.T) {
		s := newStore(t)
		add(t, s,
			P(0, 10*sec, period.Active),
			P(10*sec, 20*sec, period.Idle),
			P(20*sec, 30*sec, period.Active),
			P(15*sec, 15*sec, period.Active),
		)

		got, err := s.QueryRange(period.Span{Start: At(10 * sec), End: At(20 * sec)})
		require.NoError(t, err)
		RequirePeriods(t, []period.Period{
			P(10*sec, 20*sec, period.Idle),
			P(15*sec, 15*sec, period.Active),
		}, got)
	})

	t.Run("QueryRangeFindsLongPeriodStartingEarly", func(t *testing.T) {
		s := newStore(t)
		add(t, s, P(-2*time.Hour, 2*time.Hour, period.Active), P(3*time.Hour, 4*time.Hour, period.Idle))

		got, err := s.QueryRange(period.Span{Start: At(time.Hour), End: At(time.Hour + sec)})
		require.NoError(t, err)
		RequirePeriods(t, []period.Period{P(-2*time.Hour, 2*time.Hour, period.Active)}, got)
	})

	t.Run("QueryAfterIsStrict", func(t *testing.T) {
		s := newStore(t)
		add(t, s,
			P(0, 10*sec, period.Active),
			P(5*sec, 11*sec, period.Idle),
			P(12*sec, 13*sec, period.Active),
		)

		got, err := s.QueryAfter(At(10 * sec))
		require.NoError(t, err)
		RequirePeriods(t, []period.Period{
			P(5*sec, 11*sec, period.Idle),
			P(12*sec, 13*sec, period.Active),
		}, got)
	})

	t.Run("QueryLastBefore", func(t *testing.T) {
		s := newStore(t)

		_, ok, err := s.QueryLastBefore(At(0))
		require.NoError(t, err)
		assert.False(t, ok, "empty store")

		add(t, s,
			P(0, 10*sec, period.Active),
			P(10*sec, 20*sec, period.Idle),
			P(15*sec, 30*sec, period.Active),
		)

		got, ok, err := s.QueryLastBefore(At(20 * sec))
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Equal(P(10*sec, 20*sec, period.Idle)), "got %v", got)

		got, ok, err = s.QueryLastBefore(At(19 * sec))
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Equal(P(0, 10*sec, period.Active)), "got %v", got)

		_, ok, err = s.QueryLastBefore(At(9 * sec))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("QueryLastBeforeSeesLongPeriod", func(t *testing.T) {
		s := newStore(t)
		add(t, s,
			P(0, time.Hour, period.Active),
			P(10*sec, 20*sec, period.Idle),
		)

		got, ok, err := s.QueryLastBefore(At(2 * time.Hour))
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Equal(P(0, time.Hour, period.Active)), "got %v", got)
	})

	t.Run("RemoveIsExact", func(t *testing.T) {
		s := newStore(t)
		add(t, s, P(0, sec, period.Active), P(0, sec, period.Idle))

		require.NoError(t, s.Remove(P(0, sec, period.Active)))
		require.NoError(t, s.Remove(P(0, 2*sec, period.Idle)))

		RequirePeriods(t, []period.Period{P(0, sec, period.Idle)}, all(t, s))
	})

	t.Run("RemoveRangeDeletesOverlapping", func(t *testing.T) {
		s := newStore(t)
		add(t, s,
			P(0, 10*sec, period.Active),
			P(10*sec, 20*sec, period.Idle),
			P(20*sec, 30*sec, period.Active),
		)

		n, err := s.RemoveRange(period.Span{Start: At(5 * sec), End: At(20 * sec)})
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		RequirePeriods(t, []period.Period{P(20*sec, 30*sec, period.Active)}, all(t, s))
	})

	t.Run("RemoveWithinKeepsPartialOverlaps", func(t *testing.T) {
		s := newStore(t)
		add(t, s,
			P(0, 10*sec, period.Active),
			P(10*sec, 20*sec, period.Idle),
			P(20*sec, 30*sec, period.Active),
		)

		n, err := s.RemoveWithin(period.Span{Start: At(5 * sec), End: At(20 * sec)})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		RequirePeriods(t, []period.Period{
			P(0, 10*sec, period.Active),
			P(20*sec, 30*sec, period.Active),
		}, all(t, s))
	})

	t.Run("Replace", func(t *testing.T) {
		s := newStore(t)
		add(t, s,
			P(0, 10*sec, period.Active),
			P(12*sec, 20*sec, period.Active),
			P(40*sec, 50*sec, period.Active),
		)

		merged := P(0, 20*sec, period.Active)
		require.NoError(t, s.Replace(merged.Span(), merged))

		RequirePeriods(t, []period.Period{
			merged,
			P(40*sec, 50*sec, period.Active),
		}, all(t, s))
	})

	t.Run("Reset", func(t *testing.T) {
		s := newStore(t)
		add(t, s, P(0, sec, period.Active), P(sec, 2*sec, period.Idle))

		require.NoError(t, s.Reset())
		assert.Empty(t, all(t, s))
	})

	t.Run("PreservesNanoseconds", func(t *testing.T) {
		s := newStore(t)
		p := P(123456789, 987654321, period.Active)
		add(t, s, p)

		RequirePeriods(t, []period.Period{p}, all(t, s))
	})
}
