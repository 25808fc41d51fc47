package memory_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/store"
	"codeberg.org/mutker/idletrack/internal/store/memory"
	"codeberg.org/mutker/idletrack/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s := memory.New()
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestClosedStoreRejectsCalls(t *testing.T) {
	s := memory.New()
	require.NoError(t, s.Add(storetest.P(0, time.Second, period.Active)))
	require.NoError(t, s.Close())

	err := s.Add(storetest.P(0, time.Second, period.Active))
	assert.True(t, errors.HasCode(err, store.ErrClosed))

	_, err = s.QueryAfter(storetest.Base)
	assert.True(t, errors.HasCode(err, store.ErrClosed))
}

// QueryRange and QueryLastBefore must agree with a linear scan whatever
// mix of short and long periods is stored.
func TestQueriesMatchLinearScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := memory.New()
		var stored []period.Period

		n := rapid.IntRange(0, 30).Draw(t, "n")
		for i := 0; i < n; i++ {
			start := rapid.IntRange(0, 1000).Draw(t, "start")
			length := rapid.IntRange(0, 300).Draw(t, "length")
			kind := period.Kind(rapid.IntRange(0, 1).Draw(t, "kind"))
			p := storetest.P(time.Duration(start)*time.Second, time.Duration(start+length)*time.Second, kind)
			if err := s.Add(p); err != nil {
				t.Fatal(err)
			}
			dup := false
			for _, q := range stored {
				dup = dup || q.Equal(p)
			}
			if !dup {
				stored = append(stored, p)
			}
		}

		from := rapid.IntRange(0, 1300).Draw(t, "from")
		width := rapid.IntRange(1, 300).Draw(t, "width")
		span := period.Span{
			Start: storetest.At(time.Duration(from) * time.Second),
			End:   storetest.At(time.Duration(from+width) * time.Second),
		}

		got, err := s.QueryRange(span)
		if err != nil {
			t.Fatal(err)
		}
		want := 0
		for _, p := range stored {
			if span.Overlaps(p) {
				want++
			}
		}
		if len(got) != want {
			t.Fatalf("QueryRange(%v) returned %d periods, want %d", span, len(got), want)
		}

		last, ok, err := s.QueryLastBefore(span.Start)
		if err != nil {
			t.Fatal(err)
		}
		var latest time.Time
		found := false
		for _, p := range stored {
			if !p.End.After(span.Start) && (!found || p.End.After(latest)) {
				latest, found = p.End, true
			}
		}
		if ok != found || (found && !last.End.Equal(latest)) {
			t.Fatalf("QueryLastBefore(%v) = %v, %v; want end %v, %v", span.Start, last, ok, latest, found)
		}
	})
}
