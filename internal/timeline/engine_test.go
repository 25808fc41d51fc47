package timeline_test

import (
	stderrors "errors"
	"testing"
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/store/memory"
	"codeberg.org/mutker/idletrack/internal/store/storetest"
	"codeberg.org/mutker/idletrack/internal/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const sec = time.Second

var (
	P  = storetest.P
	at = storetest.At
)

func policy(idle time.Duration) period.Policy {
	return period.Policy{IdleTimeout: idle}
}

func stored(t *testing.T, s *memory.Store) []period.Period {
	t.Helper()
	ps, err := s.QueryAfter(at(-48 * time.Hour))
	require.NoError(t, err)
	return ps
}

func addAll(t *testing.T, e *timeline.Engine, ps ...period.Period) {
	t.Helper()
	for _, p := range ps {
		_, err := e.AddPeriod(p)
		require.NoError(t, err)
	}
}

func TestAddPeriodScenarios(t *testing.T) {
	tests := []struct {
		name string
		add  []period.Period
		want []period.Period
	}{
		{
			name: "adjacent active periods merge",
			add:  []period.Period{P(0, sec, period.Active), P(sec, 2*sec, period.Active)},
			want: []period.Period{P(0, 2*sec, period.Active)},
		},
		{
			name: "short idle between active periods is absorbed",
			add: []period.Period{
				P(0, sec, period.Active),
				P(sec, 2*sec, period.Idle),
				P(2*sec, 3*sec, period.Active),
			},
			want: []period.Period{P(0, 3*sec, period.Active)},
		},
		{
			name: "alternating kinds stay separate",
			add: []period.Period{
				P(0, sec, period.Idle),
				P(sec, 2*sec, period.Active),
				P(2*sec, 3*sec, period.Idle),
			},
			want: []period.Period{
				P(0, sec, period.Idle),
				P(sec, 2*sec, period.Active),
				P(2*sec, 3*sec, period.Idle),
			},
		},
		{
			name: "active periods further apart than the timeout stay separate",
			add:  []period.Period{P(0, sec, period.Active), P(7*sec, 8*sec, period.Active)},
			want: []period.Period{P(0, sec, period.Active), P(7*sec, 8*sec, period.Active)},
		},
		{
			name: "active gap equal to the timeout merges",
			add:  []period.Period{P(0, sec, period.Active), P(6*sec, 7*sec, period.Active)},
			want: []period.Period{P(0, 7*sec, period.Active)},
		},
		{
			name: "idle periods coalesce only across small gaps",
			add: []period.Period{
				P(0, sec, period.Idle),
				P(sec+500*time.Millisecond, 2*sec, period.Idle),
				P(3*sec, 4*sec, period.Idle),
			},
			want: []period.Period{P(0, 2*sec, period.Idle), P(3*sec, 4*sec, period.Idle)},
		},
		{
			name: "merging one neighbour pulls in the next",
			add: []period.Period{
				P(0, sec, period.Active),
				P(7*sec, 8*sec, period.Active),
				P(3*sec, 4*sec, period.Active),
			},
			want: []period.Period{P(0, 8*sec, period.Active)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := memory.New()
			e := timeline.New(s, policy(5*sec))

			addAll(t, e, tt.add...)

			storetest.RequirePeriods(t, tt.want, stored(t, s))
		})
	}
}

func TestAddPeriodReturnsRepresentative(t *testing.T) {
	s := memory.New()
	e := timeline.New(s, policy(5*sec))

	got, err := e.AddPeriod(P(0, sec, period.Active))
	require.NoError(t, err)
	assert.True(t, got.Equal(P(0, sec, period.Active)))

	got, err = e.AddPeriod(P(2*sec, 3*sec, period.Active))
	require.NoError(t, err)
	assert.True(t, got.Equal(P(0, 3*sec, period.Active)), "got %v", got)
}

func TestAddPeriodIsIdempotent(t *testing.T) {
	s := memory.New()
	e := timeline.New(s, policy(5*sec))
	p := P(0, sec, period.Idle)

	addAll(t, e, p, p)

	storetest.RequirePeriods(t, []period.Period{p}, stored(t, s))
}

func TestBreakNotification(t *testing.T) {
	tests := []struct {
		name string
		add  []period.Period
		want []time.Duration
	}{
		{
			name: "return after a long break",
			add: []period.Period{
				P(0, sec, period.Active),
				P(sec, 10*sec, period.Idle),
				P(10*sec, 11*sec, period.Active),
				P(11*sec, 12*sec, period.Active),
			},
			want: []time.Duration{9 * sec},
		},
		{
			name: "short break is merged away",
			add: []period.Period{
				P(0, sec, period.Active),
				P(sec, 3*sec, period.Idle),
				P(3*sec, 4*sec, period.Active),
			},
		},
		{
			name: "first activity ever",
			add:  []period.Period{P(0, sec, period.Active)},
		},
		{
			name: "first activity after several idle runs",
			add: []period.Period{
				P(0, 2*sec, period.Idle),
				P(3*sec, 8*sec, period.Idle),
				P(8*sec, 9*sec, period.Active),
			},
			want: []time.Duration{8 * sec},
		},
		{
			name: "idle insertions never notify",
			add: []period.Period{
				P(0, sec, period.Active),
				P(sec, 20*sec, period.Idle),
				P(21*sec, 30*sec, period.Idle),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []time.Duration
			e := timeline.New(memory.New(), policy(5*sec),
				timeline.WithBreakListener(timeline.BreakListenerFunc(func(gap time.Duration) {
					got = append(got, gap)
				})))

			addAll(t, e, tt.add...)

			assert.Equal(t, tt.want, got)
		})
	}
}

type recorder struct {
	added, merged int
}

func (r *recorder) PeriodStored(_ period.Period, merged bool) {
	if merged {
		r.merged++
	} else {
		r.added++
	}
}

func TestObserverSeesOutcomes(t *testing.T) {
	rec := &recorder{}
	e := timeline.New(memory.New(), policy(5*sec), timeline.WithObserver(rec))

	addAll(t, e,
		P(0, sec, period.Active),
		P(sec, 2*sec, period.Active),
		P(2*sec, 3*sec, period.Idle),
	)

	assert.Equal(t, 2, rec.added)
	assert.Equal(t, 1, rec.merged)
}

type failingStore struct {
	*memory.Store
	failAdd, failReplace, failQuery bool
}

var errDisk = stderrors.New("disk on fire")

func (f *failingStore) Add(p period.Period) error {
	if f.failAdd {
		return errDisk
	}
	return f.Store.Add(p)
}

func (f *failingStore) Replace(span period.Span, p period.Period) error {
	if f.failReplace {
		return errDisk
	}
	return f.Store.Replace(span, p)
}

func (f *failingStore) QueryAfter(t time.Time) ([]period.Period, error) {
	if f.failQuery {
		return nil, errDisk
	}
	return f.Store.QueryAfter(t)
}

func TestStoreFailureLeavesStoreUnchanged(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*failingStore)
		add   period.Period
	}{
		{"add fails", func(f *failingStore) { f.failAdd = true }, P(20*sec, 21*sec, period.Active)},
		{"replace fails", func(f *failingStore) { f.failReplace = true }, P(2*sec, 3*sec, period.Active)},
		{"query fails", func(f *failingStore) { f.failQuery = true }, P(2*sec, 3*sec, period.Active)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memory.New()
			fs := &failingStore{Store: mem}
			e := timeline.New(fs, policy(5*sec))
			addAll(t, e, P(0, sec, period.Active), P(sec, 2*sec, period.Idle))
			before := stored(t, mem)

			tt.setup(fs)
			_, err := e.AddPeriod(tt.add)

			require.Error(t, err)
			assert.True(t, errors.HasCode(err, timeline.ErrStoreFailed))
			assert.ErrorIs(t, err, errDisk)
			storetest.RequirePeriods(t, before, stored(t, mem))
		})
	}
}

func TestSetPolicy(t *testing.T) {
	s := memory.New()
	e := timeline.New(s, policy(5*sec))

	err := e.SetPolicy(policy(0))
	assert.True(t, errors.HasCode(err, timeline.ErrInvalidPolicy))
	assert.Equal(t, 5*sec, e.Policy().IdleTimeout)

	require.NoError(t, e.SetPolicy(policy(time.Minute)))
	addAll(t, e, P(0, sec, period.Active), P(30*sec, 31*sec, period.Active))

	storetest.RequirePeriods(t, []period.Period{P(0, 31*sec, period.Active)}, stored(t, s))
}

func TestPeriodPassedAddsPeriod(t *testing.T) {
	s := memory.New()
	e := timeline.New(s, policy(5*sec))

	require.NoError(t, e.PeriodPassed(P(0, sec, period.Idle)))

	assert.Equal(t, 1, s.Len())
}

// Periods that pairwise satisfy CanMerge collapse into one period covering
// all of them, whatever order they arrive in.
func TestMergeableSequenceConverges(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idle := time.Duration(rapid.IntRange(1, 60_000).Draw(t, "idleTimeoutMs")) * time.Millisecond
		kind := period.Kind(rapid.IntRange(0, 1).Draw(t, "kind"))

		spread := idle
		if kind == period.Idle {
			spread = period.IdleMergeGap
		}

		n := rapid.IntRange(1, 20).Draw(t, "n")
		ps := make([]period.Period, n)
		for i := range ps {
			start := time.Duration(rapid.Int64Range(0, int64(spread/time.Millisecond)).Draw(t, "startMs")) * time.Millisecond
			length := time.Duration(rapid.Int64Range(0, 120_000).Draw(t, "lengthMs")) * time.Millisecond
			ps[i] = P(start, start+length, kind)
		}

		s := memory.New()
		e := timeline.New(s, policy(idle))
		lo, hi := ps[0].Start, ps[0].End
		for _, p := range ps {
			if _, err := e.AddPeriod(p); err != nil {
				t.Fatal(err)
			}
			if p.Start.Before(lo) {
				lo = p.Start
			}
			if p.End.After(hi) {
				hi = p.End
			}
		}

		got, err := s.QueryAfter(at(-time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		want := period.Period{Start: lo, End: hi, Kind: kind}
		if len(got) != 1 || !got[0].Equal(want) {
			t.Fatalf("got %v, want [%v]", got, want)
		}
	})
}

// No two stored periods of the same kind are left mergeable, however the
// sampler-style contiguous stream is classified.
func TestStreamLeavesNoMergeablePair(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		idle := time.Duration(rapid.IntRange(1, 10).Draw(t, "idleTimeoutSec")) * sec
		s := memory.New()
		e := timeline.New(s, policy(idle))

		cursor := time.Duration(0)
		n := rapid.IntRange(1, 60).Draw(t, "n")
		for i := 0; i < n; i++ {
			length := time.Duration(rapid.IntRange(0, 30).Draw(t, "tenths")) * 100 * time.Millisecond
			kind := period.Kind(rapid.IntRange(0, 1).Draw(t, "kind"))
			if _, err := e.AddPeriod(P(cursor, cursor+length, kind)); err != nil {
				t.Fatal(err)
			}
			cursor += length
		}

		got, err := s.QueryAfter(at(-time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		for i := range got {
			for j := i + 1; j < len(got); j++ {
				if period.CanMerge(got[i], got[j], idle) {
					t.Fatalf("%v and %v are still mergeable in %v", got[i], got[j], got)
				}
			}
		}
	})
}
