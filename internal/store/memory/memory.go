// Package memory implements an in-process period store on an ordered
// B-tree keyed by (start, end, kind).
package memory

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/store"
	"github.com/google/btree"
)

const degree = 32

// Store keeps periods in memory. The zero value is not usable; call New.
type Store struct {
	tree *btree.BTreeG[period.Period]
	// maxLen bounds the length of any stored period, so scans for periods
	// reaching past an instant can start maxLen before it.
	maxLen time.Duration
	closed bool
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{tree: newTree()}
}

func newTree() *btree.BTreeG[period.Period] {
	return btree.NewG(degree, func(a, b period.Period) bool { return a.Less(b) })
}

func (s *Store) check() error {
	if s.closed {
		return errors.New().New(store.ErrClosed)
	}
	return nil
}

func (s *Store) Add(p period.Period) error {
	if err := s.check(); err != nil {
		return err
	}

	s.tree.ReplaceOrInsert(p)
	s.maxLen = max(s.maxLen, p.Duration())

	return nil
}

func (s *Store) Remove(p period.Period) error {
	if err := s.check(); err != nil {
		return err
	}

	s.tree.Delete(p)

	return nil
}

func (s *Store) RemoveRange(span period.Span) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	return s.deleteAll(s.collect(span.Start, span.End, span.Overlaps)), nil
}

func (s *Store) RemoveWithin(span period.Span) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	return s.deleteAll(s.within(span)), nil
}

func (s *Store) Replace(span period.Span, p period.Period) error {
	if err := s.check(); err != nil {
		return err
	}

	s.deleteAll(s.within(span))
	s.tree.ReplaceOrInsert(p)
	s.maxLen = max(s.maxLen, p.Duration())

	return nil
}

func (s *Store) QueryRange(span period.Span) ([]period.Period, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	return s.collect(span.Start, span.End, span.Overlaps), nil
}

func (s *Store) QueryAfter(t time.Time) ([]period.Period, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	var out []period.Period
	s.tree.AscendGreaterOrEqual(pivot(t.Add(-s.maxLen)), func(p period.Period) bool {
		if p.End.After(t) {
			out = append(out, p)
		}
		return true
	})

	return out, nil
}

func (s *Store) QueryLastBefore(t time.Time) (period.Period, bool, error) {
	if err := s.check(); err != nil {
		return period.Period{}, false, err
	}

	var (
		best  period.Period
		found bool
	)
	s.tree.DescendLessOrEqual(pivotAfter(t), func(p period.Period) bool {
		if found && p.Start.Add(s.maxLen).Before(best.End) {
			// Nothing starting this early can end later than best.
			return false
		}
		if p.End.After(t) {
			return true
		}
		if !found || p.End.After(best.End) || (p.End.Equal(best.End) && best.Less(p)) {
			best, found = p, true
		}
		return true
	})

	return best, found, nil
}

func (s *Store) Reset() error {
	if err := s.check(); err != nil {
		return err
	}

	s.tree.Clear(false)
	s.maxLen = 0

	return nil
}

func (s *Store) Close() error {
	s.closed = true
	s.tree = newTree()

	return nil
}

// Len returns the number of stored periods.
func (s *Store) Len() int {
	return s.tree.Len()
}

// collect returns periods starting before end that satisfy keep, scanning
// from the earliest start that could still reach from.
func (s *Store) collect(from, end time.Time, keep func(period.Period) bool) []period.Period {
	var out []period.Period
	s.tree.AscendRange(pivot(from.Add(-s.maxLen)), pivot(end), func(p period.Period) bool {
		if keep(p) {
			out = append(out, p)
		}
		return true
	})
	return out
}

func (s *Store) within(span period.Span) []period.Period {
	var out []period.Period
	s.tree.AscendGreaterOrEqual(pivot(span.Start), func(p period.Period) bool {
		if p.Start.After(span.End) {
			return false
		}
		if p.Within(span) {
			out = append(out, p)
		}
		return true
	})

	return out
}

func (s *Store) deleteAll(ps []period.Period) int {
	for _, p := range ps {
		s.tree.Delete(p)
	}

	return len(ps)
}

// pivot sorts before every period starting at t.
func pivot(t time.Time) period.Period {
	return period.Period{Start: t, End: time.Time{}, Kind: period.Idle}
}

// pivotAfter sorts after every period starting at or before t.
func pivotAfter(t time.Time) period.Period {
	return period.Period{Start: t.Add(1), End: time.Time{}, Kind: period.Idle}
}
