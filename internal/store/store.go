// Package store defines the period store used by the merge engine and the
// stats reporter. Backends live in the memory and sqlite subpackages.
package store

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/period"
)

// Reader is the read-only view of the timeline. Results are ordered by
// start time.
type Reader interface {
	// QueryRange returns periods overlapping span.
	QueryRange(span period.Span) ([]period.Period, error)
	// QueryAfter returns periods ending strictly after t.
	QueryAfter(t time.Time) ([]period.Period, error)
	// QueryLastBefore returns the period with the latest end at or before t.
	QueryLastBefore(t time.Time) (period.Period, bool, error)
}

// Store is a timeline backend. An exact duplicate of a stored period is
// stored once. Implementations are not safe for concurrent use; the merge
// engine serializes access.
type Store interface {
	Reader

	Add(p period.Period) error
	Remove(p period.Period) error
	// RemoveRange deletes every period overlapping span.
	RemoveRange(span period.Span) (int, error)
	// RemoveWithin deletes every period lying entirely inside span.
	RemoveWithin(span period.Span) (int, error)
	// Replace deletes every period within span and adds p, as one step:
	// either both happen or neither does.
	Replace(span period.Span, p period.Period) error
	// Reset deletes every period.
	Reset() error
	Close() error
}
