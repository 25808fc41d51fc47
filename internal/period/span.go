package period

import "time"

// Span is a half-open time range [Start, End).
type Span struct {
	Start time.Time
	End   time.Time
}

// Day returns the span covering the calendar day of t in t's location.
func Day(t time.Time) Span {
	y, m, d := t.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, t.Location())

	return Span{Start: start, End: start.AddDate(0, 0, 1)}
}

// Overlaps reports whether p shares any instant with s. A zero-length
// period overlaps when its instant falls inside s.
func (s Span) Overlaps(p Period) bool {
	if p.Start.Equal(p.End) {
		return !p.Start.Before(s.Start) && p.Start.Before(s.End)
	}

	return p.Start.Before(s.End) && p.End.After(s.Start)
}

// Contains reports whether t falls inside s.
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Duration returns End - Start.
func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
