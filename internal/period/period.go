// Package period defines the timeline's interval value type and the rules
// for merging intervals of the same kind.
package period

import (
	"fmt"
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
)

// IdleMergeGap is the largest gap across which two Idle periods coalesce.
// It absorbs sampler jitter and is independent of the idle timeout.
const IdleMergeGap = 500 * time.Millisecond

// Kind tells whether user input happened during a period.
type Kind uint8

const (
	Idle Kind = iota
	Active
)

// Tag returns the one-letter tag used by the durable store.
func (k Kind) Tag() byte {
	switch k {
	case Active:
		return 'A'
	case Idle:
		return 'I'
	default:
		return '?'
	}
}

func (k Kind) String() string {
	switch k {
	case Active:
		return "active"
	case Idle:
		return "idle"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps a stored tag back to a Kind.
func ParseKind(tag string) (Kind, error) {
	switch tag {
	case "A":
		return Active, nil
	case "I":
		return Idle, nil
	default:
		return Idle, errors.New().WithData(ErrUnknownKind, tag)
	}
}

// Period is an immutable [Start, End) interval tagged with a Kind.
type Period struct {
	Start time.Time
	End   time.Time
	Kind  Kind
}

// New returns a Period, rejecting spans that end before they start.
func New(start, end time.Time, kind Kind) (Period, error) {
	if end.Before(start) {
		return Period{}, errors.New().WithData(ErrInvalidSpan, struct {
			Start time.Time
			End   time.Time
		}{start, end})
	}

	return Period{Start: start, End: end, Kind: kind}, nil
}

// Duration returns End - Start.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Span returns the period's interval without its kind.
func (p Period) Span() Span {
	return Span{Start: p.Start, End: p.End}
}

// Equal reports whether both periods have the same start, end and kind.
func (p Period) Equal(o Period) bool {
	return p.Kind == o.Kind && p.Start.Equal(o.Start) && p.End.Equal(o.End)
}

// Compare orders periods by start, then end, then kind.
func (p Period) Compare(o Period) int {
	if c := p.Start.Compare(o.Start); c != 0 {
		return c
	}
	if c := p.End.Compare(o.End); c != 0 {
		return c
	}
	switch {
	case p.Kind < o.Kind:
		return -1
	case p.Kind > o.Kind:
		return 1
	default:
		return 0
	}
}

// Less reports whether p sorts before o.
func (p Period) Less(o Period) bool {
	return p.Compare(o) < 0
}

// Within reports whether p lies entirely inside s.
func (p Period) Within(s Span) bool {
	return !p.Start.Before(s.Start) && !p.End.After(s.End)
}

func (p Period) String() string {
	return fmt.Sprintf("%s[%s, %s)", p.Kind, p.Start.Format(time.RFC3339Nano), p.End.Format(time.RFC3339Nano))
}

// Gap returns the distance between two intervals. Overlapping or touching
// intervals have a gap of zero.
func Gap(a, b Period) time.Duration {
	switch {
	case a.End.Before(b.Start):
		return b.Start.Sub(a.End)
	case b.End.Before(a.Start):
		return a.Start.Sub(b.End)
	default:
		return 0
	}
}

// CanMerge reports whether a and b belong to the same continuous run.
// Active periods join across gaps up to idleTimeout; Idle periods only
// across IdleMergeGap.
func CanMerge(a, b Period, idleTimeout time.Duration) bool {
	if a.Kind != b.Kind {
		return false
	}

	gap := Gap(a, b)
	switch a.Kind {
	case Active:
		return gap <= idleTimeout
	case Idle:
		return gap <= IdleMergeGap
	default:
		return false
	}
}

// Merge returns the smallest period covering a and b, carrying a's kind.
func Merge(a, b Period) Period {
	start, end := a.Start, a.End
	if b.Start.Before(start) {
		start = b.Start
	}
	if b.End.After(end) {
		end = b.End
	}

	return Period{Start: start, End: end, Kind: a.Kind}
}
