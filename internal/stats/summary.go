package stats

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/period"
)

// Summary condenses one calendar day. Idle periods no longer than the idle
// timeout inside a session count as active time.
type Summary struct {
	Day            period.Span
	Active         time.Duration
	Idle           time.Duration
	Sessions       int
	LongestSession time.Duration
	Breaks         int
	LongestBreak   time.Duration
	Periods        []period.Period
}

func (r *Reporter) DailySummary(day time.Time) (Summary, error) {
	ps, err := r.PeriodsForDay(day)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Day: period.Day(day), Periods: ps}

	// A run is a stretch of Active and short Idle periods; it only becomes
	// a session once it contains activity.
	var (
		run        []period.Period
		runsActive bool
	)
	flush := func() {
		if runsActive {
			s.Sessions++
			var length time.Duration
			for _, p := range run {
				length += p.Duration()
			}
			s.Active += length
			s.LongestSession = max(s.LongestSession, length)
		} else {
			for _, p := range run {
				s.Idle += p.Duration()
			}
		}
		run, runsActive = run[:0], false
	}

	for _, p := range ps {
		switch {
		case p.Kind == period.Active:
			run = append(run, p)
			runsActive = true
		case r.shortIdle(p):
			run = append(run, p)
		default:
			flush()
			s.Breaks++
			s.Idle += p.Duration()
			s.LongestBreak = max(s.LongestBreak, p.Duration())
		}
	}
	flush()

	return s, nil
}
