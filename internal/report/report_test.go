package report_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/report"
	"codeberg.org/mutker/idletrack/internal/stats"
	"codeberg.org/mutker/idletrack/internal/store/storetest"
	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{-time.Second, "0s"},
		{1400 * time.Millisecond, "1s"},
		{90 * time.Second, "1m 30s"},
		{2*time.Hour + 5*time.Minute + 59*time.Second, "2h 05m"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, report.Duration(tt.in), "Duration(%v)", tt.in)
	}
}

func TestRenderStatus(t *testing.T) {
	out := report.RenderStatus(report.Status{
		Now:         storetest.At(10 * time.Minute),
		Current:     storetest.P(0, 10*time.Minute, period.Active),
		ActiveToday: 3 * time.Hour,
		LastBreak:   12 * time.Minute,
	})

	assert.Contains(t, out, "[active]")
	assert.Contains(t, out, "09:00:00")
	assert.Contains(t, out, "3h 00m")
	assert.Contains(t, out, "12m 00s")
}

func TestRenderDay(t *testing.T) {
	m := time.Minute
	out := report.RenderDay(stats.Summary{
		Day: period.Day(storetest.Base),
		Periods: []period.Period{
			storetest.P(0, 60*m, period.Active),
			storetest.P(60*m, 90*m, period.Idle),
		},
		Active:         60 * m,
		Idle:           30 * m,
		Sessions:       1,
		LongestSession: 60 * m,
		Breaks:         1,
		LongestBreak:   30 * m,
	})

	assert.Contains(t, out, "2024-03-04")
	assert.Contains(t, out, "[idle]")
	assert.Contains(t, out, "10:30:00")
	assert.Contains(t, out, "1 (longest 1h 00m)")
}

func TestRenderEmptyDay(t *testing.T) {
	out := report.RenderDay(stats.Summary{Day: period.Day(storetest.Base)})

	assert.Contains(t, out, "no periods recorded")
}
