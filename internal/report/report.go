// Package report renders reporter output for the terminal.
package report

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/stats"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	idleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Status is a snapshot of the trailing window.
type Status struct {
	Now         time.Time
	Current     period.Period
	ActiveToday time.Duration
	LastBreak   time.Duration
}

func RenderStatus(s Status) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("idletrack") + "  " + timeStyle.Render(s.Now.Format("2006-01-02 15:04")) + "\n\n")
	since := s.Current.Start.In(s.Now.Location()).Format("15:04:05")
	row(&sb, "Status", kindBadge(s.Current.Kind)+" since "+timeStyle.Render(since)+
		dimStyle.Render(" ("+Duration(s.Now.Sub(s.Current.Start))+")"))
	row(&sb, "Active today", Duration(s.ActiveToday))
	row(&sb, "Last break", Duration(s.LastBreak))

	return sb.String()
}

func RenderDay(s stats.Summary) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("idletrack  "+s.Day.Start.Format("Monday 2006-01-02")) + "\n\n")

	if len(s.Periods) == 0 {
		sb.WriteString(dimStyle.Render("  (no periods recorded)") + "\n")
		return sb.String()
	}

	loc := s.Day.Start.Location()
	for _, p := range s.Periods {
		sb.WriteString(fmt.Sprintf("  %s %s %s  %s\n",
			timeStyle.Render(p.Start.In(loc).Format("15:04:05")),
			dimStyle.Render("→"),
			timeStyle.Render(p.End.In(loc).Format("15:04:05")),
			kindBadge(p.Kind)+dimStyle.Render(" "+Duration(p.Duration())),
		))
	}

	sb.WriteString("\n")
	row(&sb, "Active", Duration(s.Active))
	row(&sb, "Idle", Duration(s.Idle))
	row(&sb, "Sessions", fmt.Sprintf("%d (longest %s)", s.Sessions, Duration(s.LongestSession)))
	row(&sb, "Breaks", fmt.Sprintf("%d (longest %s)", s.Breaks, Duration(s.LongestBreak)))

	return sb.String()
}

func row(sb *strings.Builder, label, value string) {
	sb.WriteString(labelStyle.Render(fmt.Sprintf("  %-14s", label)) + "  " + value + "\n")
}

func kindBadge(k period.Kind) string {
	if k == period.Active {
		return activeStyle.Render("[active]")
	}
	return idleStyle.Render("[idle]")
}

// Duration formats d to the second, dropping leading zero units.
func Duration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}

	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
