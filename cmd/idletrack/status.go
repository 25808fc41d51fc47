package main

import (
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/report"
	"codeberg.org/mutker/idletrack/internal/stats"
	"github.com/spf13/cobra"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current status, active time today and the last break",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openStore(a.cfg, true)
			if err != nil {
				return err
			}
			defer closeStore(s)

			r := stats.New(s, a.clock, a.cfg.MergePolicy())
			now := a.clock.Now()

			current, err := r.CurrentLogicalPeriod()
			if err != nil {
				return err
			}
			active, err := r.TotalActiveTime(period.Day(now).Start)
			if err != nil {
				return err
			}
			lastBreak, err := r.LastBreakDuration()
			if err != nil {
				return err
			}

			cmd.Print(report.RenderStatus(report.Status{
				Now:         now,
				Current:     current,
				ActiveToday: active,
				LastBreak:   lastBreak,
			}))
			return nil
		},
	}
}
