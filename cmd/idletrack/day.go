package main

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/report"
	"codeberg.org/mutker/idletrack/internal/stats"
	"github.com/spf13/cobra"
)

const dayLayout = "2006-01-02"

func newDayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "day [YYYY-MM-DD]",
		Short:   "Show the periods and summary of one day",
		Example: "  idletrack day\n  idletrack day 2024-03-04",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := a.clock.Now()
			if len(args) == 1 {
				parsed, err := time.ParseInLocation(dayLayout, args[0], time.Local)
				if err != nil {
					return errors.New().Wrap(errors.ErrInvalidArgument, err).WithData(args[0])
				}
				day = parsed
			}

			s, err := openStore(a.cfg, true)
			if err != nil {
				return err
			}
			defer closeStore(s)

			summary, err := stats.New(s, a.clock, a.cfg.MergePolicy()).DailySummary(day)
			if err != nil {
				return err
			}

			cmd.Print(report.RenderDay(summary))
			return nil
		},
	}
}
