package main

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/period"
	"codeberg.org/mutker/idletrack/internal/store"
	"github.com/spf13/cobra"
)

// prune deletes periods that ended more than days before now. Zero days
// keeps everything.
func prune(s store.Store, now time.Time, days int) (int, error) {
	if days <= 0 {
		return 0, nil
	}

	cutoff := period.Day(now).Start.AddDate(0, 0, -days)
	return s.RemoveWithin(period.Span{Start: time.Time{}, End: cutoff})
}

func newPruneCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete periods older than the retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("days") {
				days = a.cfg.Store.RetentionDays
			}
			if days <= 0 {
				return errors.New().WithMessage(errors.ErrInvalidArgument,
					"no retention configured, set store.retention_days or pass --days")
			}

			s, err := openStore(a.cfg, false)
			if err != nil {
				return err
			}
			defer closeStore(s)

			n, err := prune(s, a.clock.Now(), days)
			if err != nil {
				return err
			}

			cmd.Printf("Removed %d period(s) older than %d day(s)\n", n, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Keep this many days instead of store.retention_days")

	return cmd
}
