package main

import (
	"time"

	"codeberg.org/mutker/idletrack/internal/errors"
	"codeberg.org/mutker/idletrack/internal/logger"
	"codeberg.org/mutker/idletrack/internal/period"
	"github.com/spf13/cobra"
)

// timeLayouts are tried in order for --from and --to. Layouts without a
// zone are read in local time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	dayLayout,
}

func parseTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, errors.New().Wrap(errors.ErrInvalidArgument, lastErr).WithData(s)
}

func newForgetCmd(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "forget --from TIME --to TIME",
		Short: "Delete every period overlapping a time range",
		Example: `  idletrack forget --from "2024-03-04 12:00" --to "2024-03-04 13:00"
  idletrack forget --from 2024-03-01 --to 2024-03-02`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := parseTime(from)
			if err != nil {
				return err
			}
			end, err := parseTime(to)
			if err != nil {
				return err
			}
			if !start.Before(end) {
				return errors.New().WithMessage(errors.ErrInvalidArgument, "--from must be before --to")
			}

			s, err := openStore(a.cfg, false)
			if err != nil {
				return err
			}
			defer closeStore(s)

			n, err := s.RemoveRange(period.Span{Start: start, End: end})
			if err != nil {
				return err
			}

			logger.Info().Time("from", start).Time("to", end).Int("removed", n).Msg("Periods forgotten")
			cmd.Printf("Removed %d period(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start of the range (required)")
	cmd.Flags().StringVar(&to, "to", "", "End of the range, exclusive (required)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}
