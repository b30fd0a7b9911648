package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/remindr/internal/model"
	"github.com/dmitrymomot/remindr/internal/occurrence"
)

func newOccurrencesCmd() *cobra.Command {
	var (
		monthly  int
		interval int
		from     string
		count    int
		tz       string
	)

	cmd := &cobra.Command{
		Use:   "occurrences",
		Short: "List upcoming send dates for a monthly or interval rule",
		Example: `  remindr occurrences --monthly 31 --from 2026-01-31 -n 4
  remindr occurrences --interval 14 -n 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rule occurrence.Rule
			switch {
			case monthly > 0 && interval > 0:
				return errors.New("use either --monthly or --interval")
			case monthly > 0:
				rule = occurrence.Monthly(monthly)
			case interval > 0:
				rule = occurrence.Interval(interval)
			default:
				return errors.New("one of --monthly or --interval is required")
			}

			if count < 1 {
				return errors.New("--count must be at least 1")
			}

			loc, err := time.LoadLocation(tz)
			if err != nil {
				return err
			}

			start := time.Now().In(loc)
			var dates []time.Time
			if from != "" {
				// An explicit start is a past send: list what follows it.
				start, err = time.ParseInLocation(time.DateOnly, from, loc)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				dates, err = occurrence.Upcoming(rule, start, count)
			} else {
				var first time.Time
				first, err = occurrence.First(rule, start)
				if err == nil {
					dates, err = occurrence.Upcoming(rule, first, count-1)
					dates = append([]time.Time{first}, dates...)
				}
			}
			if err != nil {
				return err
			}

			for _, d := range dates {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", d.Format(time.DateOnly), model.FormatDate(d))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&monthly, "monthly", 0, "day of month (1-31), clamped to short months")
	cmd.Flags().IntVar(&interval, "interval", 0, "interval in days")
	cmd.Flags().StringVar(&from, "from", "", "last send date (YYYY-MM-DD); defaults to a new schedule created today")
	cmd.Flags().IntVarP(&count, "count", "n", 5, "number of dates to list")
	cmd.Flags().StringVar(&tz, "timezone", "UTC", "IANA time zone")
	return cmd
}
