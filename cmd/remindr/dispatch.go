package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newDispatchCmd(root *rootOptions) *cobra.Command {
	var (
		at          string
		dryRun      bool
		failOnError bool
	)

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Run one dispatch batch and print the report as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}

			cfg, log, err := root.load()
			if err != nil {
				return err
			}

			svc, err := newServices(ctx, cfg, log, serviceOptions{dryRun: dryRun})
			if err != nil {
				return err
			}
			defer svc.Close()

			report, err := svc.runner.Run(ctx, now)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}

			if failOnError {
				return report.Err()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "run as if the current time were this RFC 3339 timestamp")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log emails instead of sending them and leave schedules untouched")
	cmd.Flags().BoolVar(&failOnError, "fail-on-error", false, "exit non-zero when any item failed")
	return cmd
}
