package main

import (
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/remindr/internal/db"
	"github.com/dmitrymomot/remindr/internal/job"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply application and job queue migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, log, err := root.load()
			if err != nil {
				return err
			}

			pool, err := db.Connect(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.Migrate(ctx, pool, cfg.DB.MigrationsTable, log); err != nil {
				return err
			}
			return job.Migrate(ctx, pool, log)
		},
	}
}
