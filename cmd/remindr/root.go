package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/remindr/internal/config"
	"github.com/dmitrymomot/remindr/internal/logger"
)

type rootOptions struct {
	envFiles []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "remindr",
		Short:         "Recurring subscriber email scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "dotenv files to load before reading the environment")

	cmd.AddCommand(
		newServeCmd(opts),
		newDispatchCmd(opts),
		newMigrateCmd(opts),
		newPreviewCmd(),
		newOccurrencesCmd(),
	)
	return cmd
}

// load reads the configuration and builds the logger from it.
func (o *rootOptions) load() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return config.Config{}, nil, err
	}
	log := logger.New(cfg.Log, logger.RunIDExtractor(), logger.RequestIDExtractor())
	return cfg, log, nil
}
