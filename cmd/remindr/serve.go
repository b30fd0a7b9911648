package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/remindr/internal/config"
	"github.com/dmitrymomot/remindr/internal/httpapi"
	"github.com/dmitrymomot/remindr/internal/job"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the periodic dispatch job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, log, err := root.load()
			if err != nil {
				return err
			}

			svc, err := newServices(ctx, cfg, log, serviceOptions{})
			if err != nil {
				return err
			}
			defer svc.Close()

			checks := svc.checks()

			var jobs *job.Manager
			if !cfg.Dispatch.Disabled {
				jobs, err = job.NewManager(svc.pool, svc.runner, jobOptions(cfg.Dispatch, log)...)
				if err != nil {
					return err
				}
				checks["jobs"] = job.Healthcheck(jobs)
			}

			server := httpapi.New(svc.runner, svc.mailer,
				httpapi.WithLogger(log),
				httpapi.WithCronSecret(cfg.HTTP.CronSecret),
				httpapi.WithResolver(svc.resolver),
				httpapi.WithHealthChecks(checks),
				httpapi.WithGatherer(svc.registry),
			)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return server.Serve(ctx, httpapi.ServerConfig{
					Addr:            cfg.HTTP.Addr,
					ReadTimeout:     cfg.HTTP.ReadTimeout,
					WriteTimeout:    cfg.HTTP.WriteTimeout,
					ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
				})
			})
			if jobs != nil {
				g.Go(func() error {
					if err := jobs.Start(ctx); err != nil {
						return err
					}
					<-ctx.Done()

					stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
					defer cancel()
					return jobs.Stop(stopCtx)
				})
			} else {
				log.Info("periodic dispatch disabled", slog.String("trigger", "/api/cron/send-emails"))
			}

			return g.Wait()
		},
	}
}

func jobOptions(cfg config.Dispatch, log *slog.Logger) []job.Option {
	opts := []job.Option{
		job.WithLogger(log),
		job.WithSchedule(cfg.Schedule),
		job.WithTimeout(cfg.Timeout),
	}
	if cfg.RunOnStart {
		opts = append(opts, job.WithRunOnStart())
	}
	return opts
}
