package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/remindr/internal/cache"
	"github.com/dmitrymomot/remindr/internal/config"
	"github.com/dmitrymomot/remindr/internal/db"
	"github.com/dmitrymomot/remindr/internal/dispatch"
	"github.com/dmitrymomot/remindr/internal/health"
	"github.com/dmitrymomot/remindr/internal/model"
	"github.com/dmitrymomot/remindr/internal/render"
	"github.com/dmitrymomot/remindr/internal/repository"
	"github.com/dmitrymomot/remindr/pkg/mailer"
	"github.com/dmitrymomot/remindr/pkg/mailer/resend"
	"github.com/dmitrymomot/remindr/pkg/mailer/ses"
)

const (
	redisConnectAttempts = 3
	redisConnectInterval = 2 * time.Second
	templateKeyPrefix    = "remindr:template:"
)

// services are the long-lived dependencies shared by serve and dispatch.
type services struct {
	log       *slog.Logger
	pool      *pgxpool.Pool
	redis     redis.UniversalClient
	templates cache.Cache[model.Record]
	repo      *repository.Postgres
	mailer    dispatch.Mailer
	resolver  *render.Resolver
	runner    *dispatch.Runner
	registry  *prometheus.Registry
}

type serviceOptions struct {
	dryRun bool
}

func newServices(ctx context.Context, cfg config.Config, log *slog.Logger, opts serviceOptions) (*services, error) {
	s := &services{log: log, registry: prometheus.NewRegistry()}
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	s.pool = pool

	s.templates, err = s.templateCache(ctx, cfg.Cache)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.repo = repository.New(pool, repository.WithTemplateCache(s.templates, cfg.Cache.TemplateTTL))

	provider := cfg.Mailer.Provider
	if opts.dryRun {
		provider = mailer.ProviderLog
	}
	sender, err := newSender(ctx, provider, cfg, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.mailer = mailerAdapter(newMailer(sender, cfg.Mailer, log))

	var resolverOpts []render.Option
	if cfg.Mailer.LegacyMarkdown {
		resolverOpts = append(resolverOpts, render.WithLegacyMarkdown())
	}
	s.resolver = render.NewResolver(resolverOpts...)

	loc, err := cfg.Dispatch.Location()
	if err != nil {
		s.Close()
		return nil, err
	}
	runnerOpts := []dispatch.Option{
		dispatch.WithLogger(log),
		dispatch.WithWindow(cfg.Dispatch.Window()),
		dispatch.WithLocation(loc),
		dispatch.WithResolver(s.resolver),
		dispatch.WithMetrics(dispatch.NewMetrics(s.registry)),
	}
	if opts.dryRun {
		runnerOpts = append(runnerOpts, dispatch.WithDryRun())
	}
	s.runner = dispatch.NewRunner(s.repo, s.mailer, runnerOpts...)
	return s, nil
}

func (s *services) templateCache(ctx context.Context, cfg config.Cache) (cache.Cache[model.Record], error) {
	if cfg.RedisURL == "" {
		return cache.NewMemory[model.Record](cfg.TemplateTTL, time.Minute), nil
	}

	client, err := cache.Open(ctx, cfg.RedisURL, redisConnectAttempts, redisConnectInterval)
	if err != nil {
		return nil, err
	}
	s.redis = client
	return cache.NewRedis[model.Record](client, templateKeyPrefix, cfg.TemplateTTL, cache.JSON[model.Record]{}), nil
}

func (s *services) checks() health.Checks {
	checks := health.Checks{"postgres": db.Healthcheck(s.pool)}
	if s.redis != nil {
		checks["redis"] = cache.Healthcheck(s.redis)
	}
	return checks
}

func (s *services) Close() {
	if s.repo != nil {
		_ = s.repo.Close()
	}
	if s.templates != nil {
		_ = s.templates.Close()
	}
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.pool != nil {
		s.pool.Close()
	}
}

func newSender(ctx context.Context, provider mailer.Provider, cfg config.Config, log *slog.Logger) (mailer.Sender, error) {
	switch provider {
	case mailer.ProviderResend:
		rc := cfg.Resend
		if rc.SenderName == "" {
			rc.SenderName = cfg.Mailer.FromName
		}
		return resend.New(rc), nil
	case mailer.ProviderSES:
		sc := cfg.SES
		if sc.SenderName == "" {
			sc.SenderName = cfg.Mailer.FromName
		}
		return ses.New(ctx, sc)
	case mailer.ProviderLog:
		return mailer.NewLogSender(log, false), nil
	default:
		return nil, fmt.Errorf("%w: %q", mailer.ErrUnknownProvider, provider)
	}
}

func newMailer(sender mailer.Sender, cfg mailer.Config, log *slog.Logger) *mailer.Mailer {
	opts := []mailer.Option{
		mailer.WithLogger(log),
		mailer.WithDefaultTags(mailer.Tags{"app": "remindr"}),
	}
	if cfg.From != "" {
		opts = append(opts, mailer.WithFrom(cfg.From))
	}
	return mailer.New(sender, opts...)
}

// mailerAdapter turns dispatch messages into provider emails.
func mailerAdapter(m *mailer.Mailer) dispatch.Mailer {
	return dispatch.MailerFunc(func(ctx context.Context, msg dispatch.Message) error {
		return m.Send(ctx, &mailer.Email{
			To:      []string{msg.To},
			Subject: msg.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
		})
	})
}
