package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/remindr/internal/dispatch"
	"github.com/dmitrymomot/remindr/internal/health"
	"github.com/dmitrymomot/remindr/internal/logger"
	"github.com/dmitrymomot/remindr/internal/render"
)

// Dispatcher runs one dispatch batch. *dispatch.Runner satisfies it.
type Dispatcher interface {
	Run(ctx context.Context, now time.Time) (*dispatch.Report, error)
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	dispatcher Dispatcher
	mailer     dispatch.Mailer
	resolver   *render.Resolver
	logger     *slog.Logger
	gatherer   prometheus.Gatherer
	checks     health.Checks
	now        func() time.Time
	secret     string
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCronSecret requires "Authorization: Bearer <secret>" on /api routes.
// Without it the cron trigger is public and the authoring routes answer 401.
func WithCronSecret(secret string) Option {
	return func(s *Server) {
		s.secret = secret
	}
}

// WithResolver sets the resolver used by the test-send endpoint.
func WithResolver(r *render.Resolver) Option {
	return func(s *Server) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithHealthChecks sets the readiness checks.
func WithHealthChecks(checks health.Checks) Option {
	return func(s *Server) {
		s.checks = checks
	}
}

// WithGatherer serves metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Server. The dispatcher runs the trigger endpoint and the
// mailer delivers test sends.
func New(d Dispatcher, m dispatch.Mailer, opts ...Option) *Server {
	s := &Server{
		dispatcher: d,
		mailer:     m,
		resolver:   render.NewResolver(),
		logger:     logger.NewNope(),
		gatherer:   prometheus.DefaultGatherer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, s.recoverer, s.accessLog)

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(s.checks, health.WithLogger(s.logger)))
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(s.bearerSecret(true))
			r.Get("/cron/send-emails", s.handle(s.sendEmails))
			r.Post("/cron/send-emails", s.handle(s.sendEmails))
		})

		// Authoring routes send mail to arbitrary addresses and are closed
		// until a secret is configured.
		r.Group(func(r chi.Router) {
			r.Use(s.bearerSecret(false))
			r.Post("/templates/preview", s.handle(s.previewTemplate))
			r.Post("/test-send-template", s.handle(s.testSendTemplate))
		})
	})

	r.NotFound(s.handle(func(http.ResponseWriter, *http.Request) error {
		return newHTTPError(http.StatusNotFound, "Not Found", nil)
	}))
	r.MethodNotAllowed(s.handle(func(http.ResponseWriter, *http.Request) error {
		return newHTTPError(http.StatusMethodNotAllowed, "Method Not Allowed", nil)
	}))

	return r
}

const (
	defaultIdleTimeout    = 2 * time.Minute
	defaultMaxHeaderBytes = 1 << 20
)

// ServerConfig holds listener settings for Serve.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Serve listens on cfg.Addr until ctx is canceled, then shuts down
// gracefully. Requests in flight keep their context during shutdown so a
// running batch can finish.
func (s *Server) Serve(ctx context.Context, cfg ServerConfig) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
