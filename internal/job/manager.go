package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/dmitrymomot/remindr/internal/logger"
)

const (
	// DefaultSchedule fires the dispatch job every fifteen minutes.
	DefaultSchedule = "*/15 * * * *"

	// DefaultTimeout bounds one dispatch job.
	DefaultTimeout = 5 * time.Minute
)

type config struct {
	logger     *slog.Logger
	schedule   string
	timeout    time.Duration
	runOnStart bool
}

// Option configures the manager.
type Option func(*config)

// WithLogger sets the logger used by the manager, its worker and River.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSchedule sets the cron expression of the dispatch job.
func WithSchedule(expr string) Option {
	return func(c *config) {
		if expr != "" {
			c.schedule = expr
		}
	}
}

// WithTimeout bounds a single dispatch job.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRunOnStart makes the dispatch job fire as soon as the manager starts.
func WithRunOnStart() Option {
	return func(c *config) {
		c.runOnStart = true
	}
}

// Manager owns the River client that executes the periodic dispatch.
type Manager struct {
	pool   *pgxpool.Pool
	client *river.Client[pgx.Tx]
	logger *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewManager builds the River client with one periodic dispatch job.
// Nothing runs until Start is called.
func NewManager(pool *pgxpool.Pool, d Dispatcher, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	if d == nil {
		return nil, ErrDispatcherRequired
	}

	cfg := &config{
		logger:   logger.NewNope(),
		schedule: DefaultSchedule,
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	schedule, err := ParseSchedule(cfg.schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, cfg.schedule)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &dispatchWorker{
		dispatcher: d,
		logger:     cfg.logger,
		timeout:    cfg.timeout,
		now:        time.Now,
	})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
		},
		Workers: workers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				cronSchedule{schedule: schedule},
				func() (river.JobArgs, *river.InsertOpts) {
					return DispatchArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: cfg.runOnStart},
			),
		},
		Logger: cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{
		pool:   pool,
		client: client,
		logger: cfg.logger,
	}, nil
}

// Start begins processing jobs.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrAlreadyStarted
	}
	if err := m.client.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}

	m.started = true
	m.logger.Info("job manager started")
	return nil
}

// Stop waits for a running dispatch job to finish, then shuts down.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started {
		return ErrNotStarted
	}
	if err := m.client.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}

	m.started = false
	m.logger.Info("job manager stopped")
	return nil
}

// Healthcheck reports whether the manager is started and its database is
// reachable.
func Healthcheck(m *Manager) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if m == nil {
			return errors.Join(ErrHealthcheckFailed, errManagerNil)
		}

		m.mu.Lock()
		started := m.started
		m.mu.Unlock()

		if !started {
			return errors.Join(ErrHealthcheckFailed, errManagerNotStarted)
		}
		if err := m.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Migrate applies River's own schema migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *slog.Logger) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), &rivermigrate.Config{Logger: log})
	if err != nil {
		return fmt.Errorf("job: create migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("job: migrate: %w", err)
	}
	for _, v := range res.Versions {
		log.InfoContext(ctx, "river migration applied", slog.Int("version", v.Version))
	}
	return nil
}
