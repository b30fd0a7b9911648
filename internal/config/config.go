// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/remindr/internal/db"
	"github.com/dmitrymomot/remindr/internal/job"
	"github.com/dmitrymomot/remindr/internal/logger"
	"github.com/dmitrymomot/remindr/internal/occurrence"
	"github.com/dmitrymomot/remindr/pkg/mailer"
	"github.com/dmitrymomot/remindr/pkg/mailer/resend"
	"github.com/dmitrymomot/remindr/pkg/mailer/ses"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type HTTP struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	CronSecret      string        `env:"CRON_SECRET"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"5m"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type Cache struct {
	// Empty keeps templates in process memory.
	RedisURL    string        `env:"REDIS_URL"`
	TemplateTTL time.Duration `env:"TEMPLATE_CACHE_TTL" envDefault:"5m"`
}

type Dispatch struct {
	Lookback time.Duration `env:"DISPATCH_LOOKBACK" envDefault:"24h"`
	Limit    int           `env:"DISPATCH_LIMIT" envDefault:"100"`
	Schedule string        `env:"DISPATCH_SCHEDULE" envDefault:"*/15 * * * *"`
	Timezone string        `env:"DISPATCH_TIMEZONE" envDefault:"UTC"`
	Timeout  time.Duration `env:"DISPATCH_TIMEOUT" envDefault:"5m"`
	// Disabled turns off the in-process periodic job, leaving only the HTTP
	// trigger.
	Disabled bool `env:"DISPATCH_JOB_DISABLED" envDefault:"false"`
	// RunOnStart fires the periodic job once when serve starts.
	RunOnStart bool `env:"DISPATCH_RUN_ON_START" envDefault:"false"`
}

// Window returns the due window of a dispatch run.
func (d Dispatch) Window() occurrence.Window {
	return occurrence.Window{Lookback: d.Lookback, Limit: d.Limit}
}

// Location loads Timezone.
func (d Dispatch) Location() (*time.Location, error) {
	return time.LoadLocation(d.Timezone)
}

type Config struct {
	HTTP     HTTP
	Log      logger.Config
	DB       db.Config
	Cache    Cache
	Mailer   mailer.Config
	Resend   resend.Config
	SES      ses.Config
	Dispatch Dispatch
}

// Load reads the given .env files, silently skipping missing ones, then
// parses and validates the environment. Variables already set in the
// environment win over .env values.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return parse(env.Options{})
}

// FromMap parses and validates cfg from the given variables only.
func FromMap(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the type system cannot.
func (c Config) Validate() error {
	var errs []error

	if err := c.Mailer.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Mailer.Provider {
	case mailer.ProviderResend:
		errs = append(errs, c.Resend.Validate())
	case mailer.ProviderSES:
		errs = append(errs, c.SES.Validate())
	}

	if _, err := job.ParseSchedule(c.Dispatch.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("DISPATCH_SCHEDULE: %w", err))
	}
	if c.Dispatch.Limit <= 0 {
		errs = append(errs, fmt.Errorf("DISPATCH_LIMIT must be positive, got %d", c.Dispatch.Limit))
	}
	if c.Dispatch.Lookback <= 0 {
		errs = append(errs, fmt.Errorf("DISPATCH_LOOKBACK must be positive, got %s", c.Dispatch.Lookback))
	}
	if _, err := c.Dispatch.Location(); err != nil {
		errs = append(errs, fmt.Errorf("DISPATCH_TIMEZONE: %w", err))
	}
	if f := strings.ToLower(c.Log.Format); f != "json" && f != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}

	if err := errors.Join(errs...); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}
	return nil
}
