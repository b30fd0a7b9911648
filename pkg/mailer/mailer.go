package mailer

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/dmitrymomot/remindr/internal/logger"
)

// Mailer checks emails before handing them to a Sender.
type Mailer struct {
	sender Sender
	logger *slog.Logger
	tags   Tags
	from   string
}

// Option configures a Mailer.
type Option func(*Mailer)

func WithLogger(l *slog.Logger) Option {
	return func(m *Mailer) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDefaultTags adds tags to every email that does not set them itself.
func WithDefaultTags(tags Tags) Option {
	return func(m *Mailer) {
		m.tags = tags
	}
}

// WithFrom sets the sender address used when an email has no From.
func WithFrom(from string) Option {
	return func(m *Mailer) {
		m.from = from
	}
}

// New creates a Mailer on top of sender.
func New(sender Sender, opts ...Option) *Mailer {
	m := &Mailer{sender: sender, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send validates email and delivers it.
func (m *Mailer) Send(ctx context.Context, email *Email) error {
	if email == nil || len(email.To) == 0 || strings.TrimSpace(email.To[0]) == "" {
		return ErrNoRecipient
	}
	if strings.TrimSpace(email.Subject) == "" {
		return ErrNoSubject
	}
	if strings.TrimSpace(email.HTML) == "" {
		return ErrNoContent
	}

	if email.From == "" {
		email.From = m.from
	}
	if len(m.tags) > 0 {
		merged := maps.Clone(m.tags)
		maps.Copy(merged, email.Tags)
		email.Tags = merged
	}

	start := time.Now()
	if err := m.sender.Send(ctx, email); err != nil {
		m.logger.DebugContext(ctx, "email rejected",
			slog.Any("to", email.To),
			slog.Any("error", err),
		)
		return errors.Join(ErrSendFailed, err)
	}

	m.logger.DebugContext(ctx, "email accepted",
		slog.Any("to", email.To),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}
