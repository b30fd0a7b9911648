package dispatch

import (
	"context"
	"time"

	"github.com/dmitrymomot/remindr/internal/model"
)

// Repository loads due work and records sends. Lookups of missing records
// return an error wrapping ErrNotFound.
type Repository interface {
	// FindDueSchedules returns active schedules with nextSendDate inside
	// [now-lookback, now], oldest first, at most limit.
	FindDueSchedules(ctx context.Context, now time.Time, lookback time.Duration, limit int) ([]model.Schedule, error)

	// FindDueRecipients returns active recipients of active groups with
	// nextOccurrence inside [now-lookback, now], oldest first, at most limit.
	FindDueRecipients(ctx context.Context, now time.Time, lookback time.Duration, limit int) ([]model.Recipient, error)

	GetTemplate(ctx context.Context, id string) (*model.Template, error)
	GetRecipient(ctx context.Context, id string) (*model.Recipient, error)
	GetGroup(ctx context.Context, id string) (*model.Group, error)

	UpdateScheduleAfterSend(ctx context.Context, id string, lastSent, nextSend time.Time) error
	UpdateRecipientAfterSend(ctx context.Context, id string, nextOccurrence time.Time) error
}

// Message is what the Runner hands to a Mailer.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers one message. A nil error means the provider accepted it.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// MailerFunc adapts a function to Mailer.
type MailerFunc func(ctx context.Context, msg Message) error

func (f MailerFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}
