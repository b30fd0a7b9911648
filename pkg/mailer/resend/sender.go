// Package resend sends email through the Resend API.
package resend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/remindr/pkg/mailer"
)

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	resp, err := s.client.Emails.SendWithContext(ctx, s.request(email))
	if err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}
	if resp == nil || resp.Id == "" {
		return fmt.Errorf("resend: no message id returned")
	}
	return nil
}

func (s *Sender) request(email *mailer.Email) *resend.SendEmailRequest {
	from := email.From
	if from == "" {
		from = mailer.Address(s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
		Cc:      email.CC,
		Bcc:     email.BCC,
		Headers: email.Headers,
	}

	for _, a := range email.Attachments {
		req.Attachments = append(req.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		})
	}
	for name, value := range email.Tags {
		req.Tags = append(req.Tags, resend.Tag{Name: name, Value: tagValue(value)})
	}
	return req
}

// tagValue renders a tag value for Resend. Presence-only tags become "true".
func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
