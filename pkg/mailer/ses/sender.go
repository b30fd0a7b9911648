// Package ses sends email through Amazon SES.
package ses

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/remindr/pkg/mailer"
)

var (
	// ErrRejected is returned when SES refuses the message itself, for
	// example an unverified sender or a suppressed address.
	ErrRejected = errors.New("ses: message rejected")

	// ErrThrottled is returned when the account sending rate is exceeded.
	ErrThrottled = errors.New("ses: throttled")

	// ErrAttachmentsUnsupported is returned for emails with attachments.
	ErrAttachmentsUnsupported = errors.New("ses: attachments are not supported")
)

// API is the part of the SES client the sender uses.
type API interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Sender implements mailer.Sender using Amazon SES.
type Sender struct {
	client API
	config Config
}

// New loads the default AWS configuration for cfg.Region and creates a
// sender.
func New(ctx context.Context, cfg Config) (*Sender, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}
	return NewWithClient(ses.NewFromConfig(awsCfg), cfg), nil
}

// NewWithClient creates a sender on top of an existing client.
func NewWithClient(client API, cfg Config) *Sender {
	return &Sender{client: client, config: cfg}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if len(email.Attachments) > 0 {
		return ErrAttachmentsUnsupported
	}

	out, err := s.client.SendEmail(ctx, s.input(email))
	if err != nil {
		return wrapError(err)
	}
	if out == nil || aws.ToString(out.MessageId) == "" {
		return errors.New("ses: no message id returned")
	}
	return nil
}

func (s *Sender) input(email *mailer.Email) *ses.SendEmailInput {
	from := email.From
	if from == "" {
		from = mailer.Address(s.config.SenderName, s.config.SenderEmail)
	}

	body := &types.Body{Html: content(email.HTML)}
	if email.Text != "" {
		body.Text = content(email.Text)
	}

	in := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses:  email.To,
			CcAddresses:  email.CC,
			BccAddresses: email.BCC,
		},
		Message: &types.Message{
			Subject: content(email.Subject),
			Body:    body,
		},
	}
	if email.ReplyTo != "" {
		in.ReplyToAddresses = []string{email.ReplyTo}
	}
	if s.config.ConfigurationSet != "" {
		in.ConfigurationSetName = aws.String(s.config.ConfigurationSet)
	}
	for name, value := range email.Tags {
		in.Tags = append(in.Tags, types.MessageTag{
			Name:  aws.String(tagText(name)),
			Value: aws.String(tagText(tagValue(value))),
		})
	}
	return in
}

func content(data string) *types.Content {
	return &types.Content{Data: aws.String(data), Charset: aws.String("UTF-8")}
}

func tagValue(v any) string {
	switch val := v.(type) {
	case nil, struct{}:
		return "true"
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

var tagUnsafe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// tagText keeps the characters SES allows in tag names and values.
func tagText(s string) string {
	return tagUnsafe.ReplaceAllString(s, "_")
}

func wrapError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "MessageRejected", "MailFromDomainNotVerifiedException", "ConfigurationSetDoesNotExist":
			return fmt.Errorf("%w: %s", ErrRejected, apiErr.ErrorMessage())
		case "Throttling", "ThrottlingException":
			return fmt.Errorf("%w: %s", ErrThrottled, apiErr.ErrorMessage())
		}
	}
	return fmt.Errorf("ses: failed to send email: %w", err)
}
