package mailer

import (
	"fmt"
	"net/mail"
)

// Provider names a Sender implementation.
type Provider string

const (
	ProviderResend Provider = "resend"
	ProviderSES    Provider = "ses"
	ProviderLog    Provider = "log"
)

// Config selects the provider and the sender defaults shared by all of
// them. Embed it in the app config for env parsing with caarlos0/env.
type Config struct {
	Provider Provider `env:"MAILER_PROVIDER" envDefault:"log"`
	FromName string   `env:"MAILER_FROM_NAME"`
	// From overrides the provider sender address, e.g. "Acme <billing@acme.com>".
	From           string `env:"MAILER_FROM"`
	LegacyMarkdown bool   `env:"MAILER_LEGACY_MARKDOWN" envDefault:"false"`
}

// Validate reports unknown providers and malformed From addresses.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderResend, ProviderSES, ProviderLog:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.Provider)
	}
	if c.From != "" {
		if _, err := mail.ParseAddress(c.From); err != nil {
			return fmt.Errorf("mailer: invalid MAILER_FROM %q: %w", c.From, err)
		}
	}
	return nil
}
