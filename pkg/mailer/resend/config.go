package resend

import "errors"

// Config holds the Resend provider settings. Embed it in the app config
// for env parsing with caarlos0/env.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
	SenderName  string `env:"RESEND_FROM_NAME"`
}

// Validate checks the fields Resend cannot work without.
func (c Config) Validate() error {
	var errs []error
	if c.APIKey == "" {
		errs = append(errs, errors.New("resend: RESEND_API_KEY is required"))
	}
	if c.SenderEmail == "" {
		errs = append(errs, errors.New("resend: RESEND_FROM_EMAIL is required"))
	}
	return errors.Join(errs...)
}
