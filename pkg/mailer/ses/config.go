package ses

import "errors"

// Config holds the Amazon SES provider settings. Static keys are used when
// both are set, otherwise credentials come from the default AWS chain. Embed it in the app config for env parsing with
// caarlos0/env.
type Config struct {
	Region           string `env:"SES_REGION" envDefault:"us-east-1"`
	SenderEmail      string `env:"SES_FROM_EMAIL"`
	SenderName       string `env:"SES_FROM_NAME"`
	ConfigurationSet string `env:"SES_CONFIGURATION_SET"`
	AccessKey        string `env:"SES_ACCESS_KEY_ID"`
	SecretKey        string `env:"SES_SECRET_ACCESS_KEY"`
}

// Validate checks the fields SES cannot work without.
func (c Config) Validate() error {
	var errs []error
	if c.Region == "" {
		errs = append(errs, errors.New("ses: SES_REGION is required"))
	}
	if c.SenderEmail == "" {
		errs = append(errs, errors.New("ses: SES_FROM_EMAIL is required"))
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		errs = append(errs, errors.New("ses: SES_ACCESS_KEY_ID and SES_SECRET_ACCESS_KEY must be set together"))
	}
	return errors.Join(errs...)
}
