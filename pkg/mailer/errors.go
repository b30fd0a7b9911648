package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("mailer: email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("mailer: email must have a subject")

	// ErrNoContent indicates no HTML content was provided.
	ErrNoContent = errors.New("mailer: email must have HTML content")

	// ErrSendFailed indicates the provider did not accept the email.
	ErrSendFailed = errors.New("mailer: failed to send email")

	// ErrUnknownProvider is returned for provider names this package does
	// not know.
	ErrUnknownProvider = errors.New("mailer: unknown provider")
)
