// Package mailer delivers fully rendered emails through a pluggable provider.
//
// Rendering happens elsewhere; a Sender only receives a ready Email. Two
// providers live in sub-packages (resend and ses) and LogSender writes
// messages to a logger instead of sending them, for dry runs and local work.
//
//	sender := resend.New(resend.Config{
//		APIKey:      os.Getenv("RESEND_API_KEY"),
//		SenderEmail: "reminders@example.com",
//	})
//	m := mailer.New(sender, mailer.WithLogger(log))
//
//	err := m.Send(ctx, &mailer.Email{
//		To:      []string{"user@example.com"},
//		Subject: "Your plan renews tomorrow",
//		HTML:    "<p>Hello!</p>",
//	})
//
// Errors returned by Send wrap ErrSendFailed when the provider refused the
// message and one of ErrNoRecipient, ErrNoSubject or ErrNoContent when the
// email was incomplete.
package mailer
