package mailer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSender is a mock implementation of Sender.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func validEmail() *Email {
	return &Email{
		To:      []string{"jane@example.com"},
		Subject: "Reminder",
		HTML:    "<p>Hello</p>",
	}
}

func TestMailer_Send_Success(t *testing.T) {
	t.Parallel()

	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e *Email) bool {
		return e.To[0] == "jane@example.com" &&
			e.From == "Remindr <reminders@example.com>" &&
			e.Tags["app"] == "remindr" &&
			e.Tags["kind"] == "schedule"
	})).Return(nil)

	m := New(sender,
		WithFrom(Address("Remindr", "reminders@example.com")),
		WithDefaultTags(Tags{"app": "remindr", "kind": "default"}),
	)

	email := validEmail()
	email.Tags = Tags{"kind": "schedule"}
	require.NoError(t, m.Send(context.Background(), email))
	sender.AssertExpectations(t)
}

func TestMailer_Send_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Email) *Email
		want   error
	}{
		{name: "nil email", modify: func(*Email) *Email { return nil }, want: ErrNoRecipient},
		{name: "no recipient", modify: func(e *Email) *Email { e.To = nil; return e }, want: ErrNoRecipient},
		{name: "blank recipient", modify: func(e *Email) *Email { e.To = []string{" "}; return e }, want: ErrNoRecipient},
		{name: "no subject", modify: func(e *Email) *Email { e.Subject = ""; return e }, want: ErrNoSubject},
		{name: "no html", modify: func(e *Email) *Email { e.HTML = "  "; return e }, want: ErrNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := &MockSender{}
			err := New(sender).Send(context.Background(), tt.modify(validEmail()))
			require.ErrorIs(t, err, tt.want)
			sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestMailer_Send_ProviderError(t *testing.T) {
	t.Parallel()

	providerErr := errors.New("422 invalid from")
	sender := &MockSender{}
	sender.On("Send", mock.Anything, mock.Anything).Return(providerErr)

	err := New(sender).Send(context.Background(), validEmail())
	require.ErrorIs(t, err, ErrSendFailed)
	require.ErrorIs(t, err, providerErr)
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewLogSender(slog.New(slog.NewJSONHandler(&buf, nil)), true)

	email := validEmail()
	email.Text = "Hello"
	require.NoError(t, s.Send(context.Background(), email))

	out := buf.String()
	assert.Contains(t, out, `"subject":"Reminder"`)
	assert.Contains(t, out, `"jane@example.com"`)
	assert.Contains(t, out, `"text":"Hello"`)
}

func TestSenderFunc(t *testing.T) {
	t.Parallel()

	var got *Email
	s := SenderFunc(func(_ context.Context, e *Email) error {
		got = e
		return nil
	})

	email := validEmail()
	require.NoError(t, New(s).Send(context.Background(), email))
	assert.Same(t, email, got)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	for _, p := range []Provider{ProviderResend, ProviderSES, ProviderLog} {
		require.NoError(t, Config{Provider: p}.Validate())
	}
	require.ErrorIs(t, Config{Provider: "smtp"}.Validate(), ErrUnknownProvider)

	require.NoError(t, Config{Provider: ProviderLog, From: "Acme <billing@acme.example>"}.Validate())
	require.NoError(t, Config{Provider: ProviderLog, From: "billing@acme.example"}.Validate())
	require.Error(t, Config{Provider: ProviderLog, From: "Acme billing"}.Validate())
}
