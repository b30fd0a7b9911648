package ses

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/remindr/pkg/mailer"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) SendEmail(ctx context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ses.SendEmailOutput)
	return out, args.Error(1)
}

type apiError struct {
	code    string
	message string
}

func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.message }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }
func (e *apiError) Error() string                 { return fmt.Sprintf("%s: %s", e.code, e.message) }

var cfg = Config{Region: "eu-west-1", SenderEmail: "reminders@example.com", SenderName: "Remindr", ConfigurationSet: "tracking"}

func email() *mailer.Email {
	return &mailer.Email{
		To:      []string{"jane@example.com"},
		Subject: "Renewal",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
		ReplyTo: "support@example.com",
		Tags:    mailer.Tags{"kind": "schedule"},
	}
}

func TestSender_Send(t *testing.T) {
	t.Parallel()

	api := &mockAPI{}
	api.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return aws.ToString(in.Source) == "Remindr <reminders@example.com>" &&
			in.Destination.ToAddresses[0] == "jane@example.com" &&
			aws.ToString(in.Message.Subject.Data) == "Renewal" &&
			aws.ToString(in.Message.Body.Html.Data) == "<p>Hi</p>" &&
			aws.ToString(in.Message.Body.Text.Data) == "Hi" &&
			in.ReplyToAddresses[0] == "support@example.com" &&
			aws.ToString(in.ConfigurationSetName) == "tracking" &&
			len(in.Tags) == 1
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("m-1")}, nil)

	require.NoError(t, NewWithClient(api, cfg).Send(context.Background(), email()))
	api.AssertExpectations(t)
}

func TestSender_SendErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "rejected", err: &apiError{code: "MessageRejected", message: "Email address is not verified"}, want: ErrRejected},
		{name: "throttled", err: &apiError{code: "Throttling", message: "Maximum sending rate exceeded"}, want: ErrThrottled},
		{name: "network", err: errors.New("dial tcp: timeout")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			api := &mockAPI{}
			api.On("SendEmail", mock.Anything, mock.Anything).Return(nil, tt.err)

			err := NewWithClient(api, cfg).Send(context.Background(), email())
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			} else {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestSender_NoMessageID(t *testing.T) {
	t.Parallel()

	api := &mockAPI{}
	api.On("SendEmail", mock.Anything, mock.Anything).Return(&ses.SendEmailOutput{}, nil)

	require.Error(t, NewWithClient(api, cfg).Send(context.Background(), email()))
}

func TestSender_Attachments(t *testing.T) {
	t.Parallel()

	e := email()
	e.Attachments = []mailer.Attachment{{Filename: "a.pdf"}}

	err := NewWithClient(&mockAPI{}, cfg).Send(context.Background(), e)
	require.ErrorIs(t, err, ErrAttachmentsUnsupported)
}

func TestTagText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "plan_gold", tagText("plan:gold"))
	assert.Equal(t, "run-id_1", tagText("run-id_1"))
	assert.Equal(t, "true", tagValue(struct{}{}))
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default chain", Config{Region: "eu-west-1", SenderEmail: "a@example.com"}, false},
		{"static keys", Config{Region: "eu-west-1", SenderEmail: "a@example.com", AccessKey: "AK", SecretKey: "SK"}, false},
		{"missing sender", Config{Region: "eu-west-1"}, true},
		{"missing region", Config{SenderEmail: "a@example.com"}, true},
		{"half keys", Config{Region: "eu-west-1", SenderEmail: "a@example.com", AccessKey: "AK"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNew_StaticCredentials(t *testing.T) {
	t.Parallel()

	s, err := New(t.Context(), Config{
		Region:      "eu-west-1",
		SenderEmail: "a@example.com",
		AccessKey:   "AK",
		SecretKey:   "SK",
	})
	require.NoError(t, err)
	require.NotNil(t, s)
}
