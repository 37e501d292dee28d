package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"pinax-social-backend/internal/config"
)

type fakeDialer struct {
	messages []*gomail.Message
	err      error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.messages = append(d.messages, m...)
	return d.err
}

type fakeSendClient struct {
	status int
	err    error
	sent   []*mail.SGMailV3
}

func (c *fakeSendClient) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	c.sent = append(c.sent, email)
	if c.err != nil {
		return nil, c.err
	}
	return &rest.Response{StatusCode: c.status, Body: "body"}, nil
}

func TestSMTPSender_Send(t *testing.T) {
	d := &fakeDialer{}
	s := &SMTPSender{dialer: d, from: "noreply@pinax.local", fromName: "Pinax"}

	err := s.Send(context.Background(), Message{To: "alice@example.com", ToName: "Alice", Subject: "Hi", Text: "hello", HTML: "<p>hello</p>"})
	require.NoError(t, err)
	require.Len(t, d.messages, 1)
	assert.Equal(t, []string{"Hi"}, d.messages[0].GetHeader("Subject"))
	assert.Equal(t, []string{`"Alice" <alice@example.com>`}, d.messages[0].GetHeader("To"))
}

func TestSMTPSender_DialError(t *testing.T) {
	s := &SMTPSender{dialer: &fakeDialer{err: errors.New("connection refused")}, from: "noreply@pinax.local"}

	err := s.Send(context.Background(), Message{To: "alice@example.com", Subject: "Hi", Text: "hello"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestSendGridSender_Send(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := &fakeSendClient{status: 202}
		s := &SendGridSender{client: c, fromEmail: "noreply@pinax.local", fromName: "Pinax"}

		require.NoError(t, s.Send(context.Background(), Message{To: "bob@example.com", Subject: "Welcome", Text: "hi"}))
		require.Len(t, c.sent, 1)
		assert.Equal(t, "Welcome", c.sent[0].Subject)
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		s := &SendGridSender{client: &fakeSendClient{status: 401}, fromEmail: "noreply@pinax.local"}
		err := s.Send(context.Background(), Message{To: "bob@example.com", Subject: "Welcome", Text: "hi"})
		assert.ErrorContains(t, err, "status 401")
	})
}

func TestLogSender_KeepsMessages(t *testing.T) {
	s := NewLogSender()
	require.NoError(t, s.Send(context.Background(), Message{To: "a@example.com", Subject: "one"}))
	require.NoError(t, s.Send(context.Background(), Message{To: "b@example.com", Subject: "two"}))

	sent := s.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "two", sent[1].Subject)
}

func TestNew_SelectsProvider(t *testing.T) {
	cfg := &config.Config{}

	cfg.Email.Provider = "log"
	s, err := New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, s)

	cfg.Email.Provider = "smtp"
	cfg.SMTP.Host = "localhost"
	cfg.SMTP.Port = 25
	s, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SMTPSender{}, s)

	cfg.Email.Provider = "sendgrid"
	s, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &SendGridSender{}, s)

	cfg.Email.Provider = "carrier-pigeon"
	_, err = New(cfg)
	assert.Error(t, err)
}
