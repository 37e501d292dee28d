package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"pinax-social-backend/internal/logger"
)

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends mail through the SendGrid v3 API
type SendGridSender struct {
	client    sendClient
	fromEmail string
	fromName  string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, recipient, msg.Text, msg.HTML)

	logger.ExternalServiceCall("SendGrid", "Send", "to", msg.To, "subject", msg.Subject)
	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		logger.ExternalServiceResult("SendGrid", "Send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("SendGrid", "Send", err)
		return err
	}

	logger.ExternalServiceResult("SendGrid", "Send", nil, "status", response.StatusCode)
	return nil
}
