package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"pinax-social-backend/internal/logger"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends mail with gomail over SMTP
type SMTPSender struct {
	dialer   dialer
	from     string
	fromName string
}

func NewSMTPSender(host string, port int, username, password, from, fromName string) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(host, port, username, password),
		from:     from,
		fromName: fromName,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	logger.ExternalServiceCall("SMTP", "DialAndSend", "to", msg.To, "subject", msg.Subject)
	if err := s.dialer.DialAndSend(m); err != nil {
		logger.ExternalServiceResult("SMTP", "DialAndSend", err)
		return fmt.Errorf("failed to send email via gomail: %w", err)
	}
	logger.ExternalServiceResult("SMTP", "DialAndSend", nil, "to", msg.To)
	return nil
}
