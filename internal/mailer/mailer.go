// Package mailer delivers outgoing email through SMTP, SendGrid or the log.
package mailer

import (
	"context"
	"fmt"

	"pinax-social-backend/internal/config"
)

// Message is a single outgoing email
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers email messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the sender selected by the email provider setting
func New(cfg *config.Config) (Sender, error) {
	switch cfg.Email.Provider {
	case "smtp":
		return NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, cfg.Email.FromName), nil
	case "sendgrid":
		return NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.SMTP.From, cfg.Email.FromName), nil
	case "log", "":
		return NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Email.Provider)
	}
}
