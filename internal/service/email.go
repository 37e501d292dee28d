package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/mailer"
)

type emailService struct {
	sender   mailer.Sender
	siteName string
	baseURL  string
}

func NewEmailService(sender mailer.Sender, site config.SiteConfig) EmailService {
	return &emailService{
		sender:   sender,
		siteName: site.Name,
		baseURL:  strings.TrimRight(site.BaseURL, "/"),
	}
}

func (s *emailService) SendEmailConfirmation(ctx context.Context, to, name, key string) error {
	link := s.baseURL + "/confirm-email?key=" + url.QueryEscape(key)
	body := fmt.Sprintf("Hello %s,\n\nPlease confirm this email address for your %s account by visiting:\n\n%s\n\nBest regards,\nThe %s Team",
		name, s.siteName, link, s.siteName)

	if err := s.send(ctx, to, name, fmt.Sprintf("Confirm your email address - %s", s.siteName), body); err != nil {
		return fmt.Errorf("failed to send email confirmation: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordReset(ctx context.Context, to, name, token string) error {
	link := s.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	body := fmt.Sprintf("Hello %s,\n\nA password reset was requested for your %s account. The link below is valid for 24 hours:\n\n%s\n\nIf you did not ask for this, you can ignore this email.\n\nBest regards,\nThe %s Team",
		name, s.siteName, link, s.siteName)

	if err := s.send(ctx, to, name, fmt.Sprintf("Password reset - %s", s.siteName), body); err != nil {
		return fmt.Errorf("failed to send password reset: %w", err)
	}
	return nil
}

func (s *emailService) SendJoinInvitation(ctx context.Context, to, fromName, message, key string) error {
	link := s.baseURL + "/signup?invitation=" + url.QueryEscape(key)
	body := fmt.Sprintf("Hello,\n\n%s has invited you to join %s.", fromName, s.siteName)
	if message != "" {
		body += fmt.Sprintf("\n\n%s", message)
	}
	body += fmt.Sprintf("\n\nSign up here:\n\n%s\n\nBest regards,\nThe %s Team", link, s.siteName)

	if err := s.send(ctx, to, "", fmt.Sprintf("%s invited you to %s", fromName, s.siteName), body); err != nil {
		return fmt.Errorf("failed to send join invitation: %w", err)
	}
	return nil
}

func (s *emailService) SendNotice(ctx context.Context, to, name, subject, body string) error {
	text := fmt.Sprintf("Hello %s,\n\n%s\n\nManage your notification settings at %s/notices/settings", name, body, s.baseURL)
	if err := s.send(ctx, to, name, fmt.Sprintf("[%s] %s", s.siteName, subject), text); err != nil {
		return fmt.Errorf("failed to send notice: %w", err)
	}
	return nil
}

func (s *emailService) send(ctx context.Context, to, name, subject, body string) error {
	return s.sender.Send(ctx, mailer.Message{
		To:      to,
		ToName:  name,
		Subject: subject,
		Text:    body,
	})
}
