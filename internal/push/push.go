// Package push delivers notices to mobile devices through Firebase Cloud Messaging.
package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"pinax-social-backend/internal/logger"
)

// Notification is a push payload for one user's devices
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers push notifications. It returns the tokens the provider reported
// as no longer registered so the caller can drop them.
type Sender interface {
	Send(ctx context.Context, tokens []string, n Notification) (stale []string, err error)
}

type multicastClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FirebaseSender sends through FCM
type FirebaseSender struct {
	client multicastClient
}

// NewFirebaseSender initializes the Firebase app from a service account file
func NewFirebaseSender(ctx context.Context, credentialsFile string) (*FirebaseSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return &FirebaseSender{client: client}, nil
}

func (s *FirebaseSender) Send(ctx context.Context, tokens []string, n Notification) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	msg := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
	}

	logger.ExternalServiceCall("FCM", "SendEachForMulticast", "tokens", len(tokens))
	resp, err := s.client.SendEachForMulticast(ctx, msg)
	if err != nil {
		logger.ExternalServiceResult("FCM", "SendEachForMulticast", err)
		return nil, fmt.Errorf("failed to send push notification: %w", err)
	}
	logger.ExternalServiceResult("FCM", "SendEachForMulticast", nil, "success", resp.SuccessCount, "failure", resp.FailureCount)

	var stale []string
	var lastErr error
	for i, r := range resp.Responses {
		if r.Success {
			continue
		}
		if messaging.IsUnregistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
			stale = append(stale, tokens[i])
			continue
		}
		lastErr = r.Error
	}

	if resp.SuccessCount == 0 && lastErr != nil {
		return stale, fmt.Errorf("push delivery failed for all devices: %w", lastErr)
	}
	return stale, nil
}

// NoopSender is used when push delivery is disabled
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, tokens []string, n Notification) ([]string, error) {
	logger.Debug("Push disabled, dropping notification", "tokens", len(tokens), "title", n.Title)
	return nil, nil
}
