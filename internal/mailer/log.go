package mailer

import (
	"context"
	"sync"

	"pinax-social-backend/internal/logger"
)

// LogSender writes messages to the log instead of delivering them.
// Sent messages are kept for inspection in development.
type LogSender struct {
	mu   sync.Mutex
	sent []Message
}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()

	logger.InfoContext(ctx, "Email (log provider)", "to", msg.To, "subject", msg.Subject, "body", msg.Text)
	return nil
}

// Sent returns a copy of every message sent so far
func (s *LogSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
