package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/validation"
)

const replyPrefix = "Re: "

type composeRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1,max=50,dive,required"`
	Subject    string   `json:"subject" validate:"required,max=120"`
	Body       string   `json:"body" validate:"required,max=20000"`
}

type messageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	noticeSvc   NotificationService
	purgeAfter  time.Duration
	now         func() time.Time
}

func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository, noticeSvc NotificationService, purgeDays int) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		noticeSvc:   noticeSvc,
		purgeAfter:  time.Duration(purgeDays) * 24 * time.Hour,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *messageService) Compose(ctx context.Context, senderID int32, in ComposeInput) ([]domain.Message, error) {
	logger.EnterMethod("messageService.Compose", "senderID", senderID, "recipients", len(in.Recipients))

	req := composeRequest{Subject: strings.TrimSpace(in.Subject), Body: strings.TrimSpace(in.Body)}
	seen := make(map[string]bool, len(in.Recipients))
	for _, name := range in.Recipients {
		name = validation.CanonicalUsername(name)
		if seen[name] {
			return nil, invalidf("recipient %q listed more than once", name)
		}
		seen[name] = true
		req.Recipients = append(req.Recipients, name)
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByUsernames(ctx, req.Recipients)
	if err != nil {
		return nil, err
	}
	if len(users) != len(req.Recipients) {
		found := make(map[string]bool, len(users))
		for _, u := range users {
			found[u.Username] = true
		}
		for _, name := range req.Recipients {
			if !found[name] {
				return nil, fmt.Errorf("recipient %q %w", name, ErrNotFound)
			}
		}
	}

	var parent *domain.Message
	if in.ParentID != nil {
		parent, err = s.messageRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, notFound(err, "parent message")
		}
		if parent.RecipientID != senderID {
			return nil, fmt.Errorf("%w: can only reply to messages you received", ErrForbidden)
		}
	}

	sent := make([]domain.Message, 0, len(users))
	for _, u := range users {
		msg := &domain.Message{
			Subject:     req.Subject,
			Body:        req.Body,
			SenderID:    senderID,
			RecipientID: u.ID,
			ParentID:    in.ParentID,
			SentAt:      s.now(),
		}
		if err := s.messageRepo.Create(ctx, msg); err != nil {
			logger.ExitMethodWithError("messageService.Compose", err, "senderID", senderID)
			return nil, err
		}
		sent = append(sent, *msg)
	}

	label := NoticeMessageReceived
	if parent != nil {
		repliedAt := s.now()
		parent.RepliedAt = &repliedAt
		if err := s.messageRepo.Update(ctx, parent); err != nil {
			return nil, err
		}
		label = NoticeMessageReply
	}
	s.notify(ctx, senderID, label, sent)

	logger.ExitMethod("messageService.Compose", "senderID", senderID, "sent", len(sent))
	return sent, nil
}

func (s *messageService) notify(ctx context.Context, senderID int32, label string, sent []domain.Message) {
	for _, msg := range sent {
		err := s.noticeSvc.Send(ctx, NoticeInput{
			Recipients: []int32{msg.RecipientID},
			SenderID:   &senderID,
			Label:      label,
			Message:    msg.Subject,
			Attributes: map[string]string{"message_id": fmt.Sprint(msg.ID)},
			Queue:      true,
		})
		if err != nil {
			logger.Error("Failed to send message notice", "messageID", msg.ID, "error", err)
		}
	}
}

func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), strings.ToLower(replyPrefix)) {
		return subject
	}
	return replyPrefix + subject
}

func (s *messageService) Reply(ctx context.Context, userID, messageID int32, body string) (*domain.Message, error) {
	parent, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, notFound(err, "message")
	}
	if parent.RecipientID != userID {
		return nil, fmt.Errorf("%w: can only reply to messages you received", ErrForbidden)
	}
	sender, err := s.userRepo.GetByID(ctx, parent.SenderID)
	if err != nil {
		return nil, notFound(err, "sender")
	}

	sent, err := s.Compose(ctx, userID, ComposeInput{
		Recipients: []string{sender.Username},
		Subject:    replySubject(parent.Subject),
		Body:       body,
		ParentID:   &parent.ID,
	})
	if err != nil {
		return nil, err
	}
	return &sent[0], nil
}

func (s *messageService) Inbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	return s.messageRepo.Inbox(ctx, userID)
}

func (s *messageService) Outbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	return s.messageRepo.Outbox(ctx, userID)
}

func (s *messageService) Trash(ctx context.Context, userID int32) ([]domain.Message, error) {
	return s.messageRepo.Trash(ctx, userID)
}

func (s *messageService) involved(ctx context.Context, userID, messageID int32) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, notFound(err, "message")
	}
	if !msg.Involves(userID) {
		return nil, fmt.Errorf("%w: not your message", ErrForbidden)
	}
	return msg, nil
}

func (s *messageService) View(ctx context.Context, userID, messageID int32) (*domain.Message, error) {
	msg, err := s.involved(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}
	if msg.RecipientID == userID && msg.Unread() {
		readAt := s.now()
		msg.ReadAt = &readAt
		if err := s.messageRepo.Update(ctx, msg); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

func (s *messageService) Delete(ctx context.Context, userID, messageID int32) error {
	msg, err := s.involved(ctx, userID, messageID)
	if err != nil {
		return err
	}
	now := s.now()
	if msg.SenderID == userID && msg.SenderDeletedAt == nil {
		msg.SenderDeletedAt = &now
	}
	if msg.RecipientID == userID && msg.RecipientDeletedAt == nil {
		msg.RecipientDeletedAt = &now
	}
	return s.messageRepo.Update(ctx, msg)
}

func (s *messageService) Undelete(ctx context.Context, userID, messageID int32) error {
	msg, err := s.involved(ctx, userID, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID == userID {
		msg.SenderDeletedAt = nil
	}
	if msg.RecipientID == userID {
		msg.RecipientDeletedAt = nil
	}
	return s.messageRepo.Update(ctx, msg)
}

func (s *messageService) UnreadCount(ctx context.Context, userID int32) (int32, error) {
	return s.messageRepo.CountUnread(ctx, userID)
}

func (s *messageService) PurgeDeleted(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-s.purgeAfter)
	n, err := s.messageRepo.PurgeDeleted(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge messages: %w", err)
	}
	logger.Info("Purged deleted messages", "count", n, "cutoff", cutoff)
	return n, nil
}
