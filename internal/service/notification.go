package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/push"
	"pinax-social-backend/internal/repository"
)

// Built-in notice types
const (
	NoticeFriendsInvite     = "friends_invite"
	NoticeFriendsAccept     = "friends_accept"
	NoticeJoinAccept        = "join_accept"
	NoticeTribesNewMember   = "tribes_new_member"
	NoticeProjectsNewMember = "projects_new_member"
	NoticeTasksChange       = "tasks_change"
	NoticeMessageReceived   = "messages_received"
	NoticeMessageReply      = "messages_reply_received"
	NoticeTweetReply        = "tweet_reply"
)

// MaxDeliveryAttempts bounds retries of a queued notice
const MaxDeliveryAttempts = 5

var errPushDisabled = errors.New("push delivery is disabled")

var builtinNoticeTypes = []domain.NoticeType{
	{Label: NoticeFriendsInvite, Display: "Invitation Received", Description: "you have received an invitation", DefaultSend: true},
	{Label: NoticeFriendsAccept, Display: "Acceptance Received", Description: "an invitation you sent has been accepted", DefaultSend: true},
	{Label: NoticeJoinAccept, Display: "Invitation Accepted", Description: "someone you invited has joined", DefaultSend: true},
	{Label: NoticeTribesNewMember, Display: "New Tribe Member", Description: "a tribe you are a member of has a new member", DefaultSend: true},
	{Label: NoticeProjectsNewMember, Display: "New Project Member", Description: "a project you are a member of has a new member", DefaultSend: true},
	{Label: NoticeTasksChange, Display: "Task Change", Description: "a task you created or are assigned has changed", DefaultSend: true},
	{Label: NoticeMessageReceived, Display: "Message Received", Description: "you have received a message", DefaultSend: true},
	{Label: NoticeMessageReply, Display: "Reply Received", Description: "you have received a reply to a message", DefaultSend: true},
	{Label: NoticeTweetReply, Display: "Tweet Reply", Description: "someone mentioned you in a tweet", DefaultSend: false},
}

type notificationService struct {
	repo        repository.NotificationRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService
	pusher      push.Sender
	pushEnabled bool
}

func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	pusher push.Sender,
	pushEnabled bool,
) NotificationService {
	return &notificationService{
		repo:        repo,
		userRepo:    userRepo,
		emailSvc:    emailSvc,
		pusher:      pusher,
		pushEnabled: pushEnabled,
	}
}

func (s *notificationService) RegisterNoticeType(ctx context.Context, label, display, description string, defaultSend bool) error {
	label = strings.TrimSpace(label)
	if label == "" || display == "" {
		return invalidf("notice type needs a label and a display name")
	}
	return s.repo.UpsertType(ctx, &domain.NoticeType{
		Label:       label,
		Display:     display,
		Description: description,
		DefaultSend: defaultSend,
	})
}

func (s *notificationService) RegisterBuiltinTypes(ctx context.Context) error {
	for _, nt := range builtinNoticeTypes {
		if err := s.RegisterNoticeType(ctx, nt.Label, nt.Display, nt.Description, nt.DefaultSend); err != nil {
			return fmt.Errorf("failed to register notice type %s: %w", nt.Label, err)
		}
	}
	logger.Info("Registered notice types", "count", len(builtinNoticeTypes))
	return nil
}

func (s *notificationService) canPush() bool {
	return s.pushEnabled && s.pusher != nil
}

func (s *notificationService) mediums() []domain.NoticeMedium {
	if s.canPush() {
		return domain.NoticeMediums
	}
	return []domain.NoticeMedium{domain.NoticeMediumEmail}
}

func (s *notificationService) Send(ctx context.Context, in NoticeInput) error {
	logger.EnterMethod("notificationService.Send", "label", in.Label, "recipients", len(in.Recipients), "queue", in.Queue)

	nt, err := s.repo.GetType(ctx, in.Label)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalidf("unknown notice type %q", in.Label)
		}
		return err
	}

	var result *multierror.Error
	seen := make(map[int32]bool, len(in.Recipients))
	for _, recipientID := range in.Recipients {
		if seen[recipientID] || (in.SenderID != nil && *in.SenderID == recipientID) {
			continue
		}
		seen[recipientID] = true

		notice := &domain.Notice{
			RecipientID: recipientID,
			SenderID:    in.SenderID,
			NoticeType:  nt.Label,
			Message:     in.Message,
			Attributes:  in.Attributes,
			Unseen:      true,
		}
		if err := s.repo.Create(ctx, notice); err != nil {
			result = multierror.Append(result, fmt.Errorf("recipient %d: %w", recipientID, err))
			continue
		}

		for _, medium := range s.mediums() {
			send, err := s.shouldSend(ctx, recipientID, nt, medium)
			if err != nil {
				result = multierror.Append(result, err)
				continue
			}
			if !send {
				continue
			}
			if in.Queue {
				if err := s.repo.Enqueue(ctx, notice.ID, medium); err != nil {
					result = multierror.Append(result, err)
				}
				continue
			}
			if err := s.deliver(ctx, notice, nt, medium); err != nil {
				logger.Error("Notice delivery failed", "noticeID", notice.ID, "medium", medium, "error", err)
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		logger.ExitMethodWithError("notificationService.Send", err, "label", in.Label)
		return err
	}
	logger.ExitMethod("notificationService.Send", "label", in.Label, "delivered_to", len(seen))
	return nil
}

// shouldSend applies the user's setting, falling back to the type default
func (s *notificationService) shouldSend(ctx context.Context, userID int32, nt *domain.NoticeType, medium domain.NoticeMedium) (bool, error) {
	setting, err := s.repo.GetSetting(ctx, userID, nt.Label, medium)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nt.DefaultSend, nil
		}
		return false, err
	}
	return setting.Send, nil
}

func (s *notificationService) deliver(ctx context.Context, notice *domain.Notice, nt *domain.NoticeType, medium domain.NoticeMedium) error {
	switch medium {
	case domain.NoticeMediumEmail:
		user, err := s.userRepo.GetByID(ctx, notice.RecipientID)
		if err != nil {
			return err
		}
		name := user.Name
		if name == "" {
			name = user.Username
		}
		return s.emailSvc.SendNotice(ctx, user.Email, name, nt.Display, notice.Message)

	case domain.NoticeMediumPush:
		if !s.canPush() {
			return errPushDisabled
		}
		devices, err := s.repo.ListDevices(ctx, notice.RecipientID)
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			return nil
		}
		tokens := make([]string, len(devices))
		for i, d := range devices {
			tokens[i] = d.Token
		}
		data := map[string]string{"notice_id": fmt.Sprint(notice.ID), "notice_type": nt.Label}
		for k, v := range notice.Attributes {
			data[k] = v
		}
		stale, err := s.pusher.Send(ctx, tokens, push.Notification{Title: nt.Display, Body: notice.Message, Data: data})
		for _, token := range stale {
			if derr := s.repo.DeleteDevice(ctx, notice.RecipientID, token); derr != nil {
				logger.Warn("Failed to drop stale device", "userID", notice.RecipientID, "error", derr)
			}
		}
		return err
	}
	return fmt.Errorf("unknown medium %q", medium)
}

func (s *notificationService) EmitQueued(ctx context.Context, limit int32) (*EmitResult, error) {
	logger.EnterMethod("notificationService.EmitQueued", "limit", limit)

	queued, err := s.repo.ListQueued(ctx, MaxDeliveryAttempts, limit)
	if err != nil {
		logger.ExitMethodWithError("notificationService.EmitQueued", err)
		return nil, err
	}

	result := &EmitResult{}
	types := make(map[string]*domain.NoticeType)
	for _, item := range queued {
		if item.Medium == domain.NoticeMediumPush && !s.canPush() {
			// queued while push was enabled
			if err := s.repo.DeleteQueued(ctx, item.ID); err != nil {
				return result, err
			}
			result.Dropped++
			continue
		}

		notice, err := s.repo.GetByID(ctx, item.NoticeID)
		if errors.Is(err, repository.ErrNotFound) {
			// the notice was deleted by its recipient
			if err := s.repo.DeleteQueued(ctx, item.ID); err != nil {
				return result, err
			}
			continue
		}
		if err != nil {
			return result, err
		}

		nt, ok := types[notice.NoticeType]
		if !ok {
			if nt, err = s.repo.GetType(ctx, notice.NoticeType); err != nil {
				return result, err
			}
			types[notice.NoticeType] = nt
		}

		if err := s.deliver(ctx, notice, nt, item.Medium); err != nil {
			result.Failed++
			logger.Warn("Queued notice delivery failed", "queueID", item.ID, "attempt", item.Attempts+1, "error", err)
			if rerr := s.repo.RecordQueueFailure(ctx, item.ID, err.Error()); rerr != nil {
				return result, rerr
			}
			continue
		}
		if err := s.repo.DeleteQueued(ctx, item.ID); err != nil {
			return result, err
		}
		result.Delivered++
	}

	logger.ExitMethod("notificationService.EmitQueued", "delivered", result.Delivered, "failed", result.Failed, "dropped", result.Dropped)
	return result, nil
}

func (s *notificationService) List(ctx context.Context, userID int32, unseenOnly bool, page, pageSize int32) ([]domain.Notice, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.repo.List(ctx, userID, unseenOnly, page, pageSize)
}

func (s *notificationService) UnseenCount(ctx context.Context, userID int32) (int32, error) {
	return s.repo.CountUnseen(ctx, userID)
}

func (s *notificationService) MarkSeen(ctx context.Context, userID, noticeID int32) error {
	return notFound(s.repo.MarkSeen(ctx, userID, noticeID), "notice")
}

func (s *notificationService) MarkAllSeen(ctx context.Context, userID int32) (int64, error) {
	return s.repo.MarkAllSeen(ctx, userID)
}

func (s *notificationService) Archive(ctx context.Context, userID, noticeID int32) error {
	return notFound(s.repo.Archive(ctx, userID, noticeID), "notice")
}

func (s *notificationService) Delete(ctx context.Context, userID, noticeID int32) error {
	return notFound(s.repo.Delete(ctx, userID, noticeID), "notice")
}

func (s *notificationService) GetSettings(ctx context.Context, userID int32) ([]domain.NoticeSetting, error) {
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.ListSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	overrides := make(map[string]bool, len(stored))
	for _, st := range stored {
		overrides[st.NoticeType+"/"+string(st.Medium)] = st.Send
	}

	var settings []domain.NoticeSetting
	for _, nt := range types {
		for _, medium := range s.mediums() {
			send, ok := overrides[nt.Label+"/"+string(medium)]
			if !ok {
				send = nt.DefaultSend
			}
			settings = append(settings, domain.NoticeSetting{UserID: userID, NoticeType: nt.Label, Medium: medium, Send: send})
		}
	}
	return settings, nil
}

func (s *notificationService) UpdateSetting(ctx context.Context, userID int32, label string, medium domain.NoticeMedium, send bool) error {
	if !medium.Valid() {
		return invalidf("unknown medium %q", medium)
	}
	if _, err := s.repo.GetType(ctx, label); err != nil {
		return notFound(err, "notice type")
	}
	return s.repo.UpsertSetting(ctx, &domain.NoticeSetting{UserID: userID, NoticeType: label, Medium: medium, Send: send})
}

func (s *notificationService) RegisterDevice(ctx context.Context, userID int32, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return invalidf("device token is required")
	}
	switch platform {
	case "ios", "android", "web":
	default:
		return invalidf("platform must be one of: ios android web")
	}
	return s.repo.UpsertDevice(ctx, &domain.Device{UserID: userID, Token: token, Platform: platform})
}

func (s *notificationService) UnregisterDevice(ctx context.Context, userID int32, token string) error {
	return notFound(s.repo.DeleteDevice(ctx, userID, token), "device")
}
