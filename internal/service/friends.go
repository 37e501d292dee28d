package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/validation"
)

type friendService struct {
	userRepo   repository.UserRepository
	friendRepo repository.FriendRepository
	joinRepo   repository.JoinInvitationRepository
	noticeSvc  NotificationService
	emailSvc   EmailService
	expiryDays int
}

func NewFriendService(
	userRepo repository.UserRepository,
	friendRepo repository.FriendRepository,
	joinRepo repository.JoinInvitationRepository,
	noticeSvc NotificationService,
	emailSvc EmailService,
	expiryDays int,
) FriendService {
	return &friendService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
		joinRepo:   joinRepo,
		noticeSvc:  noticeSvc,
		emailSvc:   emailSvc,
		expiryDays: expiryDays,
	}
}

func (s *friendService) InviteFriend(ctx context.Context, fromUserID, toUserID int32, message string) (*domain.FriendshipInvitation, error) {
	logger.EnterMethod("friendService.InviteFriend", "from", fromUserID, "to", toUserID)

	if fromUserID == toUserID {
		return nil, ErrSelfAction
	}
	sender, err := s.userRepo.GetByID(ctx, fromUserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if _, err := s.userRepo.GetByID(ctx, toUserID); err != nil {
		return nil, notFound(err, "user")
	}

	friends, err := s.friendRepo.AreFriends(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}
	if _, err := s.friendRepo.FindPendingInvitation(ctx, fromUserID, toUserID); err == nil {
		return nil, ErrInvitationPending
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	inv := &domain.FriendshipInvitation{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Message:    strings.TrimSpace(message),
		Status:     domain.InvitationStatusSent,
	}
	if err := s.friendRepo.CreateInvitation(ctx, inv); err != nil {
		logger.ExitMethodWithError("friendService.InviteFriend", err, "from", fromUserID, "to", toUserID)
		return nil, err
	}

	s.notify(ctx, toUserID, fromUserID, NoticeFriendsInvite,
		fmt.Sprintf("%s would like to be your friend", sender.Username),
		map[string]string{"username": sender.Username, "invitation_id": fmt.Sprint(inv.ID)})

	logger.ExitMethod("friendService.InviteFriend", "invitationID", inv.ID)
	return inv, nil
}

// pendingFor loads an invitation the user received that is still open.
func (s *friendService) pendingFor(ctx context.Context, userID, invitationID int32) (*domain.FriendshipInvitation, error) {
	inv, err := s.friendRepo.GetInvitation(ctx, invitationID)
	if err != nil {
		return nil, notFound(err, "invitation")
	}
	if inv.ToUserID != userID {
		return nil, fmt.Errorf("%w: only the recipient can answer an invitation", ErrForbidden)
	}
	if inv.Status != domain.InvitationStatusSent {
		return nil, ErrInvitationClosed
	}
	return inv, nil
}

func (s *friendService) AcceptInvitation(ctx context.Context, userID, invitationID int32) error {
	inv, err := s.pendingFor(ctx, userID, invitationID)
	if err != nil {
		return err
	}

	if err := s.friendRepo.CreateFriendship(ctx, inv.FromUserID, inv.ToUserID); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	if err := s.friendRepo.UpdateInvitationStatus(ctx, inv.ID, domain.InvitationStatusAccepted); err != nil {
		return err
	}

	if user, err := s.userRepo.GetByID(ctx, userID); err == nil {
		s.notify(ctx, inv.FromUserID, userID, NoticeFriendsAccept,
			fmt.Sprintf("%s accepted your friend request", user.Username),
			map[string]string{"username": user.Username})
	}
	return nil
}

func (s *friendService) DeclineInvitation(ctx context.Context, userID, invitationID int32) error {
	inv, err := s.pendingFor(ctx, userID, invitationID)
	if err != nil {
		return err
	}
	return s.friendRepo.UpdateInvitationStatus(ctx, inv.ID, domain.InvitationStatusDeclined)
}

func (s *friendService) ListInvitations(ctx context.Context, userID int32) ([]domain.FriendshipInvitation, []domain.FriendshipInvitation, error) {
	received, err := s.friendRepo.ListReceivedInvitations(ctx, userID, domain.InvitationStatusSent)
	if err != nil {
		return nil, nil, err
	}
	sent, err := s.friendRepo.ListSentInvitations(ctx, userID, domain.InvitationStatusSent)
	if err != nil {
		return nil, nil, err
	}
	return received, sent, nil
}

func (s *friendService) ListFriends(ctx context.Context, userID int32) ([]domain.User, error) {
	return s.friendRepo.ListFriends(ctx, userID)
}

func (s *friendService) AreFriends(ctx context.Context, a, b int32) (bool, error) {
	if a == b {
		return false, nil
	}
	return s.friendRepo.AreFriends(ctx, a, b)
}

func (s *friendService) RemoveFriend(ctx context.Context, userID, friendID int32) error {
	return notFound(s.friendRepo.DeleteFriendship(ctx, userID, friendID), "friendship")
}

func (s *friendService) InviteToJoin(ctx context.Context, fromUserID int32, email, message string) (*domain.JoinInvitation, error) {
	email = strings.TrimSpace(email)
	if err := validation.Struct(struct {
		Email   string `json:"email" validate:"required,email,max=254"`
		Message string `json:"message" validate:"max=1000"`
	}{email, message}); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, fromUserID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, ErrAlreadyMember
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	inv := &domain.JoinInvitation{
		FromUserID:      fromUserID,
		Email:           email,
		Message:         strings.TrimSpace(message),
		Status:          domain.InvitationStatusSent,
		ConfirmationKey: uuid.NewString(),
	}
	if err := s.joinRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	fromName := sender.Name
	if fromName == "" {
		fromName = sender.Username
	}
	if err := s.emailSvc.SendJoinInvitation(ctx, email, fromName, inv.Message, inv.ConfirmationKey); err != nil {
		logger.Error("Failed to send join invitation", "invitationID", inv.ID, "error", err)
	}
	return inv, nil
}

func (s *friendService) ListJoinInvitations(ctx context.Context, userID int32) ([]domain.JoinInvitation, error) {
	return s.joinRepo.ListSent(ctx, userID)
}

func (s *friendService) ExpireJoinInvitations(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.AddDate(0, 0, -s.expiryDays)
	n, err := s.joinRepo.ExpireSentBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire join invitations: %w", err)
	}
	return n, nil
}

func (s *friendService) notify(ctx context.Context, recipientID, senderID int32, label, message string, attrs map[string]string) {
	err := s.noticeSvc.Send(ctx, NoticeInput{
		Recipients: []int32{recipientID},
		SenderID:   &senderID,
		Label:      label,
		Message:    message,
		Attributes: attrs,
		Queue:      true,
	})
	if err != nil {
		logger.Error("Failed to send notice", "label", label, "recipient", recipientID, "error", err)
	}
}
