package service

import (
	"context"
	"fmt"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
)

type tribeService struct {
	tribeRepo repository.TribeRepository
	userRepo  repository.UserRepository
	noticeSvc NotificationService
}

func NewTribeService(tribeRepo repository.TribeRepository, userRepo repository.UserRepository, noticeSvc NotificationService) TribeService {
	return &tribeService{tribeRepo: tribeRepo, userRepo: userRepo, noticeSvc: noticeSvc}
}

func (s *tribeService) CreateTribe(ctx context.Context, userID int32, in GroupInput) (*domain.Tribe, error) {
	in, err := validateGroup(in)
	if err != nil {
		return nil, err
	}

	tribe := &domain.Tribe{
		Slug:        in.Slug,
		Name:        in.Name,
		Description: in.Description,
		CreatorID:   userID,
		Private:     in.Private,
	}
	if err := s.tribeRepo.Create(ctx, tribe); err != nil {
		return nil, conflict(err, "tribe with this slug or name")
	}

	logger.Info("Tribe created", "tribeID", tribe.ID, "slug", tribe.Slug, "creatorID", userID)
	return tribe, nil
}

func (s *tribeService) GetTribe(ctx context.Context, slug string) (*domain.Tribe, error) {
	tribe, err := s.tribeRepo.GetBySlug(ctx, slug)
	return tribe, notFound(err, "tribe")
}

func (s *tribeService) ListTribes(ctx context.Context, query string, page, pageSize int32) ([]domain.Tribe, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.tribeRepo.List(ctx, query, page, pageSize)
}

func (s *tribeService) ListUserTribes(ctx context.Context, userID int32) ([]domain.Tribe, error) {
	return s.tribeRepo.ListByMember(ctx, userID)
}

func (s *tribeService) UpdateTribe(ctx context.Context, userID int32, slug string, in GroupInput) (*domain.Tribe, error) {
	tribe, err := s.tribeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "tribe")
	}
	if tribe.CreatorID != userID {
		return nil, fmt.Errorf("%w: only the creator can edit a tribe", ErrForbidden)
	}

	in.Slug = tribe.Slug
	in, err = validateGroup(in)
	if err != nil {
		return nil, err
	}
	tribe.Name = in.Name
	tribe.Description = in.Description
	tribe.Private = in.Private
	if err := s.tribeRepo.Update(ctx, tribe); err != nil {
		return nil, conflict(err, "tribe with this name")
	}
	return tribe, nil
}

func (s *tribeService) JoinTribe(ctx context.Context, userID int32, slug string) error {
	tribe, err := s.tribeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "tribe")
	}
	member, err := s.tribeRepo.IsMember(ctx, tribe.ID, userID)
	if err != nil {
		return err
	}
	if member {
		return ErrAlreadyMember
	}
	if tribe.Private {
		return fmt.Errorf("%w: private tribes cannot be joined directly", ErrForbidden)
	}

	existing, err := s.tribeRepo.ListMembers(ctx, tribe.ID)
	if err != nil {
		return err
	}
	if err := s.tribeRepo.AddMember(ctx, tribe.ID, userID); err != nil {
		return conflict(err, "membership")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load joining user for tribe notice", "tribeID", tribe.ID, "userID", userID, "error", err)
		return nil
	}
	recipients := make([]int32, 0, len(existing))
	for _, m := range existing {
		recipients = append(recipients, m.UserID)
	}
	err = s.noticeSvc.Send(ctx, NoticeInput{
		Recipients: recipients,
		SenderID:   &userID,
		Label:      NoticeTribesNewMember,
		Message:    fmt.Sprintf("%s joined the tribe %s", user.Username, tribe.Name),
		Attributes: map[string]string{"tribe": tribe.Slug, "username": user.Username},
		Queue:      true,
	})
	if err != nil {
		logger.Error("Failed to notify tribe members", "tribeID", tribe.ID, "error", err)
	}
	return nil
}

func (s *tribeService) LeaveTribe(ctx context.Context, userID int32, slug string) error {
	tribe, err := s.tribeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "tribe")
	}
	member, err := s.tribeRepo.IsMember(ctx, tribe.ID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotMember
	}
	count, err := s.tribeRepo.CountMembers(ctx, tribe.ID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastMember
	}
	return s.tribeRepo.RemoveMember(ctx, tribe.ID, userID)
}

func (s *tribeService) DeleteTribe(ctx context.Context, userID int32, slug string) error {
	tribe, err := s.tribeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "tribe")
	}
	if tribe.CreatorID != userID {
		return fmt.Errorf("%w: only the creator can delete a tribe", ErrForbidden)
	}
	members, err := s.tribeRepo.ListMembers(ctx, tribe.ID)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.UserID != tribe.CreatorID {
			return ErrGroupNotEmpty
		}
	}
	return s.tribeRepo.Delete(ctx, tribe.ID)
}

func (s *tribeService) ListMembers(ctx context.Context, slug string) ([]domain.TribeMember, error) {
	tribe, err := s.tribeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "tribe")
	}
	return s.tribeRepo.ListMembers(ctx, tribe.ID)
}
