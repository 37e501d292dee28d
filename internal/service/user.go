package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"pinax-social-backend/internal/config"
	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/storage"
	"pinax-social-backend/internal/validation"
)

type profileRequest struct {
	Name     string `json:"name" validate:"max=100"`
	About    string `json:"about" validate:"max=2000"`
	Location string `json:"location" validate:"max=100"`
	Website  string `json:"website" validate:"omitempty,max=200,httpurl"`
	Timezone string `json:"timezone" validate:"timezone"`
	Language string `json:"language" validate:"max=10"`
}

// UploadPolicy bounds media uploads
type UploadPolicy struct {
	MaxBytes     int64
	AllowedTypes []string
}

func NewUploadPolicy(cfg config.StorageConfig, maxBytes int64) UploadPolicy {
	return UploadPolicy{MaxBytes: maxBytes, AllowedTypes: cfg.AllowedTypes}
}

func (p UploadPolicy) check(contentType string) error {
	if len(p.AllowedTypes) > 0 && !slices.Contains(p.AllowedTypes, contentType) {
		return invalidf("content type %q is not allowed", contentType)
	}
	return nil
}

type userService struct {
	userRepo         repository.UserRepository
	emailRepo        repository.EmailRepository
	avatarRepo       repository.AvatarRepository
	storage          storage.MediaStorage
	emailSvc         EmailService
	uploads          UploadPolicy
	confirmationDays int
}

func NewUserService(
	userRepo repository.UserRepository,
	emailRepo repository.EmailRepository,
	avatarRepo repository.AvatarRepository,
	store storage.MediaStorage,
	emailSvc EmailService,
	uploads UploadPolicy,
	confirmationDays int,
) UserService {
	return &userService{
		userRepo:         userRepo,
		emailRepo:        emailRepo,
		avatarRepo:       avatarRepo,
		storage:          store,
		emailSvc:         emailSvc,
		uploads:          uploads,
		confirmationDays: confirmationDays,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	return user, notFound(err, "user")
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, validation.CanonicalUsername(username))
	return user, notFound(err, "user")
}

func (s *userService) UpdateProfile(ctx context.Context, userID int32, in ProfileUpdate) (*domain.User, error) {
	req := profileRequest{
		Name:     strings.TrimSpace(in.Name),
		About:    strings.TrimSpace(in.About),
		Location: strings.TrimSpace(in.Location),
		Website:  strings.TrimSpace(in.Website),
		Timezone: strings.TrimSpace(in.Timezone),
		Language: strings.TrimSpace(in.Language),
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	user.Name = req.Name
	user.About = req.About
	user.Location = req.Location
	user.Website = req.Website
	if req.Timezone != "" {
		user.Timezone = req.Timezone
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ListEmails(ctx context.Context, userID int32) ([]domain.EmailAddress, error) {
	return s.emailRepo.ListAddresses(ctx, userID)
}

func (s *userService) AddEmail(ctx context.Context, userID int32, email string) (*domain.EmailAddress, error) {
	email = strings.TrimSpace(email)
	if err := validation.Struct(struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}{email}); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}
	if _, err := s.emailRepo.GetAddressByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email address is already in use", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	addr := &domain.EmailAddress{UserID: userID, Email: email}
	if err := s.emailRepo.CreateAddress(ctx, addr); err != nil {
		return nil, conflict(err, "email address")
	}
	if err := issueConfirmation(ctx, s.emailRepo, s.emailSvc, addr, user.Name); err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *userService) ConfirmEmail(ctx context.Context, key string) (*domain.EmailAddress, error) {
	conf, err := s.emailRepo.GetConfirmationByKey(ctx, key)
	if err != nil {
		return nil, notFound(err, "confirmation key")
	}
	if conf.Expired(time.Now().UTC(), s.confirmationDays) {
		if err := s.emailRepo.DeleteConfirmation(ctx, conf.ID); err != nil {
			logger.Warn("Failed to delete expired confirmation", "confirmationID", conf.ID, "error", err)
		}
		return nil, ErrExpired
	}

	if err := s.emailRepo.MarkVerified(ctx, conf.EmailAddressID); err != nil {
		return nil, notFound(err, "email address")
	}
	if err := s.emailRepo.DeleteConfirmation(ctx, conf.ID); err != nil {
		return nil, err
	}
	addr, err := s.emailRepo.GetAddress(ctx, conf.EmailAddressID)
	return addr, notFound(err, "email address")
}

func (s *userService) ownedAddress(ctx context.Context, userID, addressID int32) (*domain.EmailAddress, error) {
	addr, err := s.emailRepo.GetAddress(ctx, addressID)
	if err != nil {
		return nil, notFound(err, "email address")
	}
	if addr.UserID != userID {
		return nil, fmt.Errorf("email address %w", ErrNotFound)
	}
	return addr, nil
}

func (s *userService) SetPrimaryEmail(ctx context.Context, userID, addressID int32) error {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if !addr.Verified {
		return ErrEmailNotReady
	}
	if addr.Primary {
		return nil
	}
	return conflict(s.emailRepo.SetPrimary(ctx, userID, addressID), "email address")
}

func (s *userService) RemoveEmail(ctx context.Context, userID, addressID int32) error {
	addr, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return err
	}
	if addr.Primary {
		return ErrPrimaryEmail
	}
	return notFound(s.emailRepo.DeleteAddress(ctx, addressID), "email address")
}

func (s *userService) UploadAvatar(ctx context.Context, userID int32, filename, contentType string, r io.Reader) (*domain.Avatar, error) {
	logger.EnterMethod("userService.UploadAvatar", "userID", userID, "contentType", contentType)

	if err := s.uploads.check(contentType); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user")
	}

	key := storage.NewKey(fmt.Sprintf("avatars/%d", userID), filename)
	if _, err := s.storage.Save(ctx, key, r, s.uploads.MaxBytes); err != nil {
		logger.ExitMethodWithError("userService.UploadAvatar", err, "userID", userID)
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, invalidf("avatar exceeds the %d byte limit", s.uploads.MaxBytes)
		}
		return nil, err
	}

	avatar := &domain.Avatar{UserID: userID, StorageKey: key, URL: s.storage.URL(key)}
	if err := s.avatarRepo.Create(ctx, avatar); err != nil {
		s.discard(ctx, key)
		return nil, err
	}
	if err := s.makePrimary(ctx, user, avatar); err != nil {
		return nil, err
	}

	logger.ExitMethod("userService.UploadAvatar", "userID", userID, "avatarID", avatar.ID)
	return avatar, nil
}

func (s *userService) makePrimary(ctx context.Context, user *domain.User, avatar *domain.Avatar) error {
	if err := s.avatarRepo.SetPrimary(ctx, user.ID, avatar.ID); err != nil {
		return err
	}
	avatar.Primary = true
	user.AvatarURL = avatar.URL
	return s.userRepo.Update(ctx, user)
}

func (s *userService) discard(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete stored file", "key", key, "error", err)
	}
}

func (s *userService) ListAvatars(ctx context.Context, userID int32) ([]domain.Avatar, error) {
	return s.avatarRepo.ListByUser(ctx, userID)
}

func (s *userService) ownedAvatar(ctx context.Context, userID, avatarID int32) (*domain.Avatar, error) {
	avatar, err := s.avatarRepo.GetByID(ctx, avatarID)
	if err != nil {
		return nil, notFound(err, "avatar")
	}
	if avatar.UserID != userID {
		return nil, fmt.Errorf("avatar %w", ErrNotFound)
	}
	return avatar, nil
}

func (s *userService) SetPrimaryAvatar(ctx context.Context, userID, avatarID int32) error {
	avatar, err := s.ownedAvatar(ctx, userID, avatarID)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}
	return s.makePrimary(ctx, user, avatar)
}

func (s *userService) DeleteAvatar(ctx context.Context, userID, avatarID int32) error {
	avatar, err := s.ownedAvatar(ctx, userID, avatarID)
	if err != nil {
		return err
	}
	if err := s.avatarRepo.Delete(ctx, avatar.ID); err != nil {
		return notFound(err, "avatar")
	}
	s.discard(ctx, avatar.StorageKey)

	if !avatar.Primary {
		return nil
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}
	remaining, err := s.avatarRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(remaining) > 0 {
		return s.makePrimary(ctx, user, &remaining[0])
	}
	user.AvatarURL = ""
	return s.userRepo.Update(ctx, user)
}
