package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/storage"
	"pinax-social-backend/internal/tagging"
	"pinax-social-backend/internal/validation"
)

type photoRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Caption string `json:"caption" validate:"max=2000"`
}

type photoService struct {
	photoRepo repository.PhotoRepository
	userRepo  repository.UserRepository
	tagRepo   repository.TagRepository
	storage   storage.MediaStorage
	uploads   UploadPolicy
	groups    groupAccess
}

func NewPhotoService(
	photoRepo repository.PhotoRepository,
	userRepo repository.UserRepository,
	tagRepo repository.TagRepository,
	tribeRepo repository.TribeRepository,
	projectRepo repository.ProjectRepository,
	store storage.MediaStorage,
	uploads UploadPolicy,
) PhotoService {
	return &photoService{
		photoRepo: photoRepo,
		userRepo:  userRepo,
		tagRepo:   tagRepo,
		storage:   store,
		uploads:   uploads,
		groups:    groupAccess{tribeRepo: tribeRepo, projectRepo: projectRepo},
	}
}

func photoRef(id int32) domain.ObjectRef {
	return domain.ObjectRef{Type: domain.ObjectTypePhoto, ID: id}
}

func (s *photoService) Upload(ctx context.Context, memberID int32, in PhotoUpload, r io.Reader) (*domain.Photo, error) {
	logger.EnterMethod("photoService.Upload", "memberID", memberID, "contentType", in.ContentType)

	req := photoRequest{Title: strings.TrimSpace(in.Title), Caption: strings.TrimSpace(in.Caption)}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.uploads.check(in.ContentType); err != nil {
		return nil, err
	}
	if req.Title == "" {
		req.Title = in.Filename
	}

	key := storage.NewKey(fmt.Sprintf("photos/%d", memberID), in.Filename)
	size, err := s.storage.Save(ctx, key, r, s.uploads.MaxBytes)
	if err != nil {
		logger.ExitMethodWithError("photoService.Upload", err, "memberID", memberID)
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, invalidf("photo exceeds the %d byte limit", s.uploads.MaxBytes)
		}
		return nil, err
	}

	photo := &domain.Photo{
		MemberID:    memberID,
		Title:       req.Title,
		Caption:     req.Caption,
		StorageKey:  key,
		URL:         s.storage.URL(key),
		ContentType: in.ContentType,
		FileSize:    size,
		IsPublic:    in.IsPublic,
		SafetyLevel: domain.SafetyLevelSafe,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		s.discard(ctx, key)
		return nil, err
	}
	photo.Tags = tagging.ParseTagInput(in.Tags)
	if len(photo.Tags) > 0 {
		if err := s.tagRepo.SetTags(ctx, photoRef(photo.ID), photo.Tags); err != nil {
			return nil, err
		}
	}

	logger.ExitMethod("photoService.Upload", "photoID", photo.ID, "size", size)
	return photo, nil
}

func (s *photoService) discard(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.Warn("Failed to delete stored file", "key", key, "error", err)
	}
}

func (s *photoService) withTags(ctx context.Context, photo *domain.Photo) error {
	tags, err := s.tagRepo.TagsFor(ctx, photoRef(photo.ID))
	if err != nil {
		return err
	}
	photo.Tags = tags
	photo.URL = s.storage.URL(photo.StorageKey)
	return nil
}

func (s *photoService) GetPhoto(ctx context.Context, viewerID, id int32) (*domain.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "photo")
	}
	if photo.MemberID != viewerID {
		if !photo.IsPublic {
			return nil, fmt.Errorf("photo %w", ErrNotFound)
		}
		if err := s.photoRepo.IncrementViewCount(ctx, id); err != nil {
			logger.Warn("Failed to count photo view", "photoID", id, "error", err)
		} else {
			photo.ViewCount++
		}
	}
	if err := s.withTags(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *photoService) ListUserPhotos(ctx context.Context, username string, viewerID int32) ([]domain.Photo, error) {
	owner, err := s.userRepo.GetByUsername(ctx, validation.CanonicalUsername(username))
	if err != nil {
		return nil, notFound(err, "user")
	}
	photos, err := s.photoRepo.ListByMember(ctx, owner.ID, owner.ID == viewerID)
	if err != nil {
		return nil, err
	}
	for i := range photos {
		photos[i].URL = s.storage.URL(photos[i].StorageKey)
	}
	return photos, nil
}

func (s *photoService) owned(ctx context.Context, userID, id int32) (*domain.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "photo")
	}
	if photo.MemberID != userID {
		return nil, fmt.Errorf("%w: not your photo", ErrForbidden)
	}
	return photo, nil
}

func (s *photoService) UpdatePhoto(ctx context.Context, userID, id int32, in PhotoUpdate) (*domain.Photo, error) {
	req := photoRequest{Title: strings.TrimSpace(in.Title), Caption: strings.TrimSpace(in.Caption)}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if in.SafetyLevel != 0 && (in.SafetyLevel < domain.SafetyLevelSafe || in.SafetyLevel > domain.SafetyLevelNotSafe) {
		return nil, invalidf("unknown safety level %d", in.SafetyLevel)
	}
	photo, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		photo.Title = req.Title
	}
	photo.Caption = req.Caption
	photo.IsPublic = in.IsPublic
	if in.SafetyLevel != 0 {
		photo.SafetyLevel = in.SafetyLevel
	}
	if err := s.photoRepo.Update(ctx, photo); err != nil {
		return nil, err
	}
	if in.Tags != nil {
		if err := s.tagRepo.SetTags(ctx, photoRef(photo.ID), tagging.ParseTagInput(*in.Tags)); err != nil {
			return nil, err
		}
	}
	if err := s.withTags(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *photoService) DeletePhoto(ctx context.Context, userID, id int32) error {
	photo, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.tagRepo.SetTags(ctx, photoRef(photo.ID), nil); err != nil {
		return err
	}
	// pool rows go with the photo row
	if err := s.photoRepo.Delete(ctx, photo.ID); err != nil {
		return notFound(err, "photo")
	}
	s.discard(ctx, photo.StorageKey)
	logger.Info("Photo deleted", "photoID", photo.ID, "memberID", userID)
	return nil
}

func (s *photoService) AddToPool(ctx context.Context, userID, photoID int32, groupType domain.GroupType, slug string) error {
	photo, err := s.owned(ctx, userID, photoID)
	if err != nil {
		return err
	}
	groupID, err := s.groups.resolve(ctx, groupType, slug)
	if err != nil {
		return err
	}
	if err := s.groups.requireMember(ctx, groupType, groupID, userID); err != nil {
		return err
	}
	err = s.photoRepo.AddToPool(ctx, &domain.PhotoPool{PhotoID: photo.ID, GroupType: groupType, GroupID: groupID})
	return conflict(err, "pool entry")
}

func (s *photoService) RemoveFromPool(ctx context.Context, userID, photoID int32, groupType domain.GroupType, slug string) error {
	photo, err := s.owned(ctx, userID, photoID)
	if err != nil {
		return err
	}
	groupID, err := s.groups.resolve(ctx, groupType, slug)
	if err != nil {
		return err
	}
	return notFound(s.photoRepo.RemoveFromPool(ctx, photo.ID, groupType, groupID), "pool entry")
}

func (s *photoService) ListPool(ctx context.Context, viewerID int32, groupType domain.GroupType, slug string) ([]domain.Photo, error) {
	groupID, err := s.groups.resolveVisible(ctx, groupType, slug, viewerID)
	if err != nil {
		return nil, err
	}
	photos, err := s.photoRepo.ListPool(ctx, groupType, groupID)
	if err != nil {
		return nil, err
	}
	visible := photos[:0]
	for _, p := range photos {
		if p.IsPublic || p.MemberID == viewerID {
			p.URL = s.storage.URL(p.StorageKey)
			visible = append(visible, p)
		}
	}
	return visible, nil
}
