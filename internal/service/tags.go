package service

import (
	"context"
	"strings"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/tagging"
)

const defaultCloudSteps = 4

type tagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) TagService {
	return &tagService{tagRepo: tagRepo}
}

func checkRef(ref domain.ObjectRef) error {
	if !ref.Type.Valid() {
		return invalidf("unknown object type %q", ref.Type)
	}
	if ref.ID <= 0 {
		return invalidf("object id must be positive")
	}
	return nil
}

func (s *tagService) SetTags(ctx context.Context, ref domain.ObjectRef, input string) ([]string, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	tags := tagging.ParseTagInput(input)
	if err := s.tagRepo.SetTags(ctx, ref, tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *tagService) TagsFor(ctx context.Context, ref domain.ObjectRef) ([]string, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	return s.tagRepo.TagsFor(ctx, ref)
}

func (s *tagService) ObjectsWithTag(ctx context.Context, objectType domain.ObjectType, tag string) ([]int32, error) {
	if !objectType.Valid() {
		return nil, invalidf("unknown object type %q", objectType)
	}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, invalidf("tag is required")
	}
	return s.tagRepo.ObjectsWithTag(ctx, objectType, tag)
}

// Cloud counts tags across objectType, or across every type when objectType is empty.
func (s *tagService) Cloud(ctx context.Context, objectType domain.ObjectType, steps int, dist tagging.Distribution) ([]domain.TagCount, error) {
	if objectType != "" && !objectType.Valid() {
		return nil, invalidf("unknown object type %q", objectType)
	}
	if steps <= 0 {
		steps = defaultCloudSteps
	}
	counts, err := s.tagRepo.Counts(ctx, objectType)
	if err != nil {
		return nil, err
	}
	return tagging.Cloud(counts, steps, dist), nil
}
