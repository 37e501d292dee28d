package service

import (
	"context"
	"fmt"
	"strings"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/validation"
)

type topicRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"max=20000"`
}

type topicService struct {
	topicRepo repository.TopicRepository
	groups    groupAccess
}

func NewTopicService(topicRepo repository.TopicRepository, tribeRepo repository.TribeRepository, projectRepo repository.ProjectRepository) TopicService {
	return &topicService{
		topicRepo: topicRepo,
		groups:    groupAccess{tribeRepo: tribeRepo, projectRepo: projectRepo},
	}
}

func (s *topicService) CreateTopic(ctx context.Context, userID int32, groupType domain.GroupType, slug, title, body string) (*domain.Topic, error) {
	req := topicRequest{Title: strings.TrimSpace(title), Body: strings.TrimSpace(body)}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	groupID, err := s.groups.resolve(ctx, groupType, slug)
	if err != nil {
		return nil, err
	}
	if err := s.groups.requireMember(ctx, groupType, groupID, userID); err != nil {
		return nil, err
	}

	topic := &domain.Topic{
		GroupType: groupType,
		GroupID:   groupID,
		CreatorID: userID,
		Title:     req.Title,
		Body:      req.Body,
	}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *topicService) ListTopics(ctx context.Context, viewerID int32, groupType domain.GroupType, slug string) ([]domain.Topic, error) {
	groupID, err := s.groups.resolveVisible(ctx, groupType, slug, viewerID)
	if err != nil {
		return nil, err
	}
	return s.topicRepo.ListByGroup(ctx, groupType, groupID)
}

func (s *topicService) GetTopic(ctx context.Context, viewerID, id int32) (*domain.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "topic")
	}
	if err := s.groups.groupVisible(ctx, topic.GroupType, topic.GroupID, viewerID); err != nil {
		return nil, fmt.Errorf("topic %w", ErrNotFound)
	}
	return topic, nil
}

func (s *topicService) ownTopic(ctx context.Context, userID, id int32) (*domain.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "topic")
	}
	if topic.CreatorID != userID {
		return nil, fmt.Errorf("%w: only the creator can change a topic", ErrForbidden)
	}
	return topic, nil
}

func (s *topicService) UpdateTopic(ctx context.Context, userID, id int32, title, body string) (*domain.Topic, error) {
	req := topicRequest{Title: strings.TrimSpace(title), Body: strings.TrimSpace(body)}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	topic, err := s.ownTopic(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	topic.Title = req.Title
	topic.Body = req.Body
	if err := s.topicRepo.Update(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *topicService) DeleteTopic(ctx context.Context, userID, id int32) error {
	if _, err := s.ownTopic(ctx, userID, id); err != nil {
		return err
	}
	return notFound(s.topicRepo.Delete(ctx, id), "topic")
}
