package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
)

type projectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	noticeSvc   NotificationService
}

func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, noticeSvc NotificationService) ProjectService {
	return &projectService{projectRepo: projectRepo, userRepo: userRepo, noticeSvc: noticeSvc}
}

func (s *projectService) CreateProject(ctx context.Context, userID int32, in GroupInput) (*domain.Project, error) {
	in, err := validateGroup(in)
	if err != nil {
		return nil, err
	}

	project := &domain.Project{
		Slug:        in.Slug,
		Name:        in.Name,
		Description: in.Description,
		CreatorID:   userID,
		Private:     in.Private,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, conflict(err, "project with this slug or name")
	}

	logger.Info("Project created", "projectID", project.ID, "slug", project.Slug, "creatorID", userID)
	return project, nil
}

// member returns the caller's membership, or ErrNotMember
func (s *projectService) member(ctx context.Context, projectID, userID int32) (*domain.ProjectMember, error) {
	m, err := s.projectRepo.GetMember(ctx, projectID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotMember
	}
	return m, err
}

func (s *projectService) GetProject(ctx context.Context, viewerID int32, slug string) (*domain.Project, error) {
	project, err := s.projectRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "project")
	}
	if err := projectVisible(ctx, s.projectRepo, project, viewerID); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, viewerID int32, query string, page, pageSize int32) ([]domain.Project, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.projectRepo.List(ctx, viewerID, query, page, pageSize)
}

func (s *projectService) ListUserProjects(ctx context.Context, userID int32) ([]domain.Project, error) {
	return s.projectRepo.ListByMember(ctx, userID)
}

func (s *projectService) ownProject(ctx context.Context, userID int32, slug, action string) (*domain.Project, error) {
	project, err := s.projectRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "project")
	}
	if project.CreatorID != userID {
		return nil, fmt.Errorf("%w: only the creator can %s a project", ErrForbidden, action)
	}
	return project, nil
}

func (s *projectService) UpdateProject(ctx context.Context, userID int32, slug string, in GroupInput) (*domain.Project, error) {
	project, err := s.ownProject(ctx, userID, slug, "edit")
	if err != nil {
		return nil, err
	}
	in.Slug = project.Slug
	in, err = validateGroup(in)
	if err != nil {
		return nil, err
	}
	project.Name = in.Name
	project.Description = in.Description
	project.Private = in.Private
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, conflict(err, "project with this name")
	}
	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, userID int32, slug string) error {
	project, err := s.ownProject(ctx, userID, slug, "delete")
	if err != nil {
		return err
	}
	logger.Info("Deleting project", "projectID", project.ID, "slug", project.Slug)
	return s.projectRepo.Delete(ctx, project.ID)
}

func (s *projectService) AddMember(ctx context.Context, actorID int32, slug, username string) (*domain.ProjectMember, error) {
	project, err := s.projectRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFound(err, "project")
	}
	if _, err := s.member(ctx, project.ID, actorID); err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, notFound(err, "user")
	}

	existing, err := s.projectRepo.ListMembers(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range existing {
		if m.UserID == user.ID {
			return nil, ErrAlreadyMember
		}
	}

	member := &domain.ProjectMember{ProjectID: project.ID, UserID: user.ID, User: user}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, conflict(err, "membership")
	}

	recipients := make([]int32, 0, len(existing)+1)
	for _, m := range existing {
		recipients = append(recipients, m.UserID)
	}
	recipients = append(recipients, user.ID)
	err = s.noticeSvc.Send(ctx, NoticeInput{
		Recipients: recipients,
		SenderID:   &actorID,
		Label:      NoticeProjectsNewMember,
		Message:    fmt.Sprintf("%s was added to the project %s", user.Username, project.Name),
		Attributes: map[string]string{"project": project.Slug, "username": user.Username},
		Queue:      true,
	})
	if err != nil {
		logger.Error("Failed to notify project members", "projectID", project.ID, "error", err)
	}
	return member, nil
}

func (s *projectService) RemoveMember(ctx context.Context, actorID int32, slug string, userID int32) error {
	project, err := s.projectRepo.GetBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "project")
	}
	if actorID != userID && actorID != project.CreatorID {
		return fmt.Errorf("%w: only the creator can remove other members", ErrForbidden)
	}
	if _, err := s.member(ctx, project.ID, userID); err != nil {
		return err
	}
	count, err := s.projectRepo.CountMembers(ctx, project.ID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return ErrLastMember
	}
	return s.projectRepo.RemoveMember(ctx, project.ID, userID)
}

func (s *projectService) SetAway(ctx context.Context, userID int32, slug string, away bool, message string) error {
	project, err := s.projectRepo.GetBySlug(ctx, slug)
	if err != nil {
		return notFound(err, "project")
	}
	m, err := s.member(ctx, project.ID, userID)
	if err != nil {
		return err
	}
	message = strings.TrimSpace(message)
	if len(message) > 500 {
		return invalidf("away message must be at most 500 characters")
	}
	m.Away = away
	m.AwayMessage = ""
	if away {
		m.AwayMessage = message
	}
	return s.projectRepo.UpdateMember(ctx, m)
}

func (s *projectService) ListMembers(ctx context.Context, viewerID int32, slug string) ([]domain.ProjectMember, error) {
	project, err := s.GetProject(ctx, viewerID, slug)
	if err != nil {
		return nil, err
	}
	return s.projectRepo.ListMembers(ctx, project.ID)
}
