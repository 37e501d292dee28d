package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/validation"
)

type groupRequest struct {
	Slug        string `json:"slug" validate:"required,max=50,slug"`
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"max=5000"`
}

func validateGroup(in GroupInput) (GroupInput, error) {
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	err := validation.Struct(groupRequest{Slug: in.Slug, Name: in.Name, Description: in.Description})
	return in, err
}

// groupAccess resolves topic and photo-pool groups, which may be tribes or projects
type groupAccess struct {
	tribeRepo   repository.TribeRepository
	projectRepo repository.ProjectRepository
}

func (g groupAccess) resolve(ctx context.Context, groupType domain.GroupType, slug string) (int32, error) {
	switch groupType {
	case domain.GroupTypeTribe:
		t, err := g.tribeRepo.GetBySlug(ctx, slug)
		if err != nil {
			return 0, notFound(err, "tribe")
		}
		return t.ID, nil
	case domain.GroupTypeProject:
		p, err := g.projectRepo.GetBySlug(ctx, slug)
		if err != nil {
			return 0, notFound(err, "project")
		}
		return p.ID, nil
	}
	return 0, invalidf("unknown group type %q", groupType)
}

// projectVisible answers a private project to non-members as if it did not exist.
func projectVisible(ctx context.Context, repo repository.ProjectRepository, project *domain.Project, viewerID int32) error {
	if !project.Private {
		return nil
	}
	_, err := repo.GetMember(ctx, project.ID, viewerID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("project %w", ErrNotFound)
	}
	return err
}

// resolveVisible is resolve for a viewer; private projects stay hidden from non-members.
func (g groupAccess) resolveVisible(ctx context.Context, groupType domain.GroupType, slug string, viewerID int32) (int32, error) {
	if groupType != domain.GroupTypeProject {
		return g.resolve(ctx, groupType, slug)
	}
	p, err := g.projectRepo.GetBySlug(ctx, slug)
	if err != nil {
		return 0, notFound(err, "project")
	}
	if err := projectVisible(ctx, g.projectRepo, p, viewerID); err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (g groupAccess) groupVisible(ctx context.Context, groupType domain.GroupType, groupID, viewerID int32) error {
	if groupType != domain.GroupTypeProject {
		return nil
	}
	p, err := g.projectRepo.GetByID(ctx, groupID)
	if err != nil {
		return notFound(err, "project")
	}
	return projectVisible(ctx, g.projectRepo, p, viewerID)
}

func (g groupAccess) isMember(ctx context.Context, groupType domain.GroupType, groupID, userID int32) (bool, error) {
	switch groupType {
	case domain.GroupTypeTribe:
		return g.tribeRepo.IsMember(ctx, groupID, userID)
	case domain.GroupTypeProject:
		_, err := g.projectRepo.GetMember(ctx, groupID, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	}
	return false, invalidf("unknown group type %q", groupType)
}

func (g groupAccess) requireMember(ctx context.Context, groupType domain.GroupType, groupID, userID int32) error {
	ok, err := g.isMember(ctx, groupType, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}
