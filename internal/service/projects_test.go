package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/service"
)

func newProjectService() (*MockProjectRepo, *MockUserRepo, *MockNotificationService, service.ProjectService) {
	projects := new(MockProjectRepo)
	users := new(MockUserRepo)
	notices := new(MockNotificationService)
	return projects, users, notices, service.NewProjectService(projects, users, notices)
}

func TestProjectService_CreateProject(t *testing.T) {
	ctx := context.Background()
	projects, _, _, svc := newProjectService()
	projects.On("Create", ctx, mock.AnythingOfType("*domain.Project")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Project).ID = 8
	}).Return(nil)

	project, err := svc.CreateProject(ctx, 1, service.GroupInput{Slug: "pinax", Name: "Pinax", Private: true})
	require.NoError(t, err)
	assert.True(t, project.Private)
	projects.AssertExpectations(t)
	projects.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
}

func TestProjectService_GetProject(t *testing.T) {
	ctx := context.Background()
	projects, _, _, svc := newProjectService()
	projects.On("GetBySlug", ctx, "secret").Return(&domain.Project{ID: 8, Slug: "secret", Private: true}, nil)
	projects.On("GetMember", ctx, int32(8), int32(1)).Return(&domain.ProjectMember{ProjectID: 8, UserID: 1}, nil)
	projects.On("GetMember", ctx, int32(8), int32(2)).Return(nil, repository.ErrNotFound)

	_, err := svc.GetProject(ctx, 1, "secret")
	assert.NoError(t, err)

	_, err = svc.GetProject(ctx, 2, "secret")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProjectService_PrivateProjectReads(t *testing.T) {
	ctx := context.Background()
	projects, _, _, svc := newProjectService()
	projects.On("GetBySlug", ctx, "secret").Return(&domain.Project{ID: 8, Slug: "secret", Private: true}, nil)
	projects.On("GetMember", ctx, int32(8), int32(1)).Return(&domain.ProjectMember{ProjectID: 8, UserID: 1}, nil)
	projects.On("GetMember", ctx, int32(8), int32(2)).Return(nil, repository.ErrNotFound)
	projects.On("ListMembers", ctx, int32(8)).Return([]domain.ProjectMember{{ProjectID: 8, UserID: 1}}, nil)
	projects.On("List", ctx, int32(2), "", int32(1), int32(20)).Return([]domain.Project{}, int32(0), nil)

	members, err := svc.ListMembers(ctx, 1, "secret")
	require.NoError(t, err)
	assert.Len(t, members, 1)

	_, err = svc.ListMembers(ctx, 2, "secret")
	assert.ErrorIs(t, err, service.ErrNotFound)
	projects.AssertNumberOfCalls(t, "ListMembers", 1)

	// the repository filters private rows for the viewer
	_, total, err := svc.ListProjects(ctx, 2, "", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	projects.AssertCalled(t, "List", ctx, int32(2), "", int32(1), int32(20))
}

func TestProjectService_AddMember(t *testing.T) {
	ctx := context.Background()
	project := &domain.Project{ID: 8, Slug: "pinax", Name: "Pinax", CreatorID: 1}

	t.Run("Success", func(t *testing.T) {
		projects, users, notices, svc := newProjectService()
		projects.On("GetBySlug", ctx, "pinax").Return(project, nil)
		projects.On("GetMember", ctx, int32(8), int32(1)).Return(&domain.ProjectMember{UserID: 1}, nil)
		users.On("GetByUsername", ctx, "bob").Return(&domain.User{ID: 2, Username: "bob"}, nil)
		projects.On("ListMembers", ctx, int32(8)).Return([]domain.ProjectMember{{UserID: 1}}, nil)
		projects.On("AddMember", ctx, mock.MatchedBy(func(m *domain.ProjectMember) bool {
			return m.ProjectID == 8 && m.UserID == 2
		})).Return(nil)
		notices.On("Send", ctx, noticeWithLabel(service.NoticeProjectsNewMember, 1, 2)).Return(nil)

		member, err := svc.AddMember(ctx, 1, "pinax", "Bob")
		require.NoError(t, err)
		assert.Equal(t, int32(2), member.UserID)
		notices.AssertExpectations(t)
	})

	t.Run("CallerNotMember", func(t *testing.T) {
		projects, _, _, svc := newProjectService()
		projects.On("GetBySlug", ctx, "pinax").Return(project, nil)
		projects.On("GetMember", ctx, int32(8), int32(5)).Return(nil, repository.ErrNotFound)
		_, err := svc.AddMember(ctx, 5, "pinax", "bob")
		assert.ErrorIs(t, err, service.ErrNotMember)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		projects, users, _, svc := newProjectService()
		projects.On("GetBySlug", ctx, "pinax").Return(project, nil)
		projects.On("GetMember", ctx, int32(8), int32(1)).Return(&domain.ProjectMember{UserID: 1}, nil)
		users.On("GetByUsername", ctx, "ghost").Return(nil, repository.ErrNotFound)
		_, err := svc.AddMember(ctx, 1, "pinax", "ghost")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestProjectService_RemoveMember(t *testing.T) {
	ctx := context.Background()
	project := &domain.Project{ID: 8, Slug: "pinax", CreatorID: 1}

	t.Run("CreatorRemovesOther", func(t *testing.T) {
		projects, _, _, svc := newProjectService()
		projects.On("GetBySlug", ctx, "pinax").Return(project, nil)
		projects.On("GetMember", ctx, int32(8), int32(2)).Return(&domain.ProjectMember{UserID: 2}, nil)
		projects.On("CountMembers", ctx, int32(8)).Return(int32(2), nil)
		projects.On("RemoveMember", ctx, int32(8), int32(2)).Return(nil)
		require.NoError(t, svc.RemoveMember(ctx, 1, "pinax", 2))
	})

	t.Run("OtherMemberForbidden", func(t *testing.T) {
		projects, _, _, svc := newProjectService()
		projects.On("GetBySlug", ctx, "pinax").Return(project, nil)
		assert.ErrorIs(t, svc.RemoveMember(ctx, 3, "pinax", 2), service.ErrForbidden)
	})

	t.Run("LastMember", func(t *testing.T) {
		projects, _, _, svc := newProjectService()
		projects.On("GetBySlug", ctx, "pinax").Return(project, nil)
		projects.On("GetMember", ctx, int32(8), int32(1)).Return(&domain.ProjectMember{UserID: 1}, nil)
		projects.On("CountMembers", ctx, int32(8)).Return(int32(1), nil)
		assert.ErrorIs(t, svc.RemoveMember(ctx, 1, "pinax", 1), service.ErrLastMember)
	})
}

func TestProjectService_SetAway(t *testing.T) {
	ctx := context.Background()
	projects, _, _, svc := newProjectService()
	projects.On("GetBySlug", ctx, "pinax").Return(&domain.Project{ID: 8}, nil)
	projects.On("GetMember", ctx, int32(8), int32(2)).Return(&domain.ProjectMember{ProjectID: 8, UserID: 2}, nil)
	projects.On("UpdateMember", ctx, &domain.ProjectMember{ProjectID: 8, UserID: 2, Away: true, AwayMessage: "on holiday"}).Return(nil)

	require.NoError(t, svc.SetAway(ctx, 2, "pinax", true, " on holiday "))
	projects.AssertExpectations(t)
}

func TestTopicService(t *testing.T) {
	ctx := context.Background()
	tribes := new(MockTribeRepo)
	projects := new(MockProjectRepo)
	topics := new(MockTopicRepo)
	svc := service.NewTopicService(topics, tribes, projects)

	tribes.On("GetBySlug", ctx, "go").Return(&domain.Tribe{ID: 4}, nil)
	tribes.On("IsMember", ctx, int32(4), int32(1)).Return(true, nil)
	tribes.On("IsMember", ctx, int32(4), int32(2)).Return(false, nil)
	topics.On("Create", ctx, mock.MatchedBy(func(tp *domain.Topic) bool {
		return tp.GroupType == domain.GroupTypeTribe && tp.GroupID == 4 && tp.Title == "Generics"
	})).Return(nil)

	_, err := svc.CreateTopic(ctx, 1, domain.GroupTypeTribe, "go", " Generics ", "thoughts?")
	require.NoError(t, err)

	_, err = svc.CreateTopic(ctx, 2, domain.GroupTypeTribe, "go", "Generics", "")
	assert.ErrorIs(t, err, service.ErrNotMember)

	_, err = svc.CreateTopic(ctx, 1, domain.GroupTypeTribe, "go", "", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.CreateTopic(ctx, 1, domain.GroupType("club"), "go", "Title", "")
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	topics.On("GetByID", ctx, int32(20)).Return(&domain.Topic{ID: 20, CreatorID: 1, Title: "Old"}, nil)
	topics.On("Delete", ctx, int32(20)).Return(nil)
	assert.ErrorIs(t, svc.DeleteTopic(ctx, 2, 20), service.ErrForbidden)
	assert.NoError(t, svc.DeleteTopic(ctx, 1, 20))
}
