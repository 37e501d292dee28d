package http

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/plugins"
	"pinax-social-backend/internal/service"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, in service.SignupInput) (*domain.User, *service.TokenPair, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*service.TokenPair), args.Error(2)
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*domain.User, *service.TokenPair, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.User), args.Get(1).(*service.TokenPair), args.Error(2)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refresh string) (*service.TokenPair, error) {
	args := m.Called(ctx, refresh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenPair), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID int32, oldPassword, newPassword string) error {
	return m.Called(ctx, userID, oldPassword, newPassword).Error(0)
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.Called(ctx, token, newPassword).Error(0)
}

// MockTribeService
type MockTribeService struct {
	mock.Mock
}

func (m *MockTribeService) CreateTribe(ctx context.Context, userID int32, in service.GroupInput) (*domain.Tribe, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tribe), args.Error(1)
}

func (m *MockTribeService) GetTribe(ctx context.Context, slug string) (*domain.Tribe, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tribe), args.Error(1)
}

func (m *MockTribeService) ListTribes(ctx context.Context, query string, page, pageSize int32) ([]domain.Tribe, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Tribe), args.Get(1).(int32), args.Error(2)
}

func (m *MockTribeService) ListUserTribes(ctx context.Context, userID int32) ([]domain.Tribe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tribe), args.Error(1)
}

func (m *MockTribeService) UpdateTribe(ctx context.Context, userID int32, slug string, in service.GroupInput) (*domain.Tribe, error) {
	args := m.Called(ctx, userID, slug, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tribe), args.Error(1)
}

func (m *MockTribeService) JoinTribe(ctx context.Context, userID int32, slug string) error {
	return m.Called(ctx, userID, slug).Error(0)
}

func (m *MockTribeService) LeaveTribe(ctx context.Context, userID int32, slug string) error {
	return m.Called(ctx, userID, slug).Error(0)
}

func (m *MockTribeService) DeleteTribe(ctx context.Context, userID int32, slug string) error {
	return m.Called(ctx, userID, slug).Error(0)
}

func (m *MockTribeService) ListMembers(ctx context.Context, slug string) ([]domain.TribeMember, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TribeMember), args.Error(1)
}

// MockVoteService
type MockVoteService struct {
	mock.Mock
}

func (m *MockVoteService) RecordVote(ctx context.Context, userID int32, ref domain.ObjectRef, direction domain.VoteDirection) (*domain.Score, error) {
	args := m.Called(ctx, userID, ref, direction)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Score), args.Error(1)
}

func (m *MockVoteService) GetScore(ctx context.Context, ref domain.ObjectRef) (*domain.Score, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Score), args.Error(1)
}

func (m *MockVoteService) GetVote(ctx context.Context, userID int32, ref domain.ObjectRef) (*domain.Vote, error) {
	args := m.Called(ctx, userID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vote), args.Error(1)
}

func (m *MockVoteService) TopObjects(ctx context.Context, objectType domain.ObjectType, limit int32) ([]domain.Score, error) {
	args := m.Called(ctx, objectType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Score), args.Error(1)
}

func (m *MockVoteService) ScoresFor(ctx context.Context, objectType domain.ObjectType, ids []int32) ([]domain.Score, error) {
	args := m.Called(ctx, objectType, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Score), args.Error(1)
}

// MockPluginService
type MockPluginService struct {
	mock.Mock
}

func (m *MockPluginService) ListPoints(ctx context.Context) ([]domain.PluginPoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PluginPoint), args.Error(1)
}

func (m *MockPluginService) ListPlugins(ctx context.Context, pointLabel string) ([]domain.Plugin, error) {
	args := m.Called(ctx, pointLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Plugin), args.Error(1)
}

func (m *MockPluginService) SetPointStatus(ctx context.Context, pointLabel string, status domain.PluginStatus) (*domain.PluginPoint, error) {
	args := m.Called(ctx, pointLabel, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PluginPoint), args.Error(1)
}

func (m *MockPluginService) SetPluginStatus(ctx context.Context, pluginID int32, status domain.PluginStatus) (*domain.Plugin, error) {
	args := m.Called(ctx, pluginID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plugin), args.Error(1)
}

func (m *MockPluginService) SetUserPreference(ctx context.Context, userID, pluginID int32, visible bool, index int32) error {
	return m.Called(ctx, userID, pluginID, visible, index).Error(0)
}

func (m *MockPluginService) ResolvePoint(ctx context.Context, userID int32, pointLabel string) ([]domain.Plugin, error) {
	args := m.Called(ctx, userID, pointLabel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Plugin), args.Error(1)
}

func (m *MockPluginService) Sync(ctx context.Context, opts plugins.Options) (*plugins.Report, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plugins.Report), args.Error(1)
}
