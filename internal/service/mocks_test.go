package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/service"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) ListByUsernames(ctx context.Context, usernames []string) ([]domain.User, error) {
	args := m.Called(ctx, usernames)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) UpdatePassword(ctx context.Context, userID int32, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// MockEmailRepo
type MockEmailRepo struct {
	mock.Mock
}

func (m *MockEmailRepo) CreateAddress(ctx context.Context, addr *domain.EmailAddress) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

func (m *MockEmailRepo) GetAddress(ctx context.Context, id int32) (*domain.EmailAddress, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailAddress), args.Error(1)
}

func (m *MockEmailRepo) GetAddressByEmail(ctx context.Context, email string) (*domain.EmailAddress, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailAddress), args.Error(1)
}

func (m *MockEmailRepo) ListAddresses(ctx context.Context, userID int32) ([]domain.EmailAddress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmailAddress), args.Error(1)
}

func (m *MockEmailRepo) MarkVerified(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailRepo) SetPrimary(ctx context.Context, userID, addressID int32) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

func (m *MockEmailRepo) DeleteAddress(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailRepo) CreateConfirmation(ctx context.Context, c *domain.EmailConfirmation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockEmailRepo) GetConfirmationByKey(ctx context.Context, key string) (*domain.EmailConfirmation, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmailConfirmation), args.Error(1)
}

func (m *MockEmailRepo) DeleteConfirmation(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPasswordResetRepo
type MockPasswordResetRepo struct {
	mock.Mock
}

func (m *MockPasswordResetRepo) Create(ctx context.Context, reset *domain.PasswordReset) error {
	args := m.Called(ctx, reset)
	return args.Error(0)
}

func (m *MockPasswordResetRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordReset), args.Error(1)
}

func (m *MockPasswordResetRepo) MarkUsed(ctx context.Context, id int32, usedAt time.Time) error {
	args := m.Called(ctx, id, usedAt)
	return args.Error(0)
}

// MockAvatarRepo
type MockAvatarRepo struct {
	mock.Mock
}

func (m *MockAvatarRepo) Create(ctx context.Context, avatar *domain.Avatar) error {
	args := m.Called(ctx, avatar)
	return args.Error(0)
}

func (m *MockAvatarRepo) GetByID(ctx context.Context, id int32) (*domain.Avatar, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Avatar), args.Error(1)
}

func (m *MockAvatarRepo) ListByUser(ctx context.Context, userID int32) ([]domain.Avatar, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Avatar), args.Error(1)
}

func (m *MockAvatarRepo) SetPrimary(ctx context.Context, userID, avatarID int32) error {
	args := m.Called(ctx, userID, avatarID)
	return args.Error(0)
}

func (m *MockAvatarRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFriendRepo
type MockFriendRepo struct {
	mock.Mock
}

func (m *MockFriendRepo) CreateFriendship(ctx context.Context, fromUserID, toUserID int32) error {
	args := m.Called(ctx, fromUserID, toUserID)
	return args.Error(0)
}

func (m *MockFriendRepo) AreFriends(ctx context.Context, a, b int32) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockFriendRepo) ListFriends(ctx context.Context, userID int32) ([]domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockFriendRepo) DeleteFriendship(ctx context.Context, a, b int32) error {
	args := m.Called(ctx, a, b)
	return args.Error(0)
}

func (m *MockFriendRepo) CreateInvitation(ctx context.Context, inv *domain.FriendshipInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockFriendRepo) GetInvitation(ctx context.Context, id int32) (*domain.FriendshipInvitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FriendshipInvitation), args.Error(1)
}

func (m *MockFriendRepo) FindPendingInvitation(ctx context.Context, a, b int32) (*domain.FriendshipInvitation, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FriendshipInvitation), args.Error(1)
}

func (m *MockFriendRepo) UpdateInvitationStatus(ctx context.Context, id int32, status domain.InvitationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFriendRepo) ListReceivedInvitations(ctx context.Context, userID int32, status domain.InvitationStatus) ([]domain.FriendshipInvitation, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FriendshipInvitation), args.Error(1)
}

func (m *MockFriendRepo) ListSentInvitations(ctx context.Context, userID int32, status domain.InvitationStatus) ([]domain.FriendshipInvitation, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FriendshipInvitation), args.Error(1)
}

// MockJoinInvitationRepo
type MockJoinInvitationRepo struct {
	mock.Mock
}

func (m *MockJoinInvitationRepo) Create(ctx context.Context, inv *domain.JoinInvitation) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockJoinInvitationRepo) GetByKey(ctx context.Context, key string) (*domain.JoinInvitation, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JoinInvitation), args.Error(1)
}

func (m *MockJoinInvitationRepo) ListSent(ctx context.Context, userID int32) ([]domain.JoinInvitation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JoinInvitation), args.Error(1)
}

func (m *MockJoinInvitationRepo) UpdateStatus(ctx context.Context, id int32, status domain.InvitationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockJoinInvitationRepo) ExpireSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockTribeRepo
type MockTribeRepo struct {
	mock.Mock
}

func (m *MockTribeRepo) Create(ctx context.Context, tribe *domain.Tribe) error {
	args := m.Called(ctx, tribe)
	return args.Error(0)
}

func (m *MockTribeRepo) GetByID(ctx context.Context, id int32) (*domain.Tribe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tribe), args.Error(1)
}

func (m *MockTribeRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tribe, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tribe), args.Error(1)
}

func (m *MockTribeRepo) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Tribe, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Tribe), args.Get(1).(int32), args.Error(2)
}

func (m *MockTribeRepo) ListByMember(ctx context.Context, userID int32) ([]domain.Tribe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tribe), args.Error(1)
}

func (m *MockTribeRepo) Update(ctx context.Context, tribe *domain.Tribe) error {
	args := m.Called(ctx, tribe)
	return args.Error(0)
}

func (m *MockTribeRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTribeRepo) AddMember(ctx context.Context, tribeID, userID int32) error {
	args := m.Called(ctx, tribeID, userID)
	return args.Error(0)
}

func (m *MockTribeRepo) RemoveMember(ctx context.Context, tribeID, userID int32) error {
	args := m.Called(ctx, tribeID, userID)
	return args.Error(0)
}

func (m *MockTribeRepo) IsMember(ctx context.Context, tribeID, userID int32) (bool, error) {
	args := m.Called(ctx, tribeID, userID)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockTribeRepo) CountMembers(ctx context.Context, tribeID int32) (int32, error) {
	args := m.Called(ctx, tribeID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockTribeRepo) ListMembers(ctx context.Context, tribeID int32) ([]domain.TribeMember, error) {
	args := m.Called(ctx, tribeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TribeMember), args.Error(1)
}

// MockProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id int32) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepo) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepo) List(ctx context.Context, viewerID int32, query string, page, pageSize int32) ([]domain.Project, int32, error) {
	args := m.Called(ctx, viewerID, query, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Project), args.Get(1).(int32), args.Error(2)
}

func (m *MockProjectRepo) ListByMember(ctx context.Context, userID int32) ([]domain.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, project *domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepo) AddMember(ctx context.Context, member *domain.ProjectMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockProjectRepo) GetMember(ctx context.Context, projectID, userID int32) (*domain.ProjectMember, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectMember), args.Error(1)
}

func (m *MockProjectRepo) UpdateMember(ctx context.Context, member *domain.ProjectMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockProjectRepo) RemoveMember(ctx context.Context, projectID, userID int32) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *MockProjectRepo) CountMembers(ctx context.Context, projectID int32) (int32, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockProjectRepo) ListMembers(ctx context.Context, projectID int32) ([]domain.ProjectMember, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProjectMember), args.Error(1)
}

// MockTopicRepo
type MockTopicRepo struct {
	mock.Mock
}

func (m *MockTopicRepo) Create(ctx context.Context, topic *domain.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepo) GetByID(ctx context.Context, id int32) (*domain.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Topic), args.Error(1)
}

func (m *MockTopicRepo) ListByGroup(ctx context.Context, groupType domain.GroupType, groupID int32) ([]domain.Topic, error) {
	args := m.Called(ctx, groupType, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Topic), args.Error(1)
}

func (m *MockTopicRepo) Update(ctx context.Context, topic *domain.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTaskRepo
type MockTaskRepo struct {
	mock.Mock
}

func (m *MockTaskRepo) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepo) GetByID(ctx context.Context, id int32) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepo) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepo) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepo) CreateChange(ctx context.Context, change *domain.TaskChange) error {
	args := m.Called(ctx, change)
	return args.Error(0)
}

func (m *MockTaskRepo) ListChanges(ctx context.Context, taskID int32) ([]domain.TaskChange, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaskChange), args.Error(1)
}

// MockMessageRepo
type MockMessageRepo struct {
	mock.Mock
}

func (m *MockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) GetByID(ctx context.Context, id int32) (*domain.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockMessageRepo) Inbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepo) Outbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepo) Trash(ctx context.Context, userID int32) ([]domain.Message, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockMessageRepo) Update(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepo) CountUnread(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockMessageRepo) PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockPhotoRepo
type MockPhotoRepo struct {
	mock.Mock
}

func (m *MockPhotoRepo) Create(ctx context.Context, photo *domain.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *MockPhotoRepo) GetByID(ctx context.Context, id int32) (*domain.Photo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Photo), args.Error(1)
}

func (m *MockPhotoRepo) ListByMember(ctx context.Context, memberID int32, includePrivate bool) ([]domain.Photo, error) {
	args := m.Called(ctx, memberID, includePrivate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Photo), args.Error(1)
}

func (m *MockPhotoRepo) Update(ctx context.Context, photo *domain.Photo) error {
	args := m.Called(ctx, photo)
	return args.Error(0)
}

func (m *MockPhotoRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPhotoRepo) IncrementViewCount(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPhotoRepo) AddToPool(ctx context.Context, pool *domain.PhotoPool) error {
	args := m.Called(ctx, pool)
	return args.Error(0)
}

func (m *MockPhotoRepo) RemoveFromPool(ctx context.Context, photoID int32, groupType domain.GroupType, groupID int32) error {
	args := m.Called(ctx, photoID, groupType, groupID)
	return args.Error(0)
}

func (m *MockPhotoRepo) ListPool(ctx context.Context, groupType domain.GroupType, groupID int32) ([]domain.Photo, error) {
	args := m.Called(ctx, groupType, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Photo), args.Error(1)
}

// MockTagRepo
type MockTagRepo struct {
	mock.Mock
}

func (m *MockTagRepo) SetTags(ctx context.Context, ref domain.ObjectRef, names []string) error {
	args := m.Called(ctx, ref, names)
	return args.Error(0)
}

func (m *MockTagRepo) TagsFor(ctx context.Context, ref domain.ObjectRef) ([]string, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockTagRepo) ObjectsWithTag(ctx context.Context, objectType domain.ObjectType, tag string) ([]int32, error) {
	args := m.Called(ctx, objectType, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}

func (m *MockTagRepo) Counts(ctx context.Context, objectType domain.ObjectType) ([]domain.TagCount, error) {
	args := m.Called(ctx, objectType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TagCount), args.Error(1)
}

// MockVoteRepo
type MockVoteRepo struct {
	mock.Mock
}

func (m *MockVoteRepo) Upsert(ctx context.Context, vote *domain.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockVoteRepo) Delete(ctx context.Context, userID int32, ref domain.ObjectRef) error {
	args := m.Called(ctx, userID, ref)
	return args.Error(0)
}

func (m *MockVoteRepo) Get(ctx context.Context, userID int32, ref domain.ObjectRef) (*domain.Vote, error) {
	args := m.Called(ctx, userID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vote), args.Error(1)
}

func (m *MockVoteRepo) Score(ctx context.Context, ref domain.ObjectRef) (*domain.Score, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Score), args.Error(1)
}

func (m *MockVoteRepo) Scores(ctx context.Context, objectType domain.ObjectType, ids []int32) ([]domain.Score, error) {
	args := m.Called(ctx, objectType, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Score), args.Error(1)
}

func (m *MockVoteRepo) Top(ctx context.Context, objectType domain.ObjectType, limit int32) ([]domain.Score, error) {
	args := m.Called(ctx, objectType, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Score), args.Error(1)
}

// MockTweetRepo
type MockTweetRepo struct {
	mock.Mock
}

func (m *MockTweetRepo) Create(ctx context.Context, tweet *domain.Tweet) error {
	args := m.Called(ctx, tweet)
	return args.Error(0)
}

func (m *MockTweetRepo) Deliver(ctx context.Context, tweet *domain.Tweet, recipientIDs []int32) error {
	args := m.Called(ctx, tweet, recipientIDs)
	return args.Error(0)
}

func (m *MockTweetRepo) Timeline(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Tweet, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Tweet), args.Get(1).(int32), args.Error(2)
}

func (m *MockTweetRepo) ListBySender(ctx context.Context, senderID int32, limit int32) ([]domain.Tweet, error) {
	args := m.Called(ctx, senderID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tweet), args.Error(1)
}

func (m *MockTweetRepo) Follow(ctx context.Context, followerID, followedID int32) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockTweetRepo) Unfollow(ctx context.Context, followerID, followedID int32) error {
	args := m.Called(ctx, followerID, followedID)
	return args.Error(0)
}

func (m *MockTweetRepo) IsFollowing(ctx context.Context, followerID, followedID int32) (bool, error) {
	args := m.Called(ctx, followerID, followedID)
	return args.Get(0).(bool), args.Error(1)
}

func (m *MockTweetRepo) ListFollowers(ctx context.Context, userID int32) ([]domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockTweetRepo) ListFollowing(ctx context.Context, userID int32) ([]domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) UpsertType(ctx context.Context, nt *domain.NoticeType) error {
	args := m.Called(ctx, nt)
	return args.Error(0)
}

func (m *MockNotificationRepo) GetType(ctx context.Context, label string) (*domain.NoticeType, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NoticeType), args.Error(1)
}

func (m *MockNotificationRepo) ListTypes(ctx context.Context) ([]domain.NoticeType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NoticeType), args.Error(1)
}

func (m *MockNotificationRepo) GetSetting(ctx context.Context, userID int32, label string, medium domain.NoticeMedium) (*domain.NoticeSetting, error) {
	args := m.Called(ctx, userID, label, medium)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NoticeSetting), args.Error(1)
}

func (m *MockNotificationRepo) ListSettings(ctx context.Context, userID int32) ([]domain.NoticeSetting, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NoticeSetting), args.Error(1)
}

func (m *MockNotificationRepo) UpsertSetting(ctx context.Context, setting *domain.NoticeSetting) error {
	args := m.Called(ctx, setting)
	return args.Error(0)
}

func (m *MockNotificationRepo) Create(ctx context.Context, notice *domain.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *MockNotificationRepo) GetByID(ctx context.Context, id int32) (*domain.Notice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notice), args.Error(1)
}

func (m *MockNotificationRepo) List(ctx context.Context, userID int32, unseenOnly bool, page, pageSize int32) ([]domain.Notice, int32, error) {
	args := m.Called(ctx, userID, unseenOnly, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Notice), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepo) CountUnseen(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockNotificationRepo) MarkSeen(ctx context.Context, userID, id int32) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationRepo) MarkAllSeen(ctx context.Context, userID int32) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) Archive(ctx context.Context, userID, id int32) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationRepo) Delete(ctx context.Context, userID, id int32) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockNotificationRepo) Enqueue(ctx context.Context, noticeID int32, medium domain.NoticeMedium) error {
	args := m.Called(ctx, noticeID, medium)
	return args.Error(0)
}

func (m *MockNotificationRepo) ListQueued(ctx context.Context, maxAttempts int32, limit int32) ([]domain.QueuedNotice, error) {
	args := m.Called(ctx, maxAttempts, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QueuedNotice), args.Error(1)
}

func (m *MockNotificationRepo) DeleteQueued(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationRepo) RecordQueueFailure(ctx context.Context, id int32, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}

func (m *MockNotificationRepo) UpsertDevice(ctx context.Context, device *domain.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockNotificationRepo) DeleteDevice(ctx context.Context, userID int32, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockNotificationRepo) ListDevices(ctx context.Context, userID int32) ([]domain.Device, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Device), args.Error(1)
}

// MockFeedRepo
type MockFeedRepo struct {
	mock.Mock
}

func (m *MockFeedRepo) Create(ctx context.Context, feed *domain.Feed) error {
	args := m.Called(ctx, feed)
	return args.Error(0)
}

func (m *MockFeedRepo) GetByID(ctx context.Context, id int32) (*domain.Feed, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Feed), args.Error(1)
}

func (m *MockFeedRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Feed, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Feed), args.Error(1)
}

func (m *MockFeedRepo) ListAll(ctx context.Context) ([]domain.Feed, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Feed), args.Error(1)
}

func (m *MockFeedRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFeedRepo) RecordFetch(ctx context.Context, id int32, title string, fetchedAt time.Time, lastError string) error {
	args := m.Called(ctx, id, title, fetchedAt, lastError)
	return args.Error(0)
}

func (m *MockFeedRepo) UpsertEntries(ctx context.Context, feedID int32, entries []domain.FeedEntry) (int, error) {
	args := m.Called(ctx, feedID, entries)
	return args.Get(0).(int), args.Error(1)
}

func (m *MockFeedRepo) ListEntries(ctx context.Context, feedID int32, limit int32) ([]domain.FeedEntry, error) {
	args := m.Called(ctx, feedID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeedEntry), args.Error(1)
}

func (m *MockFeedRepo) ListEntriesForOwner(ctx context.Context, ownerID int32, limit int32) ([]domain.FeedEntry, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeedEntry), args.Error(1)
}

// MockPluginRepo
type MockPluginRepo struct {
	mock.Mock
}

func (m *MockPluginRepo) ListPoints(ctx context.Context) ([]domain.PluginPoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PluginPoint), args.Error(1)
}

func (m *MockPluginRepo) GetPointByID(ctx context.Context, id int32) (*domain.PluginPoint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PluginPoint), args.Error(1)
}

func (m *MockPluginRepo) GetPointByLabel(ctx context.Context, label string) (*domain.PluginPoint, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PluginPoint), args.Error(1)
}

func (m *MockPluginRepo) CreatePoint(ctx context.Context, point *domain.PluginPoint) error {
	args := m.Called(ctx, point)
	return args.Error(0)
}

func (m *MockPluginRepo) UpdatePoint(ctx context.Context, point *domain.PluginPoint) error {
	args := m.Called(ctx, point)
	return args.Error(0)
}

func (m *MockPluginRepo) DeletePoint(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPluginRepo) ListPlugins(ctx context.Context, pointID int32) ([]domain.Plugin, error) {
	args := m.Called(ctx, pointID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Plugin), args.Error(1)
}

func (m *MockPluginRepo) ListAllPlugins(ctx context.Context) ([]domain.Plugin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Plugin), args.Error(1)
}

func (m *MockPluginRepo) GetPlugin(ctx context.Context, id int32) (*domain.Plugin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plugin), args.Error(1)
}

func (m *MockPluginRepo) CreatePlugin(ctx context.Context, plugin *domain.Plugin) error {
	args := m.Called(ctx, plugin)
	return args.Error(0)
}

func (m *MockPluginRepo) UpdatePlugin(ctx context.Context, plugin *domain.Plugin) error {
	args := m.Called(ctx, plugin)
	return args.Error(0)
}

func (m *MockPluginRepo) DeletePlugin(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPluginRepo) UpsertPreference(ctx context.Context, pref *domain.UserPluginPreference) error {
	args := m.Called(ctx, pref)
	return args.Error(0)
}

func (m *MockPluginRepo) ListPreferences(ctx context.Context, userID, pointID int32) ([]domain.UserPluginPreference, error) {
	args := m.Called(ctx, userID, pointID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserPluginPreference), args.Error(1)
}

func (m *MockPluginRepo) InTx(ctx context.Context, fn func(store repository.PluginStore) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

// MockNotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) RegisterNoticeType(ctx context.Context, label, display, description string, defaultSend bool) error {
	args := m.Called(ctx, label, display, description, defaultSend)
	return args.Error(0)
}

func (m *MockNotificationService) RegisterBuiltinTypes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotificationService) Send(ctx context.Context, in service.NoticeInput) error {
	args := m.Called(ctx, in)
	return args.Error(0)
}

func (m *MockNotificationService) List(ctx context.Context, userID int32, unseenOnly bool, page, pageSize int32) ([]domain.Notice, int32, error) {
	args := m.Called(ctx, userID, unseenOnly, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int32), args.Error(2)
	}
	return args.Get(0).([]domain.Notice), args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationService) UnseenCount(ctx context.Context, userID int32) (int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockNotificationService) MarkSeen(ctx context.Context, userID, noticeID int32) error {
	args := m.Called(ctx, userID, noticeID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllSeen(ctx context.Context, userID int32) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) Archive(ctx context.Context, userID, noticeID int32) error {
	args := m.Called(ctx, userID, noticeID)
	return args.Error(0)
}

func (m *MockNotificationService) Delete(ctx context.Context, userID, noticeID int32) error {
	args := m.Called(ctx, userID, noticeID)
	return args.Error(0)
}

func (m *MockNotificationService) GetSettings(ctx context.Context, userID int32) ([]domain.NoticeSetting, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NoticeSetting), args.Error(1)
}

func (m *MockNotificationService) UpdateSetting(ctx context.Context, userID int32, label string, medium domain.NoticeMedium, send bool) error {
	args := m.Called(ctx, userID, label, medium, send)
	return args.Error(0)
}

func (m *MockNotificationService) RegisterDevice(ctx context.Context, userID int32, token, platform string) error {
	args := m.Called(ctx, userID, token, platform)
	return args.Error(0)
}

func (m *MockNotificationService) UnregisterDevice(ctx context.Context, userID int32, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockNotificationService) EmitQueued(ctx context.Context, limit int32) (*service.EmitResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EmitResult), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendEmailConfirmation(ctx context.Context, to, name, key string) error {
	args := m.Called(ctx, to, name, key)
	return args.Error(0)
}

func (m *MockEmailService) SendPasswordReset(ctx context.Context, to, name, token string) error {
	args := m.Called(ctx, to, name, token)
	return args.Error(0)
}

func (m *MockEmailService) SendJoinInvitation(ctx context.Context, to, fromName, message, key string) error {
	args := m.Called(ctx, to, fromName, message, key)
	return args.Error(0)
}

func (m *MockEmailService) SendNotice(ctx context.Context, to, name, subject, body string) error {
	args := m.Called(ctx, to, name, subject, body)
	return args.Error(0)
}
