package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
	"pinax-social-backend/internal/service"
)

type friendFixture struct {
	users   *MockUserRepo
	friends *MockFriendRepo
	joins   *MockJoinInvitationRepo
	notices *MockNotificationService
	mailer  *MockEmailService
	svc     service.FriendService
}

func newFriendFixture() *friendFixture {
	f := &friendFixture{
		users:   new(MockUserRepo),
		friends: new(MockFriendRepo),
		joins:   new(MockJoinInvitationRepo),
		notices: new(MockNotificationService),
		mailer:  new(MockEmailService),
	}
	f.svc = service.NewFriendService(f.users, f.friends, f.joins, f.notices, f.mailer, 14)
	return f
}

func noticeWithLabel(label string, recipients ...int32) interface{} {
	return mock.MatchedBy(func(in service.NoticeInput) bool {
		return in.Label == label && assert.ObjectsAreEqual(recipients, in.Recipients)
	})
}

func TestFriendService_InviteFriend(t *testing.T) {
	ctx := context.Background()
	alice := &domain.User{ID: 1, Username: "alice"}
	bob := &domain.User{ID: 2, Username: "bob"}

	t.Run("Success", func(t *testing.T) {
		f := newFriendFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(alice, nil)
		f.users.On("GetByID", ctx, int32(2)).Return(bob, nil)
		f.friends.On("AreFriends", ctx, int32(1), int32(2)).Return(false, nil)
		f.friends.On("FindPendingInvitation", ctx, int32(1), int32(2)).Return(nil, repository.ErrNotFound)
		f.friends.On("CreateInvitation", ctx, mock.AnythingOfType("*domain.FriendshipInvitation")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.FriendshipInvitation).ID = 30
		}).Return(nil)
		f.notices.On("Send", ctx, noticeWithLabel(service.NoticeFriendsInvite, 2)).Return(nil)

		inv, err := f.svc.InviteFriend(ctx, 1, 2, " hi ")
		require.NoError(t, err)
		assert.Equal(t, "hi", inv.Message)
		assert.Equal(t, domain.InvitationStatusSent, inv.Status)
		f.notices.AssertExpectations(t)
	})

	t.Run("Self", func(t *testing.T) {
		f := newFriendFixture()
		_, err := f.svc.InviteFriend(ctx, 1, 1, "")
		assert.ErrorIs(t, err, service.ErrSelfAction)
	})

	t.Run("UnknownRecipient", func(t *testing.T) {
		f := newFriendFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(alice, nil)
		f.users.On("GetByID", ctx, int32(9)).Return(nil, repository.ErrNotFound)
		_, err := f.svc.InviteFriend(ctx, 1, 9, "")
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("AlreadyFriends", func(t *testing.T) {
		f := newFriendFixture()
		f.users.On("GetByID", ctx, mock.Anything).Return(alice, nil)
		f.friends.On("AreFriends", ctx, int32(1), int32(2)).Return(true, nil)
		_, err := f.svc.InviteFriend(ctx, 1, 2, "")
		assert.ErrorIs(t, err, service.ErrAlreadyFriends)
	})

	t.Run("PendingEitherDirection", func(t *testing.T) {
		f := newFriendFixture()
		f.users.On("GetByID", ctx, mock.Anything).Return(alice, nil)
		f.friends.On("AreFriends", ctx, int32(1), int32(2)).Return(false, nil)
		f.friends.On("FindPendingInvitation", ctx, int32(1), int32(2)).Return(&domain.FriendshipInvitation{ID: 5, FromUserID: 2, ToUserID: 1}, nil)
		_, err := f.svc.InviteFriend(ctx, 1, 2, "")
		assert.ErrorIs(t, err, service.ErrInvitationPending)
		f.friends.AssertNotCalled(t, "CreateInvitation", mock.Anything, mock.Anything)
	})
}

func TestFriendService_AnswerInvitation(t *testing.T) {
	ctx := context.Background()
	pending := func() *domain.FriendshipInvitation {
		return &domain.FriendshipInvitation{ID: 30, FromUserID: 1, ToUserID: 2, Status: domain.InvitationStatusSent}
	}

	t.Run("Accept", func(t *testing.T) {
		f := newFriendFixture()
		f.friends.On("GetInvitation", ctx, int32(30)).Return(pending(), nil)
		f.friends.On("CreateFriendship", ctx, int32(1), int32(2)).Return(nil)
		f.friends.On("UpdateInvitationStatus", ctx, int32(30), domain.InvitationStatusAccepted).Return(nil)
		f.users.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Username: "bob"}, nil)
		f.notices.On("Send", ctx, noticeWithLabel(service.NoticeFriendsAccept, 1)).Return(nil)

		require.NoError(t, f.svc.AcceptInvitation(ctx, 2, 30))
		f.friends.AssertExpectations(t)
		f.notices.AssertExpectations(t)
	})

	t.Run("OnlyRecipient", func(t *testing.T) {
		f := newFriendFixture()
		f.friends.On("GetInvitation", ctx, int32(30)).Return(pending(), nil)
		assert.ErrorIs(t, f.svc.AcceptInvitation(ctx, 1, 30), service.ErrForbidden)
	})

	t.Run("AlreadyAnswered", func(t *testing.T) {
		f := newFriendFixture()
		inv := pending()
		inv.Status = domain.InvitationStatusDeclined
		f.friends.On("GetInvitation", ctx, int32(30)).Return(inv, nil)
		assert.ErrorIs(t, f.svc.AcceptInvitation(ctx, 2, 30), service.ErrInvitationClosed)
	})

	t.Run("Decline", func(t *testing.T) {
		f := newFriendFixture()
		f.friends.On("GetInvitation", ctx, int32(30)).Return(pending(), nil)
		f.friends.On("UpdateInvitationStatus", ctx, int32(30), domain.InvitationStatusDeclined).Return(nil)
		require.NoError(t, f.svc.DeclineInvitation(ctx, 2, 30))
		f.friends.AssertNotCalled(t, "CreateFriendship", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFriendService_InviteToJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFriendFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Username: "alice"}, nil)
		f.users.On("GetByEmail", ctx, "new@example.com").Return(nil, repository.ErrNotFound)
		f.joins.On("Create", ctx, mock.AnythingOfType("*domain.JoinInvitation")).Return(nil)
		f.mailer.On("SendJoinInvitation", ctx, "new@example.com", "alice", "come along", mock.AnythingOfType("string")).Return(nil)

		inv, err := f.svc.InviteToJoin(ctx, 1, " new@example.com", "come along")
		require.NoError(t, err)
		assert.Len(t, inv.ConfirmationKey, 36)
		f.mailer.AssertExpectations(t)
	})

	t.Run("ExistingUser", func(t *testing.T) {
		f := newFriendFixture()
		f.users.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1}, nil)
		f.users.On("GetByEmail", ctx, "bob@example.com").Return(&domain.User{ID: 2}, nil)
		_, err := f.svc.InviteToJoin(ctx, 1, "bob@example.com", "")
		assert.ErrorIs(t, err, service.ErrAlreadyMember)
	})

	t.Run("BadEmail", func(t *testing.T) {
		f := newFriendFixture()
		_, err := f.svc.InviteToJoin(ctx, 1, "not-an-email", "")
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestFriendService_ExpireJoinInvitations(t *testing.T) {
	ctx := context.Background()
	f := newFriendFixture()
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	f.joins.On("ExpireSentBefore", ctx, now.AddDate(0, 0, -14)).Return(int64(3), nil)

	n, err := f.svc.ExpireJoinInvitations(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
