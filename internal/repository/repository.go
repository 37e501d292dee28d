package repository

import (
	"context"
	"errors"
	"time"

	"pinax-social-backend/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListByUsernames(ctx context.Context, usernames []string) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, userID int32, passwordHash string) error
}

type EmailRepository interface {
	CreateAddress(ctx context.Context, addr *domain.EmailAddress) error
	GetAddress(ctx context.Context, id int32) (*domain.EmailAddress, error)
	GetAddressByEmail(ctx context.Context, email string) (*domain.EmailAddress, error)
	ListAddresses(ctx context.Context, userID int32) ([]domain.EmailAddress, error)
	MarkVerified(ctx context.Context, id int32) error
	// SetPrimary makes addressID the only primary address of userID.
	SetPrimary(ctx context.Context, userID, addressID int32) error
	DeleteAddress(ctx context.Context, id int32) error

	CreateConfirmation(ctx context.Context, c *domain.EmailConfirmation) error
	GetConfirmationByKey(ctx context.Context, key string) (*domain.EmailConfirmation, error)
	DeleteConfirmation(ctx context.Context, id int32) error
}

type PasswordResetRepository interface {
	Create(ctx context.Context, reset *domain.PasswordReset) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error)
	MarkUsed(ctx context.Context, id int32, usedAt time.Time) error
}

type AvatarRepository interface {
	Create(ctx context.Context, avatar *domain.Avatar) error
	GetByID(ctx context.Context, id int32) (*domain.Avatar, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Avatar, error)
	SetPrimary(ctx context.Context, userID, avatarID int32) error
	Delete(ctx context.Context, id int32) error
}

type FriendRepository interface {
	CreateFriendship(ctx context.Context, fromUserID, toUserID int32) error
	AreFriends(ctx context.Context, a, b int32) (bool, error)
	ListFriends(ctx context.Context, userID int32) ([]domain.User, error)
	DeleteFriendship(ctx context.Context, a, b int32) error

	CreateInvitation(ctx context.Context, inv *domain.FriendshipInvitation) error
	GetInvitation(ctx context.Context, id int32) (*domain.FriendshipInvitation, error)
	// FindPendingInvitation looks in both directions between a and b.
	FindPendingInvitation(ctx context.Context, a, b int32) (*domain.FriendshipInvitation, error)
	UpdateInvitationStatus(ctx context.Context, id int32, status domain.InvitationStatus) error
	ListReceivedInvitations(ctx context.Context, userID int32, status domain.InvitationStatus) ([]domain.FriendshipInvitation, error)
	ListSentInvitations(ctx context.Context, userID int32, status domain.InvitationStatus) ([]domain.FriendshipInvitation, error)
}

type JoinInvitationRepository interface {
	Create(ctx context.Context, inv *domain.JoinInvitation) error
	GetByKey(ctx context.Context, key string) (*domain.JoinInvitation, error)
	ListSent(ctx context.Context, userID int32) ([]domain.JoinInvitation, error)
	UpdateStatus(ctx context.Context, id int32, status domain.InvitationStatus) error
	// ExpireSentBefore marks SENT invitations older than cutoff EXPIRED and returns how many changed.
	ExpireSentBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type TribeRepository interface {
	// Create inserts the tribe and its creator's membership together.
	Create(ctx context.Context, tribe *domain.Tribe) error
	GetByID(ctx context.Context, id int32) (*domain.Tribe, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tribe, error)
	List(ctx context.Context, query string, page, pageSize int32) ([]domain.Tribe, int32, error)
	ListByMember(ctx context.Context, userID int32) ([]domain.Tribe, error)
	Update(ctx context.Context, tribe *domain.Tribe) error
	Delete(ctx context.Context, id int32) error

	AddMember(ctx context.Context, tribeID, userID int32) error
	RemoveMember(ctx context.Context, tribeID, userID int32) error
	IsMember(ctx context.Context, tribeID, userID int32) (bool, error)
	CountMembers(ctx context.Context, tribeID int32) (int32, error)
	ListMembers(ctx context.Context, tribeID int32) ([]domain.TribeMember, error)
}

type ProjectRepository interface {
	// Create inserts the project and its creator's membership together.
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id int32) (*domain.Project, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Project, error)
	// List hides private projects unless viewerID is a member.
	List(ctx context.Context, viewerID int32, query string, page, pageSize int32) ([]domain.Project, int32, error)
	ListByMember(ctx context.Context, userID int32) ([]domain.Project, error)
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id int32) error

	AddMember(ctx context.Context, member *domain.ProjectMember) error
	GetMember(ctx context.Context, projectID, userID int32) (*domain.ProjectMember, error)
	UpdateMember(ctx context.Context, member *domain.ProjectMember) error
	RemoveMember(ctx context.Context, projectID, userID int32) error
	CountMembers(ctx context.Context, projectID int32) (int32, error)
	ListMembers(ctx context.Context, projectID int32) ([]domain.ProjectMember, error)
}

type TopicRepository interface {
	Create(ctx context.Context, topic *domain.Topic) error
	GetByID(ctx context.Context, id int32) (*domain.Topic, error)
	ListByGroup(ctx context.Context, groupType domain.GroupType, groupID int32) ([]domain.Topic, error)
	Update(ctx context.Context, topic *domain.Topic) error
	Delete(ctx context.Context, id int32) error
}

// TaskFilter narrows ListTasks; nil fields match everything.
type TaskFilter struct {
	ProjectID  int32
	State      *domain.TaskState
	AssigneeID *int32
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	GetByID(ctx context.Context, id int32) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	CreateChange(ctx context.Context, change *domain.TaskChange) error
	ListChanges(ctx context.Context, taskID int32) ([]domain.TaskChange, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id int32) (*domain.Message, error)
	Inbox(ctx context.Context, userID int32) ([]domain.Message, error)
	Outbox(ctx context.Context, userID int32) ([]domain.Message, error)
	Trash(ctx context.Context, userID int32) ([]domain.Message, error)
	Update(ctx context.Context, msg *domain.Message) error
	CountUnread(ctx context.Context, userID int32) (int32, error)
	// PurgeDeleted removes messages both sides deleted before cutoff.
	PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error)
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.Photo) error
	GetByID(ctx context.Context, id int32) (*domain.Photo, error)
	ListByMember(ctx context.Context, memberID int32, includePrivate bool) ([]domain.Photo, error)
	Update(ctx context.Context, photo *domain.Photo) error
	Delete(ctx context.Context, id int32) error
	IncrementViewCount(ctx context.Context, id int32) error

	AddToPool(ctx context.Context, pool *domain.PhotoPool) error
	RemoveFromPool(ctx context.Context, photoID int32, groupType domain.GroupType, groupID int32) error
	ListPool(ctx context.Context, groupType domain.GroupType, groupID int32) ([]domain.Photo, error)
}

type TagRepository interface {
	// SetTags replaces the full tag set of an object.
	SetTags(ctx context.Context, ref domain.ObjectRef, names []string) error
	TagsFor(ctx context.Context, ref domain.ObjectRef) ([]string, error)
	ObjectsWithTag(ctx context.Context, objectType domain.ObjectType, tag string) ([]int32, error)
	// Counts returns usage counts per tag; an empty objectType counts all objects.
	Counts(ctx context.Context, objectType domain.ObjectType) ([]domain.TagCount, error)
}

type VoteRepository interface {
	Upsert(ctx context.Context, vote *domain.Vote) error
	Delete(ctx context.Context, userID int32, ref domain.ObjectRef) error
	Get(ctx context.Context, userID int32, ref domain.ObjectRef) (*domain.Vote, error)
	Score(ctx context.Context, ref domain.ObjectRef) (*domain.Score, error)
	Scores(ctx context.Context, objectType domain.ObjectType, ids []int32) ([]domain.Score, error)
	Top(ctx context.Context, objectType domain.ObjectType, limit int32) ([]domain.Score, error)
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *domain.Tweet) error
	// Deliver stores one timeline instance per recipient.
	Deliver(ctx context.Context, tweet *domain.Tweet, recipientIDs []int32) error
	Timeline(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Tweet, int32, error)
	ListBySender(ctx context.Context, senderID int32, limit int32) ([]domain.Tweet, error)

	Follow(ctx context.Context, followerID, followedID int32) error
	Unfollow(ctx context.Context, followerID, followedID int32) error
	IsFollowing(ctx context.Context, followerID, followedID int32) (bool, error)
	ListFollowers(ctx context.Context, userID int32) ([]domain.User, error)
	ListFollowing(ctx context.Context, userID int32) ([]domain.User, error)
}

type NotificationRepository interface {
	UpsertType(ctx context.Context, nt *domain.NoticeType) error
	GetType(ctx context.Context, label string) (*domain.NoticeType, error)
	ListTypes(ctx context.Context) ([]domain.NoticeType, error)

	GetSetting(ctx context.Context, userID int32, label string, medium domain.NoticeMedium) (*domain.NoticeSetting, error)
	ListSettings(ctx context.Context, userID int32) ([]domain.NoticeSetting, error)
	UpsertSetting(ctx context.Context, setting *domain.NoticeSetting) error

	Create(ctx context.Context, notice *domain.Notice) error
	GetByID(ctx context.Context, id int32) (*domain.Notice, error)
	List(ctx context.Context, userID int32, unseenOnly bool, page, pageSize int32) ([]domain.Notice, int32, error)
	CountUnseen(ctx context.Context, userID int32) (int32, error)
	MarkSeen(ctx context.Context, userID, id int32) error
	MarkAllSeen(ctx context.Context, userID int32) (int64, error)
	Archive(ctx context.Context, userID, id int32) error
	Delete(ctx context.Context, userID, id int32) error

	Enqueue(ctx context.Context, noticeID int32, medium domain.NoticeMedium) error
	ListQueued(ctx context.Context, maxAttempts int32, limit int32) ([]domain.QueuedNotice, error)
	DeleteQueued(ctx context.Context, id int32) error
	RecordQueueFailure(ctx context.Context, id int32, lastError string) error

	UpsertDevice(ctx context.Context, device *domain.Device) error
	DeleteDevice(ctx context.Context, userID int32, token string) error
	ListDevices(ctx context.Context, userID int32) ([]domain.Device, error)
}

type FeedRepository interface {
	Create(ctx context.Context, feed *domain.Feed) error
	GetByID(ctx context.Context, id int32) (*domain.Feed, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Feed, error)
	ListAll(ctx context.Context) ([]domain.Feed, error)
	Delete(ctx context.Context, id int32) error
	RecordFetch(ctx context.Context, id int32, title string, fetchedAt time.Time, lastError string) error

	UpsertEntries(ctx context.Context, feedID int32, entries []domain.FeedEntry) (int, error)
	ListEntries(ctx context.Context, feedID int32, limit int32) ([]domain.FeedEntry, error)
	ListEntriesForOwner(ctx context.Context, ownerID int32, limit int32) ([]domain.FeedEntry, error)
}

// PluginStore reads and writes the plugin registry. It is implemented both on the
// database handle and on a transaction.
type PluginStore interface {
	ListPoints(ctx context.Context) ([]domain.PluginPoint, error)
	GetPointByID(ctx context.Context, id int32) (*domain.PluginPoint, error)
	GetPointByLabel(ctx context.Context, label string) (*domain.PluginPoint, error)
	CreatePoint(ctx context.Context, point *domain.PluginPoint) error
	UpdatePoint(ctx context.Context, point *domain.PluginPoint) error
	DeletePoint(ctx context.Context, id int32) error

	ListPlugins(ctx context.Context, pointID int32) ([]domain.Plugin, error)
	ListAllPlugins(ctx context.Context) ([]domain.Plugin, error)
	GetPlugin(ctx context.Context, id int32) (*domain.Plugin, error)
	CreatePlugin(ctx context.Context, plugin *domain.Plugin) error
	UpdatePlugin(ctx context.Context, plugin *domain.Plugin) error
	DeletePlugin(ctx context.Context, id int32) error

	UpsertPreference(ctx context.Context, pref *domain.UserPluginPreference) error
	ListPreferences(ctx context.Context, userID, pointID int32) ([]domain.UserPluginPreference, error)
}

type PluginRepository interface {
	PluginStore
	// InTx runs fn in one transaction; a non-nil error from fn rolls it back.
	InTx(ctx context.Context, fn func(store PluginStore) error) error
}
