package service

import (
	"context"
	"io"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/plugins"
	"pinax-social-backend/internal/tagging"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SignupInput struct {
	Username      string
	Email         string
	Name          string
	Password      string
	InvitationKey string
}

type ProfileUpdate struct {
	Name     string
	About    string
	Location string
	Website  string
	Timezone string
	Language string
}

type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, identifier, password string) (*domain.User, *TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID int32, oldPassword, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, in ProfileUpdate) (*domain.User, error)

	ListEmails(ctx context.Context, userID int32) ([]domain.EmailAddress, error)
	AddEmail(ctx context.Context, userID int32, email string) (*domain.EmailAddress, error)
	ConfirmEmail(ctx context.Context, key string) (*domain.EmailAddress, error)
	SetPrimaryEmail(ctx context.Context, userID, addressID int32) error
	RemoveEmail(ctx context.Context, userID, addressID int32) error

	UploadAvatar(ctx context.Context, userID int32, filename, contentType string, r io.Reader) (*domain.Avatar, error)
	ListAvatars(ctx context.Context, userID int32) ([]domain.Avatar, error)
	SetPrimaryAvatar(ctx context.Context, userID, avatarID int32) error
	DeleteAvatar(ctx context.Context, userID, avatarID int32) error
}

type EmailService interface {
	SendEmailConfirmation(ctx context.Context, to, name, key string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
	SendJoinInvitation(ctx context.Context, to, fromName, message, key string) error
	SendNotice(ctx context.Context, to, name, subject, body string) error
}

type FriendService interface {
	InviteFriend(ctx context.Context, fromUserID, toUserID int32, message string) (*domain.FriendshipInvitation, error)
	AcceptInvitation(ctx context.Context, userID, invitationID int32) error
	DeclineInvitation(ctx context.Context, userID, invitationID int32) error
	ListInvitations(ctx context.Context, userID int32) (received, sent []domain.FriendshipInvitation, err error)
	ListFriends(ctx context.Context, userID int32) ([]domain.User, error)
	AreFriends(ctx context.Context, a, b int32) (bool, error)
	RemoveFriend(ctx context.Context, userID, friendID int32) error

	InviteToJoin(ctx context.Context, fromUserID int32, email, message string) (*domain.JoinInvitation, error)
	ListJoinInvitations(ctx context.Context, userID int32) ([]domain.JoinInvitation, error)
	ExpireJoinInvitations(ctx context.Context, now time.Time) (int64, error)
}

type GroupInput struct {
	Slug        string
	Name        string
	Description string
	Private     bool
}

type TribeService interface {
	CreateTribe(ctx context.Context, userID int32, in GroupInput) (*domain.Tribe, error)
	GetTribe(ctx context.Context, slug string) (*domain.Tribe, error)
	ListTribes(ctx context.Context, query string, page, pageSize int32) ([]domain.Tribe, int32, error)
	ListUserTribes(ctx context.Context, userID int32) ([]domain.Tribe, error)
	UpdateTribe(ctx context.Context, userID int32, slug string, in GroupInput) (*domain.Tribe, error)
	JoinTribe(ctx context.Context, userID int32, slug string) error
	LeaveTribe(ctx context.Context, userID int32, slug string) error
	DeleteTribe(ctx context.Context, userID int32, slug string) error
	ListMembers(ctx context.Context, slug string) ([]domain.TribeMember, error)
}

type TopicService interface {
	CreateTopic(ctx context.Context, userID int32, groupType domain.GroupType, slug, title, body string) (*domain.Topic, error)
	ListTopics(ctx context.Context, viewerID int32, groupType domain.GroupType, slug string) ([]domain.Topic, error)
	GetTopic(ctx context.Context, viewerID, id int32) (*domain.Topic, error)
	UpdateTopic(ctx context.Context, userID, id int32, title, body string) (*domain.Topic, error)
	DeleteTopic(ctx context.Context, userID, id int32) error
}

type ProjectService interface {
	CreateProject(ctx context.Context, userID int32, in GroupInput) (*domain.Project, error)
	GetProject(ctx context.Context, viewerID int32, slug string) (*domain.Project, error)
	ListProjects(ctx context.Context, viewerID int32, query string, page, pageSize int32) ([]domain.Project, int32, error)
	ListUserProjects(ctx context.Context, userID int32) ([]domain.Project, error)
	UpdateProject(ctx context.Context, userID int32, slug string, in GroupInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, userID int32, slug string) error
	AddMember(ctx context.Context, actorID int32, slug, username string) (*domain.ProjectMember, error)
	RemoveMember(ctx context.Context, actorID int32, slug string, userID int32) error
	SetAway(ctx context.Context, userID int32, slug string, away bool, message string) error
	ListMembers(ctx context.Context, viewerID int32, slug string) ([]domain.ProjectMember, error)
}

type TaskInput struct {
	Summary    string
	Detail     string
	AssigneeID *int32
	Tags       string
}

type TaskService interface {
	CreateTask(ctx context.Context, actorID int32, projectSlug string, in TaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, viewerID, id int32) (*domain.Task, error)
	ListTasks(ctx context.Context, viewerID int32, projectSlug string, state *domain.TaskState, assigneeID *int32) ([]domain.Task, error)
	AssignTask(ctx context.Context, actorID, taskID int32, assigneeID *int32) (*domain.Task, error)
	AvailableTransitions(ctx context.Context, actorID, taskID int32) ([]domain.Transition, error)
	ChangeTaskState(ctx context.Context, actorID, taskID int32, to domain.TaskState, comment string) (*domain.Task, error)
	TaskHistory(ctx context.Context, viewerID, taskID int32) ([]domain.TaskChange, error)
	SetTaskTags(ctx context.Context, actorID, taskID int32, input string) (*domain.Task, error)
}

type ComposeInput struct {
	Recipients []string
	Subject    string
	Body       string
	ParentID   *int32
}

type MessageService interface {
	Compose(ctx context.Context, senderID int32, in ComposeInput) ([]domain.Message, error)
	Reply(ctx context.Context, userID, messageID int32, body string) (*domain.Message, error)
	Inbox(ctx context.Context, userID int32) ([]domain.Message, error)
	Outbox(ctx context.Context, userID int32) ([]domain.Message, error)
	Trash(ctx context.Context, userID int32) ([]domain.Message, error)
	View(ctx context.Context, userID, messageID int32) (*domain.Message, error)
	Delete(ctx context.Context, userID, messageID int32) error
	Undelete(ctx context.Context, userID, messageID int32) error
	UnreadCount(ctx context.Context, userID int32) (int32, error)
	PurgeDeleted(ctx context.Context, now time.Time) (int64, error)
}

type PhotoUpload struct {
	Filename    string
	Title       string
	Caption     string
	ContentType string
	IsPublic    bool
	Tags        string
}

type PhotoUpdate struct {
	Title       string
	Caption     string
	IsPublic    bool
	SafetyLevel domain.SafetyLevel
	Tags        *string
}

type PhotoService interface {
	Upload(ctx context.Context, memberID int32, in PhotoUpload, r io.Reader) (*domain.Photo, error)
	GetPhoto(ctx context.Context, viewerID, id int32) (*domain.Photo, error)
	ListUserPhotos(ctx context.Context, username string, viewerID int32) ([]domain.Photo, error)
	UpdatePhoto(ctx context.Context, userID, id int32, in PhotoUpdate) (*domain.Photo, error)
	DeletePhoto(ctx context.Context, userID, id int32) error
	AddToPool(ctx context.Context, userID, photoID int32, groupType domain.GroupType, slug string) error
	RemoveFromPool(ctx context.Context, userID, photoID int32, groupType domain.GroupType, slug string) error
	ListPool(ctx context.Context, viewerID int32, groupType domain.GroupType, slug string) ([]domain.Photo, error)
}

type TagService interface {
	SetTags(ctx context.Context, ref domain.ObjectRef, input string) ([]string, error)
	TagsFor(ctx context.Context, ref domain.ObjectRef) ([]string, error)
	ObjectsWithTag(ctx context.Context, objectType domain.ObjectType, tag string) ([]int32, error)
	Cloud(ctx context.Context, objectType domain.ObjectType, steps int, dist tagging.Distribution) ([]domain.TagCount, error)
}

type VoteService interface {
	RecordVote(ctx context.Context, userID int32, ref domain.ObjectRef, direction domain.VoteDirection) (*domain.Score, error)
	GetScore(ctx context.Context, ref domain.ObjectRef) (*domain.Score, error)
	GetVote(ctx context.Context, userID int32, ref domain.ObjectRef) (*domain.Vote, error)
	TopObjects(ctx context.Context, objectType domain.ObjectType, limit int32) ([]domain.Score, error)
	ScoresFor(ctx context.Context, objectType domain.ObjectType, ids []int32) ([]domain.Score, error)
}

type TweetService interface {
	Follow(ctx context.Context, followerID int32, username string) error
	Unfollow(ctx context.Context, followerID int32, username string) error
	Followers(ctx context.Context, username string) ([]domain.User, error)
	Following(ctx context.Context, username string) ([]domain.User, error)
	Post(ctx context.Context, senderID int32, text string) (*domain.Tweet, error)
	Timeline(ctx context.Context, userID, page, pageSize int32) ([]domain.Tweet, int32, error)
	UserTweets(ctx context.Context, username string, limit int32) ([]domain.Tweet, error)
}

// NoticeInput describes one notice sent to many recipients
type NoticeInput struct {
	Recipients []int32
	SenderID   *int32
	Label      string
	Message    string
	Attributes map[string]string
	// Queue defers email/push delivery to the emit job.
	Queue bool
}

type EmitResult struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
	Dropped   int `json:"dropped"`
}

type NotificationService interface {
	RegisterNoticeType(ctx context.Context, label, display, description string, defaultSend bool) error
	RegisterBuiltinTypes(ctx context.Context) error
	Send(ctx context.Context, in NoticeInput) error

	List(ctx context.Context, userID int32, unseenOnly bool, page, pageSize int32) ([]domain.Notice, int32, error)
	UnseenCount(ctx context.Context, userID int32) (int32, error)
	MarkSeen(ctx context.Context, userID, noticeID int32) error
	MarkAllSeen(ctx context.Context, userID int32) (int64, error)
	Archive(ctx context.Context, userID, noticeID int32) error
	Delete(ctx context.Context, userID, noticeID int32) error

	GetSettings(ctx context.Context, userID int32) ([]domain.NoticeSetting, error)
	UpdateSetting(ctx context.Context, userID int32, label string, medium domain.NoticeMedium, send bool) error

	RegisterDevice(ctx context.Context, userID int32, token, platform string) error
	UnregisterDevice(ctx context.Context, userID int32, token string) error

	EmitQueued(ctx context.Context, limit int32) (*EmitResult, error)
}

type FeedService interface {
	AddFeed(ctx context.Context, ownerID int32, url string) (*domain.Feed, error)
	RemoveFeed(ctx context.Context, ownerID, feedID int32) error
	ListFeeds(ctx context.Context, ownerID int32) ([]domain.Feed, error)
	RefreshFeed(ctx context.Context, ownerID, feedID int32) (*domain.Feed, error)
	Refresh(ctx context.Context, feedID int32) (*domain.Feed, error)
	RefreshAll(ctx context.Context) (int, error)
	Entries(ctx context.Context, feedID int32, limit int32) ([]domain.FeedEntry, error)
	UserStream(ctx context.Context, ownerID int32, limit int32) ([]domain.FeedEntry, error)
}

type PluginService interface {
	ListPoints(ctx context.Context) ([]domain.PluginPoint, error)
	ListPlugins(ctx context.Context, pointLabel string) ([]domain.Plugin, error)
	SetPointStatus(ctx context.Context, pointLabel string, status domain.PluginStatus) (*domain.PluginPoint, error)
	SetPluginStatus(ctx context.Context, pluginID int32, status domain.PluginStatus) (*domain.Plugin, error)
	SetUserPreference(ctx context.Context, userID, pluginID int32, visible bool, index int32) error
	ResolvePoint(ctx context.Context, userID int32, pointLabel string) ([]domain.Plugin, error)
	Sync(ctx context.Context, opts plugins.Options) (*plugins.Report, error)
}
