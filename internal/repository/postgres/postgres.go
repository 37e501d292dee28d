package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"pinax-social-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.EmailRepository
	repository.PasswordResetRepository
	repository.AvatarRepository
	repository.FriendRepository
	repository.JoinInvitationRepository
	repository.TribeRepository
	repository.ProjectRepository
	repository.TopicRepository
	repository.TaskRepository
	repository.MessageRepository
	repository.PhotoRepository
	repository.TagRepository
	repository.VoteRepository
	repository.TweetRepository
	repository.NotificationRepository
	repository.FeedRepository
	repository.PluginRepository
}

func NewStore(db *sql.DB) *Store {
	xdb := sqlx.NewDb(db, "postgres")
	return &Store{
		db:                       db,
		UserRepository:           NewUserRepository(db),
		EmailRepository:          NewEmailRepository(db),
		PasswordResetRepository:  NewPasswordResetRepository(db),
		AvatarRepository:         NewAvatarRepository(db),
		FriendRepository:         NewFriendRepository(db),
		JoinInvitationRepository: NewJoinInvitationRepository(db),
		TribeRepository:          NewTribeRepository(db),
		ProjectRepository:        NewProjectRepository(db),
		TopicRepository:          NewTopicRepository(db),
		TaskRepository:           NewTaskRepository(db),
		MessageRepository:        NewMessageRepository(db),
		PhotoRepository:          NewPhotoRepository(db),
		TagRepository:            NewTagRepository(db),
		VoteRepository:           NewVoteRepository(db),
		TweetRepository:          NewTweetRepository(db),
		NotificationRepository:   NewNotificationRepository(db),
		FeedRepository:           NewFeedRepository(xdb),
		PluginRepository:         NewPluginRepository(xdb),
	}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%w: %s", repository.ErrNotFound, pqErr.Constraint)
		}
	}
	return err
}

// expectAffected returns ErrNotFound when an update or delete touched no rows.
func expectAffected(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func offset(page, pageSize int32) int32 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
