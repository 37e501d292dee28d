package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

type tweetRepository struct {
	db *sql.DB
}

func NewTweetRepository(db *sql.DB) repository.TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, t *domain.Tweet) error {
	t.SentOn = time.Now().UTC()
	query := `INSERT INTO tweets (sender_id, text, sent_on) VALUES ($1, $2, $3) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, t.SenderID, t.Text, t.SentOn).Scan(&t.ID))
}

func (r *tweetRepository) Deliver(ctx context.Context, t *domain.Tweet, recipientIDs []int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO tweet_instances (tweet_id, recipient_id, sent_on) VALUES ($1, $2, $3)
	                                     ON CONFLICT (tweet_id, recipient_id) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, id := range recipientIDs {
		if _, err := stmt.ExecContext(ctx, t.ID, id, t.SentOn); err != nil {
			return mapError(err)
		}
	}
	return tx.Commit()
}

func (r *tweetRepository) Timeline(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Tweet, int32, error) {
	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tweet_instances WHERE recipient_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT t.id, t.sender_id, u.username, t.text, t.sent_on
	          FROM tweet_instances ti
	          JOIN tweets t ON t.id = ti.tweet_id
	          JOIN users u ON u.id = t.sender_id
	          WHERE ti.recipient_id = $1
	          ORDER BY ti.sent_on DESC, t.id DESC LIMIT $2 OFFSET $3`
	tweets, err := r.list(ctx, query, userID, pageSize, offset(page, pageSize))
	return tweets, total, err
}

func (r *tweetRepository) ListBySender(ctx context.Context, senderID int32, limit int32) ([]domain.Tweet, error) {
	query := `SELECT t.id, t.sender_id, u.username, t.text, t.sent_on
	          FROM tweets t JOIN users u ON u.id = t.sender_id
	          WHERE t.sender_id = $1 ORDER BY t.sent_on DESC, t.id DESC LIMIT $2`
	return r.list(ctx, query, senderID, limit)
}

func (r *tweetRepository) list(ctx context.Context, query string, args ...any) ([]domain.Tweet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tweets []domain.Tweet
	for rows.Next() {
		var t domain.Tweet
		if err := rows.Scan(&t.ID, &t.SenderID, &t.Sender, &t.Text, &t.SentOn); err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

func (r *tweetRepository) Follow(ctx context.Context, followerID, followedID int32) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO followings (follower_id, followed_id, created_on) VALUES ($1, $2, $3)`,
		followerID, followedID, time.Now().UTC())
	return mapError(err)
}

func (r *tweetRepository) Unfollow(ctx context.Context, followerID, followedID int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM followings WHERE follower_id = $1 AND followed_id = $2`, followerID, followedID)
	return expectAffected(res, err)
}

func (r *tweetRepository) IsFollowing(ctx context.Context, followerID, followedID int32) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM followings WHERE follower_id = $1 AND followed_id = $2)`,
		followerID, followedID).Scan(&exists)
	return exists, err
}

func (r *tweetRepository) ListFollowers(ctx context.Context, userID int32) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id IN (SELECT follower_id FROM followings WHERE followed_id = $1) ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *tweetRepository) ListFollowing(ctx context.Context, userID int32) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id IN (SELECT followed_id FROM followings WHERE follower_id = $1) ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}
