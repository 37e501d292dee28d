package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

type friendRepository struct {
	db *sql.DB
}

func NewFriendRepository(db *sql.DB) repository.FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) CreateFriendship(ctx context.Context, fromUserID, toUserID int32) error {
	query := `INSERT INTO friendships (from_user_id, to_user_id, added_on) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, fromUserID, toUserID, time.Now().UTC())
	return mapError(err)
}

func (r *friendRepository) AreFriends(ctx context.Context, a, b int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM friendships
	          WHERE (from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1))`
	err := r.db.QueryRowContext(ctx, query, a, b).Scan(&exists)
	return exists, err
}

func (r *friendRepository) ListFriends(ctx context.Context, userID int32) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id IN (
	              SELECT to_user_id FROM friendships WHERE from_user_id = $1
	              UNION
	              SELECT from_user_id FROM friendships WHERE to_user_id = $1)
	          ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *friendRepository) DeleteFriendship(ctx context.Context, a, b int32) error {
	query := `DELETE FROM friendships
	          WHERE (from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1)`
	res, err := r.db.ExecContext(ctx, query, a, b)
	return expectAffected(res, err)
}

func (r *friendRepository) CreateInvitation(ctx context.Context, inv *domain.FriendshipInvitation) error {
	inv.SentOn = time.Now().UTC()
	if inv.Status == "" {
		inv.Status = domain.InvitationStatusSent
	}
	query := `INSERT INTO friendship_invitations (from_user_id, to_user_id, message, sent_on, status)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, inv.FromUserID, inv.ToUserID, inv.Message, inv.SentOn, inv.Status).Scan(&inv.ID)
	return mapError(err)
}

const invitationColumns = `id, from_user_id, to_user_id, message, sent_on, status`

func (r *friendRepository) GetInvitation(ctx context.Context, id int32) (*domain.FriendshipInvitation, error) {
	inv := &domain.FriendshipInvitation{}
	query := `SELECT ` + invitationColumns + ` FROM friendship_invitations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&inv.ID, &inv.FromUserID, &inv.ToUserID, &inv.Message, &inv.SentOn, &inv.Status)
	if err != nil {
		return nil, mapError(err)
	}
	return inv, nil
}

func (r *friendRepository) FindPendingInvitation(ctx context.Context, a, b int32) (*domain.FriendshipInvitation, error) {
	inv := &domain.FriendshipInvitation{}
	query := `SELECT ` + invitationColumns + ` FROM friendship_invitations
	          WHERE status = 'SENT' AND ((from_user_id = $1 AND to_user_id = $2) OR (from_user_id = $2 AND to_user_id = $1))
	          ORDER BY sent_on DESC LIMIT 1`
	err := r.db.QueryRowContext(ctx, query, a, b).Scan(&inv.ID, &inv.FromUserID, &inv.ToUserID, &inv.Message, &inv.SentOn, &inv.Status)
	if err != nil {
		return nil, mapError(err)
	}
	return inv, nil
}

func (r *friendRepository) UpdateInvitationStatus(ctx context.Context, id int32, status domain.InvitationStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE friendship_invitations SET status = $1 WHERE id = $2`, status, id)
	return expectAffected(res, err)
}

func (r *friendRepository) ListReceivedInvitations(ctx context.Context, userID int32, status domain.InvitationStatus) ([]domain.FriendshipInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM friendship_invitations WHERE to_user_id = $1 AND status = $2 ORDER BY sent_on DESC`
	return r.listInvitations(ctx, query, userID, status)
}

func (r *friendRepository) ListSentInvitations(ctx context.Context, userID int32, status domain.InvitationStatus) ([]domain.FriendshipInvitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM friendship_invitations WHERE from_user_id = $1 AND status = $2 ORDER BY sent_on DESC`
	return r.listInvitations(ctx, query, userID, status)
}

func (r *friendRepository) listInvitations(ctx context.Context, query string, args ...any) ([]domain.FriendshipInvitation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []domain.FriendshipInvitation
	for rows.Next() {
		var inv domain.FriendshipInvitation
		if err := rows.Scan(&inv.ID, &inv.FromUserID, &inv.ToUserID, &inv.Message, &inv.SentOn, &inv.Status); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}
