package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
)

type joinInvitationRepository struct {
	db *sql.DB
}

func NewJoinInvitationRepository(db *sql.DB) repository.JoinInvitationRepository {
	return &joinInvitationRepository{db: db}
}

func (r *joinInvitationRepository) Create(ctx context.Context, inv *domain.JoinInvitation) error {
	inv.SentOn = time.Now().UTC()
	if inv.Status == "" {
		inv.Status = domain.InvitationStatusSent
	}
	query := `INSERT INTO join_invitations (from_user_id, email, message, sent_on, status, confirmation_key)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, inv.FromUserID, inv.Email, inv.Message, inv.SentOn, inv.Status, inv.ConfirmationKey).Scan(&inv.ID)
	return mapError(err)
}

func (r *joinInvitationRepository) GetByKey(ctx context.Context, key string) (*domain.JoinInvitation, error) {
	inv := &domain.JoinInvitation{}
	query := `SELECT id, from_user_id, email, message, sent_on, status, confirmation_key FROM join_invitations WHERE confirmation_key = $1`
	err := r.db.QueryRowContext(ctx, query, key).Scan(&inv.ID, &inv.FromUserID, &inv.Email, &inv.Message, &inv.SentOn, &inv.Status, &inv.ConfirmationKey)
	if err != nil {
		return nil, mapError(err)
	}
	return inv, nil
}

func (r *joinInvitationRepository) ListSent(ctx context.Context, userID int32) ([]domain.JoinInvitation, error) {
	query := `SELECT id, from_user_id, email, message, sent_on, status, confirmation_key FROM join_invitations WHERE from_user_id = $1 ORDER BY sent_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []domain.JoinInvitation
	for rows.Next() {
		var inv domain.JoinInvitation
		if err := rows.Scan(&inv.ID, &inv.FromUserID, &inv.Email, &inv.Message, &inv.SentOn, &inv.Status, &inv.ConfirmationKey); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

func (r *joinInvitationRepository) UpdateStatus(ctx context.Context, id int32, status domain.InvitationStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE join_invitations SET status = $1 WHERE id = $2`, status, id)
	return expectAffected(res, err)
}

func (r *joinInvitationRepository) ExpireSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	logger.DatabaseCall("UPDATE", "join_invitations", "cutoff", cutoff)
	res, err := r.db.ExecContext(ctx, `UPDATE join_invitations SET status = 'EXPIRED' WHERE status = 'SENT' AND sent_on < $1`, cutoff)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	return n, err
}
