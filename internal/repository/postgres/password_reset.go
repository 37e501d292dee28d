package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) repository.PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, p *domain.PasswordReset) error {
	query := `INSERT INTO password_resets (user_id, token_hash, expires_at) VALUES ($1, $2, $3) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, p.UserID, p.TokenHash, p.ExpiresAt).Scan(&p.ID))
}

func (r *passwordResetRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	p := &domain.PasswordReset{}
	var usedAt sql.NullTime
	query := `SELECT id, user_id, token_hash, expires_at, used_at FROM password_resets WHERE token_hash = $1`
	if err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&p.ID, &p.UserID, &p.TokenHash, &p.ExpiresAt, &usedAt); err != nil {
		return nil, mapError(err)
	}
	if usedAt.Valid {
		p.UsedAt = &usedAt.Time
	}
	return p, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id int32, usedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE password_resets SET used_at = $1 WHERE id = $2 AND used_at IS NULL`, usedAt, id)
	return expectAffected(res, err)
}
