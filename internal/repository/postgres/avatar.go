package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

type avatarRepository struct {
	db *sql.DB
}

func NewAvatarRepository(db *sql.DB) repository.AvatarRepository {
	return &avatarRepository{db: db}
}

func (r *avatarRepository) Create(ctx context.Context, a *domain.Avatar) error {
	a.CreatedOn = time.Now().UTC()
	query := `INSERT INTO avatars (user_id, storage_key, url, is_primary, created_on) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, a.UserID, a.StorageKey, a.URL, a.Primary, a.CreatedOn).Scan(&a.ID))
}

func (r *avatarRepository) GetByID(ctx context.Context, id int32) (*domain.Avatar, error) {
	a := &domain.Avatar{}
	query := `SELECT id, user_id, storage_key, url, is_primary, created_on FROM avatars WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.UserID, &a.StorageKey, &a.URL, &a.Primary, &a.CreatedOn); err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

// ListByUser returns avatars newest first.
func (r *avatarRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Avatar, error) {
	query := `SELECT id, user_id, storage_key, url, is_primary, created_on FROM avatars WHERE user_id = $1 ORDER BY created_on DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var avatars []domain.Avatar
	for rows.Next() {
		var a domain.Avatar
		if err := rows.Scan(&a.ID, &a.UserID, &a.StorageKey, &a.URL, &a.Primary, &a.CreatedOn); err != nil {
			return nil, err
		}
		avatars = append(avatars, a)
	}
	return avatars, rows.Err()
}

func (r *avatarRepository) SetPrimary(ctx context.Context, userID, avatarID int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE avatars SET is_primary = FALSE WHERE user_id = $1`, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE avatars SET is_primary = TRUE WHERE id = $1 AND user_id = $2`, avatarID, userID)
	if err := expectAffected(res, err); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *avatarRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM avatars WHERE id = $1`, id)
	return expectAffected(res, err)
}
