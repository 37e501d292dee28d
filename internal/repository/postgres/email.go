package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

type emailRepository struct {
	db *sql.DB
}

func NewEmailRepository(db *sql.DB) repository.EmailRepository {
	return &emailRepository{db: db}
}

func (r *emailRepository) CreateAddress(ctx context.Context, a *domain.EmailAddress) error {
	query := `INSERT INTO email_addresses (user_id, email, verified, is_primary) VALUES ($1, $2, $3, $4) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, a.UserID, a.Email, a.Verified, a.Primary).Scan(&a.ID))
}

func (r *emailRepository) GetAddress(ctx context.Context, id int32) (*domain.EmailAddress, error) {
	a := &domain.EmailAddress{}
	query := `SELECT id, user_id, email, verified, is_primary FROM email_addresses WHERE id = $1`
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.UserID, &a.Email, &a.Verified, &a.Primary); err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *emailRepository) GetAddressByEmail(ctx context.Context, email string) (*domain.EmailAddress, error) {
	a := &domain.EmailAddress{}
	query := `SELECT id, user_id, email, verified, is_primary FROM email_addresses WHERE LOWER(email) = LOWER($1)`
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.UserID, &a.Email, &a.Verified, &a.Primary); err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *emailRepository) ListAddresses(ctx context.Context, userID int32) ([]domain.EmailAddress, error) {
	query := `SELECT id, user_id, email, verified, is_primary FROM email_addresses WHERE user_id = $1 ORDER BY is_primary DESC, id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addrs []domain.EmailAddress
	for rows.Next() {
		var a domain.EmailAddress
		if err := rows.Scan(&a.ID, &a.UserID, &a.Email, &a.Verified, &a.Primary); err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	return addrs, rows.Err()
}

func (r *emailRepository) MarkVerified(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE email_addresses SET verified = TRUE WHERE id = $1`, id)
	return expectAffected(res, err)
}

func (r *emailRepository) SetPrimary(ctx context.Context, userID, addressID int32) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE email_addresses SET is_primary = FALSE WHERE user_id = $1`, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE email_addresses SET is_primary = TRUE WHERE id = $1 AND user_id = $2`, addressID, userID)
	if err := expectAffected(res, err); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET email = (SELECT email FROM email_addresses WHERE id = $1), updated_on = NOW() WHERE id = $2`, addressID, userID); err != nil {
		return mapError(err)
	}
	return tx.Commit()
}

func (r *emailRepository) DeleteAddress(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM email_addresses WHERE id = $1`, id)
	return expectAffected(res, err)
}

func (r *emailRepository) CreateConfirmation(ctx context.Context, c *domain.EmailConfirmation) error {
	if c.SentAt.IsZero() {
		c.SentAt = time.Now().UTC()
	}
	query := `INSERT INTO email_confirmations (email_address_id, confirmation_key, sent_at) VALUES ($1, $2, $3) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, c.EmailAddressID, c.Key, c.SentAt).Scan(&c.ID))
}

func (r *emailRepository) GetConfirmationByKey(ctx context.Context, key string) (*domain.EmailConfirmation, error) {
	c := &domain.EmailConfirmation{}
	query := `SELECT id, email_address_id, confirmation_key, sent_at FROM email_confirmations WHERE confirmation_key = $1`
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&c.ID, &c.EmailAddressID, &c.Key, &c.SentAt); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *emailRepository) DeleteConfirmation(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM email_confirmations WHERE id = $1`, id)
	return expectAffected(res, err)
}
