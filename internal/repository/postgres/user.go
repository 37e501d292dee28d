package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

const userColumns = `id, username, email, password_hash, name, about, location, website, timezone, language, COALESCE(avatar_url, ''), is_staff, created_on, updated_on`

const prefixedUserColumns = `u.id, u.username, u.email, u.password_hash, u.name, u.about, u.location, u.website, u.timezone, u.language, COALESCE(u.avatar_url, ''), u.is_staff, u.created_on, u.updated_on`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, u *domain.User) error {
	return row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &u.About, &u.Location,
		&u.Website, &u.Timezone, &u.Language, &u.AvatarURL, &u.IsStaff, &u.CreatedOn, &u.UpdatedOn)
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (username, email, password_hash, name, about, location, website, timezone, language, avatar_url, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now().UTC()
	u.CreatedOn = now
	u.UpdatedOn = now
	err := r.db.QueryRowContext(ctx, query, u.Username, u.Email, u.PasswordHash, u.Name, u.About, u.Location,
		u.Website, u.Timezone, u.Language, nullString(u.AvatarURL), u.CreatedOn, u.UpdatedOn).Scan(&u.ID)
	return mapError(err)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), u); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := scanUser(r.db.QueryRowContext(ctx, query, username), u); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	if err := scanUser(r.db.QueryRowContext(ctx, query, email), u); err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) ListByUsernames(ctx context.Context, usernames []string) ([]domain.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ANY($1) ORDER BY username`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(usernames))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET email=$1, name=$2, about=$3, location=$4, website=$5, timezone=$6, language=$7, avatar_url=$8, updated_on=$9 WHERE id=$10`
	u.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, u.Email, u.Name, u.About, u.Location, u.Website, u.Timezone,
		u.Language, nullString(u.AvatarURL), u.UpdatedOn, u.ID)
	return expectAffected(res, err)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int32, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash=$1, updated_on=$2 WHERE id=$3`,
		passwordHash, time.Now().UTC(), userID)
	return expectAffected(res, err)
}

// collectUsers scans rows selected with userColumns.
func collectUsers(rows *sql.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
