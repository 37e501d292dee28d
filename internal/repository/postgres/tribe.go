package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

const tribeColumns = `t.id, t.slug, t.name, t.description, t.creator_id, t.private, t.created_on,
	(SELECT COUNT(*) FROM tribe_members m WHERE m.tribe_id = t.id)`

type tribeRepository struct {
	db *sql.DB
}

func NewTribeRepository(db *sql.DB) repository.TribeRepository {
	return &tribeRepository{db: db}
}

func scanTribe(row rowScanner, t *domain.Tribe) error {
	return row.Scan(&t.ID, &t.Slug, &t.Name, &t.Description, &t.CreatorID, &t.Private, &t.CreatedOn, &t.MemberCount)
}

func (r *tribeRepository) Create(ctx context.Context, t *domain.Tribe) error {
	t.CreatedOn = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO tribes (slug, name, description, creator_id, private, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, t.Slug, t.Name, t.Description, t.CreatorID, t.Private, t.CreatedOn).Scan(&t.ID); err != nil {
		return mapError(err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO tribe_members (tribe_id, user_id, joined_on) VALUES ($1, $2, $3)`,
		t.ID, t.CreatorID, t.CreatedOn); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	t.MemberCount = 1
	return nil
}

func (r *tribeRepository) GetByID(ctx context.Context, id int32) (*domain.Tribe, error) {
	t := &domain.Tribe{}
	if err := scanTribe(r.db.QueryRowContext(ctx, `SELECT `+tribeColumns+` FROM tribes t WHERE t.id = $1`, id), t); err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *tribeRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tribe, error) {
	t := &domain.Tribe{}
	if err := scanTribe(r.db.QueryRowContext(ctx, `SELECT `+tribeColumns+` FROM tribes t WHERE t.slug = $1`, slug), t); err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *tribeRepository) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Tribe, int32, error) {
	pattern := "%" + query + "%"
	var total int32
	countQuery := `SELECT COUNT(*) FROM tribes t WHERE t.name ILIKE $1 OR t.description ILIKE $1`
	if err := r.db.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + tribeColumns + ` FROM tribes t WHERE t.name ILIKE $1 OR t.description ILIKE $1
	              ORDER BY t.created_on DESC, t.id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, listQuery, pattern, pageSize, offset(page, pageSize))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tribes, err := collectTribes(rows)
	return tribes, total, err
}

func (r *tribeRepository) ListByMember(ctx context.Context, userID int32) ([]domain.Tribe, error) {
	query := `SELECT ` + tribeColumns + ` FROM tribes t
	          JOIN tribe_members tm ON tm.tribe_id = t.id WHERE tm.user_id = $1 ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTribes(rows)
}

func collectTribes(rows *sql.Rows) ([]domain.Tribe, error) {
	var tribes []domain.Tribe
	for rows.Next() {
		var t domain.Tribe
		if err := scanTribe(rows, &t); err != nil {
			return nil, err
		}
		tribes = append(tribes, t)
	}
	return tribes, rows.Err()
}

func (r *tribeRepository) Update(ctx context.Context, t *domain.Tribe) error {
	query := `UPDATE tribes SET name = $1, description = $2, private = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, t.Name, t.Description, t.Private, t.ID)
	return expectAffected(res, err)
}

func (r *tribeRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tribes WHERE id = $1`, id)
	return expectAffected(res, err)
}

func (r *tribeRepository) AddMember(ctx context.Context, tribeID, userID int32) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO tribe_members (tribe_id, user_id, joined_on) VALUES ($1, $2, $3)`,
		tribeID, userID, time.Now().UTC())
	return mapError(err)
}

func (r *tribeRepository) RemoveMember(ctx context.Context, tribeID, userID int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tribe_members WHERE tribe_id = $1 AND user_id = $2`, tribeID, userID)
	return expectAffected(res, err)
}

func (r *tribeRepository) IsMember(ctx context.Context, tribeID, userID int32) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM tribe_members WHERE tribe_id = $1 AND user_id = $2)`,
		tribeID, userID).Scan(&exists)
	return exists, err
}

func (r *tribeRepository) CountMembers(ctx context.Context, tribeID int32) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tribe_members WHERE tribe_id = $1`, tribeID).Scan(&n)
	return n, err
}

func (r *tribeRepository) ListMembers(ctx context.Context, tribeID int32) ([]domain.TribeMember, error) {
	query := `SELECT tm.tribe_id, tm.joined_on, ` + prefixedUserColumns + `
	          FROM tribe_members tm JOIN users u ON u.id = tm.user_id
	          WHERE tm.tribe_id = $1 ORDER BY tm.joined_on`
	rows, err := r.db.QueryContext(ctx, query, tribeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.TribeMember
	for rows.Next() {
		var m domain.TribeMember
		u := &domain.User{}
		if err := rows.Scan(&m.TribeID, &m.JoinedOn, &u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Name,
			&u.About, &u.Location, &u.Website, &u.Timezone, &u.Language, &u.AvatarURL, &u.CreatedOn, &u.UpdatedOn); err != nil {
			return nil, err
		}
		m.UserID = u.ID
		m.User = u
		members = append(members, m)
	}
	return members, rows.Err()
}
