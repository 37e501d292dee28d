package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

const photoColumns = `p.id, p.member_id, p.title, p.caption, p.storage_key, p.content_type, p.file_size, p.is_public, p.safety_level, p.view_count, p.created_on`

type photoRepository struct {
	db *sql.DB
}

func NewPhotoRepository(db *sql.DB) repository.PhotoRepository {
	return &photoRepository{db: db}
}

func scanPhoto(row rowScanner, p *domain.Photo) error {
	return row.Scan(&p.ID, &p.MemberID, &p.Title, &p.Caption, &p.StorageKey, &p.ContentType, &p.FileSize,
		&p.IsPublic, &p.SafetyLevel, &p.ViewCount, &p.CreatedOn)
}

func (r *photoRepository) Create(ctx context.Context, p *domain.Photo) error {
	p.CreatedOn = time.Now().UTC()
	query := `INSERT INTO photos (member_id, title, caption, storage_key, content_type, file_size, is_public, safety_level, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, p.MemberID, p.Title, p.Caption, p.StorageKey, p.ContentType,
		p.FileSize, p.IsPublic, p.SafetyLevel, p.CreatedOn).Scan(&p.ID))
}

func (r *photoRepository) GetByID(ctx context.Context, id int32) (*domain.Photo, error) {
	p := &domain.Photo{}
	if err := scanPhoto(r.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM photos p WHERE p.id = $1`, id), p); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *photoRepository) ListByMember(ctx context.Context, memberID int32, includePrivate bool) ([]domain.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos p WHERE p.member_id = $1 AND (p.is_public OR $2) ORDER BY p.created_on DESC, p.id DESC`
	return r.list(ctx, query, memberID, includePrivate)
}

func (r *photoRepository) list(ctx context.Context, query string, args ...any) ([]domain.Photo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.Photo
	for rows.Next() {
		var p domain.Photo
		if err := scanPhoto(rows, &p); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *photoRepository) Update(ctx context.Context, p *domain.Photo) error {
	query := `UPDATE photos SET title = $1, caption = $2, is_public = $3, safety_level = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, p.Title, p.Caption, p.IsPublic, p.SafetyLevel, p.ID)
	return expectAffected(res, err)
}

func (r *photoRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	return expectAffected(res, err)
}

func (r *photoRepository) IncrementViewCount(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE photos SET view_count = view_count + 1 WHERE id = $1`, id)
	return expectAffected(res, err)
}

func (r *photoRepository) AddToPool(ctx context.Context, pool *domain.PhotoPool) error {
	pool.AddedOn = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO photo_pools (photo_id, group_type, group_id, added_on) VALUES ($1, $2, $3, $4)`,
		pool.PhotoID, pool.GroupType, pool.GroupID, pool.AddedOn)
	return mapError(err)
}

func (r *photoRepository) RemoveFromPool(ctx context.Context, photoID int32, groupType domain.GroupType, groupID int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photo_pools WHERE photo_id = $1 AND group_type = $2 AND group_id = $3`,
		photoID, groupType, groupID)
	return expectAffected(res, err)
}

func (r *photoRepository) ListPool(ctx context.Context, groupType domain.GroupType, groupID int32) ([]domain.Photo, error) {
	query := `SELECT ` + photoColumns + ` FROM photos p JOIN photo_pools pp ON pp.photo_id = p.id
	          WHERE pp.group_type = $1 AND pp.group_id = $2 ORDER BY pp.added_on DESC`
	return r.list(ctx, query, groupType, groupID)
}
