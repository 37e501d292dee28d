package postgres

import (
	"context"
	"database/sql"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

type tagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) repository.TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) SetTags(ctx context.Context, ref domain.ObjectRef, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tagged_items WHERE object_type = $1 AND object_id = $2`, ref.Type, ref.ID); err != nil {
		return err
	}

	for _, name := range names {
		var tagID int32
		err := tx.QueryRowContext(ctx,
			`INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id`,
			name).Scan(&tagID)
		if err != nil {
			return mapError(err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tagged_items (tag_id, object_type, object_id) VALUES ($1, $2, $3)`,
			tagID, ref.Type, ref.ID); err != nil {
			return mapError(err)
		}
	}
	return tx.Commit()
}

func (r *tagRepository) TagsFor(ctx context.Context, ref domain.ObjectRef) ([]string, error) {
	query := `SELECT t.name FROM tags t JOIN tagged_items ti ON ti.tag_id = t.id
	          WHERE ti.object_type = $1 AND ti.object_id = $2 ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, query, ref.Type, ref.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (r *tagRepository) ObjectsWithTag(ctx context.Context, objectType domain.ObjectType, tag string) ([]int32, error) {
	query := `SELECT ti.object_id FROM tagged_items ti JOIN tags t ON t.id = ti.tag_id
	          WHERE ti.object_type = $1 AND t.name = $2 ORDER BY ti.object_id`
	rows, err := r.db.QueryContext(ctx, query, objectType, tag)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *tagRepository) Counts(ctx context.Context, objectType domain.ObjectType) ([]domain.TagCount, error) {
	query := `SELECT t.name, COUNT(*) FROM tags t JOIN tagged_items ti ON ti.tag_id = t.id
	          WHERE ($1 = '' OR ti.object_type = $1) GROUP BY t.name ORDER BY t.name`
	rows, err := r.db.QueryContext(ctx, query, string(objectType))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []domain.TagCount
	for rows.Next() {
		var c domain.TagCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
