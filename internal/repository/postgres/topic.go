package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

type topicRepository struct {
	db *sql.DB
}

func NewTopicRepository(db *sql.DB) repository.TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, t *domain.Topic) error {
	now := time.Now().UTC()
	t.CreatedOn = now
	t.ModifiedOn = now
	query := `INSERT INTO topics (group_type, group_id, creator_id, title, body, created_on, modified_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, t.GroupType, t.GroupID, t.CreatorID, t.Title, t.Body, t.CreatedOn, t.ModifiedOn).Scan(&t.ID))
}

func (r *topicRepository) GetByID(ctx context.Context, id int32) (*domain.Topic, error) {
	t := &domain.Topic{}
	query := `SELECT id, group_type, group_id, creator_id, title, body, created_on, modified_on FROM topics WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.GroupType, &t.GroupID, &t.CreatorID, &t.Title, &t.Body, &t.CreatedOn, &t.ModifiedOn)
	if err != nil {
		return nil, mapError(err)
	}
	return t, nil
}

func (r *topicRepository) ListByGroup(ctx context.Context, groupType domain.GroupType, groupID int32) ([]domain.Topic, error) {
	query := `SELECT id, group_type, group_id, creator_id, title, body, created_on, modified_on FROM topics
	          WHERE group_type = $1 AND group_id = $2 ORDER BY modified_on DESC`
	rows, err := r.db.QueryContext(ctx, query, groupType, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.ID, &t.GroupType, &t.GroupID, &t.CreatorID, &t.Title, &t.Body, &t.CreatedOn, &t.ModifiedOn); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *topicRepository) Update(ctx context.Context, t *domain.Topic) error {
	t.ModifiedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE topics SET title = $1, body = $2, modified_on = $3 WHERE id = $4`,
		t.Title, t.Body, t.ModifiedOn, t.ID)
	return expectAffected(res, err)
}

func (r *topicRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id)
	return expectAffected(res, err)
}
