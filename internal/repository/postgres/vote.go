package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) repository.VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) Upsert(ctx context.Context, v *domain.Vote) error {
	query := `INSERT INTO votes (user_id, object_type, object_id, vote) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, object_type, object_id) DO UPDATE SET vote = EXCLUDED.vote`
	_, err := r.db.ExecContext(ctx, query, v.UserID, v.ObjectType, v.ObjectID, v.Vote)
	return mapError(err)
}

func (r *voteRepository) Delete(ctx context.Context, userID int32, ref domain.ObjectRef) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE user_id = $1 AND object_type = $2 AND object_id = $3`,
		userID, ref.Type, ref.ID)
	return err
}

func (r *voteRepository) Get(ctx context.Context, userID int32, ref domain.ObjectRef) (*domain.Vote, error) {
	v := &domain.Vote{}
	query := `SELECT user_id, object_type, object_id, vote FROM votes WHERE user_id = $1 AND object_type = $2 AND object_id = $3`
	if err := r.db.QueryRowContext(ctx, query, userID, ref.Type, ref.ID).Scan(&v.UserID, &v.ObjectType, &v.ObjectID, &v.Vote); err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (r *voteRepository) Score(ctx context.Context, ref domain.ObjectRef) (*domain.Score, error) {
	s := &domain.Score{ObjectType: ref.Type, ObjectID: ref.ID}
	query := `SELECT COALESCE(SUM(vote), 0), COUNT(*) FROM votes WHERE object_type = $1 AND object_id = $2`
	if err := r.db.QueryRowContext(ctx, query, ref.Type, ref.ID).Scan(&s.Score, &s.NumVotes); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *voteRepository) Scores(ctx context.Context, objectType domain.ObjectType, ids []int32) ([]domain.Score, error) {
	query := `SELECT object_type, object_id, SUM(vote), COUNT(*) FROM votes
	          WHERE object_type = $1 AND object_id = ANY($2) GROUP BY object_type, object_id ORDER BY object_id`
	return r.list(ctx, query, objectType, pq.Array(ids))
}

func (r *voteRepository) Top(ctx context.Context, objectType domain.ObjectType, limit int32) ([]domain.Score, error) {
	query := `SELECT object_type, object_id, SUM(vote) AS score, COUNT(*) AS num_votes FROM votes
	          WHERE object_type = $1 GROUP BY object_type, object_id
	          ORDER BY score DESC, num_votes DESC, object_id LIMIT $2`
	return r.list(ctx, query, objectType, limit)
}

func (r *voteRepository) list(ctx context.Context, query string, args ...any) ([]domain.Score, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []domain.Score
	for rows.Next() {
		var s domain.Score
		if err := rows.Scan(&s.ObjectType, &s.ObjectID, &s.Score, &s.NumVotes); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
