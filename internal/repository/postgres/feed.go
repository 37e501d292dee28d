package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

type feedRepository struct {
	db *sqlx.DB
}

func NewFeedRepository(db *sqlx.DB) repository.FeedRepository {
	return &feedRepository{db: db}
}

const feedColumns = `id, owner_id, url, title, last_fetched_on, last_error, created_on`

func (r *feedRepository) Create(ctx context.Context, f *domain.Feed) error {
	const op = "repo.feed.Create"

	f.CreatedOn = time.Now().UTC()
	query := `INSERT INTO feeds (owner_id, url, title, last_error, created_on)
	          VALUES (:owner_id, :url, :title, :last_error, :created_on) RETURNING id`
	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &f.ID, f); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

func (r *feedRepository) GetByID(ctx context.Context, id int32) (*domain.Feed, error) {
	const op = "repo.feed.GetByID"

	var f domain.Feed
	if err := r.db.GetContext(ctx, &f, `SELECT `+feedColumns+` FROM feeds WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &f, nil
}

func (r *feedRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Feed, error) {
	const op = "repo.feed.ListByOwner"

	var feeds []domain.Feed
	if err := r.db.SelectContext(ctx, &feeds, `SELECT `+feedColumns+` FROM feeds WHERE owner_id = $1 ORDER BY title, id`, ownerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return feeds, nil
}

func (r *feedRepository) ListAll(ctx context.Context) ([]domain.Feed, error) {
	const op = "repo.feed.ListAll"

	var feeds []domain.Feed
	if err := r.db.SelectContext(ctx, &feeds, `SELECT `+feedColumns+` FROM feeds ORDER BY last_fetched_on NULLS FIRST, id`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return feeds, nil
}

func (r *feedRepository) Delete(ctx context.Context, id int32) error {
	const op = "repo.feed.Delete"

	res, err := r.db.ExecContext(ctx, `DELETE FROM feeds WHERE id = $1`, id)
	if err := expectAffected(res, err); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (r *feedRepository) RecordFetch(ctx context.Context, id int32, title string, fetchedAt time.Time, lastError string) error {
	const op = "repo.feed.RecordFetch"

	query := `UPDATE feeds SET title = CASE WHEN $1 = '' THEN title ELSE $1 END, last_fetched_on = $2, last_error = $3 WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, title, fetchedAt, lastError, id)
	if err := expectAffected(res, err); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpsertEntries inserts new entries and refreshes known ones, keyed by (feed_id, guid).
func (r *feedRepository) UpsertEntries(ctx context.Context, feedID int32, entries []domain.FeedEntry) (int, error) {
	const op = "repo.feed.UpsertEntries"

	if len(entries) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	query := `INSERT INTO feed_entries (feed_id, guid, title, link, summary, published_on)
	          VALUES (:feed_id, :guid, :title, :link, :summary, :published_on)
	          ON CONFLICT (feed_id, guid) DO UPDATE
	          SET title = EXCLUDED.title, link = EXCLUDED.link, summary = EXCLUDED.summary, published_on = EXCLUDED.published_on`

	for i := range entries {
		entries[i].FeedID = feedID
		if _, err := tx.NamedExecContext(ctx, query, &entries[i]); err != nil {
			return 0, fmt.Errorf("%s: failed to upsert entry %s: %w", op, entries[i].GUID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return len(entries), nil
}

func (r *feedRepository) ListEntries(ctx context.Context, feedID int32, limit int32) ([]domain.FeedEntry, error) {
	const op = "repo.feed.ListEntries"

	query := `SELECT id, feed_id, guid, title, link, summary, published_on FROM feed_entries
	          WHERE feed_id = $1 ORDER BY published_on DESC NULLS LAST, id DESC LIMIT $2`
	var entries []domain.FeedEntry
	if err := r.db.SelectContext(ctx, &entries, query, feedID, limit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}

func (r *feedRepository) ListEntriesForOwner(ctx context.Context, ownerID int32, limit int32) ([]domain.FeedEntry, error) {
	const op = "repo.feed.ListEntriesForOwner"

	query := `SELECT e.id, e.feed_id, e.guid, e.title, e.link, e.summary, e.published_on
	          FROM feed_entries e JOIN feeds f ON f.id = e.feed_id
	          WHERE f.owner_id = $1 ORDER BY e.published_on DESC NULLS LAST, e.id DESC LIMIT $2`
	var entries []domain.FeedEntry
	if err := r.db.SelectContext(ctx, &entries, query, ownerID, limit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return entries, nil
}
