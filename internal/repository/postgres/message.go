package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
)

const messageColumns = `id, subject, body, sender_id, recipient_id, parent_id, sent_at, read_at, replied_at, sender_deleted_at, recipient_deleted_at`

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func scanMessage(row rowScanner, m *domain.Message) error {
	var parent sql.NullInt32
	var readAt, repliedAt, senderDel, recipientDel sql.NullTime
	if err := row.Scan(&m.ID, &m.Subject, &m.Body, &m.SenderID, &m.RecipientID, &parent, &m.SentAt,
		&readAt, &repliedAt, &senderDel, &recipientDel); err != nil {
		return err
	}
	if parent.Valid {
		p := parent.Int32
		m.ParentID = &p
	}
	m.ReadAt = timePtr(readAt)
	m.RepliedAt = timePtr(repliedAt)
	m.SenderDeletedAt = timePtr(senderDel)
	m.RecipientDeletedAt = timePtr(recipientDel)
	return nil
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	m.SentAt = time.Now().UTC()
	query := `INSERT INTO messages (subject, body, sender_id, recipient_id, parent_id, sent_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, m.Subject, m.Body, m.SenderID, m.RecipientID, nullInt32(m.ParentID), m.SentAt).Scan(&m.ID))
}

func (r *messageRepository) GetByID(ctx context.Context, id int32) (*domain.Message, error) {
	m := &domain.Message{}
	if err := scanMessage(r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id), m); err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *messageRepository) Inbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages
	    WHERE recipient_id = $1 AND recipient_deleted_at IS NULL ORDER BY sent_at DESC, id DESC`, userID)
}

func (r *messageRepository) Outbox(ctx context.Context, userID int32) ([]domain.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages
	    WHERE sender_id = $1 AND sender_deleted_at IS NULL ORDER BY sent_at DESC, id DESC`, userID)
}

func (r *messageRepository) Trash(ctx context.Context, userID int32) ([]domain.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages
	    WHERE (recipient_id = $1 AND recipient_deleted_at IS NOT NULL)
	       OR (sender_id = $1 AND sender_deleted_at IS NOT NULL)
	    ORDER BY sent_at DESC, id DESC`, userID)
}

func (r *messageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *messageRepository) Update(ctx context.Context, m *domain.Message) error {
	query := `UPDATE messages SET read_at = $1, replied_at = $2, sender_deleted_at = $3, recipient_deleted_at = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, nullTime(m.ReadAt), nullTime(m.RepliedAt), nullTime(m.SenderDeletedAt), nullTime(m.RecipientDeletedAt), m.ID)
	return expectAffected(res, err)
}

func (r *messageRepository) CountUnread(ctx context.Context, userID int32) (int32, error) {
	var n int32
	query := `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND read_at IS NULL AND recipient_deleted_at IS NULL`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&n)
	return n, err
}

func (r *messageRepository) PurgeDeleted(ctx context.Context, cutoff time.Time) (int64, error) {
	logger.DatabaseCall("DELETE", "messages", "cutoff", cutoff)
	query := `DELETE FROM messages WHERE sender_deleted_at < $1 AND recipient_deleted_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("DELETE", n, err)
	return n, err
}
