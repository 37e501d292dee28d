package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/logger"
	"pinax-social-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) UpsertType(ctx context.Context, nt *domain.NoticeType) error {
	query := `INSERT INTO notice_types (label, display, description, default_send) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (label) DO UPDATE SET display = EXCLUDED.display, description = EXCLUDED.description, default_send = EXCLUDED.default_send
	          RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, nt.Label, nt.Display, nt.Description, nt.DefaultSend).Scan(&nt.ID))
}

func (r *notificationRepository) GetType(ctx context.Context, label string) (*domain.NoticeType, error) {
	nt := &domain.NoticeType{}
	query := `SELECT id, label, display, description, default_send FROM notice_types WHERE label = $1`
	if err := r.db.QueryRowContext(ctx, query, label).Scan(&nt.ID, &nt.Label, &nt.Display, &nt.Description, &nt.DefaultSend); err != nil {
		return nil, mapError(err)
	}
	return nt, nil
}

func (r *notificationRepository) ListTypes(ctx context.Context) ([]domain.NoticeType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, display, description, default_send FROM notice_types ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []domain.NoticeType
	for rows.Next() {
		var nt domain.NoticeType
		if err := rows.Scan(&nt.ID, &nt.Label, &nt.Display, &nt.Description, &nt.DefaultSend); err != nil {
			return nil, err
		}
		types = append(types, nt)
	}
	return types, rows.Err()
}

func (r *notificationRepository) GetSetting(ctx context.Context, userID int32, label string, medium domain.NoticeMedium) (*domain.NoticeSetting, error) {
	s := &domain.NoticeSetting{}
	query := `SELECT ns.user_id, nt.label, ns.medium, ns.send FROM notice_settings ns
	          JOIN notice_types nt ON nt.id = ns.notice_type_id
	          WHERE ns.user_id = $1 AND nt.label = $2 AND ns.medium = $3`
	if err := r.db.QueryRowContext(ctx, query, userID, label, medium).Scan(&s.UserID, &s.NoticeType, &s.Medium, &s.Send); err != nil {
		return nil, mapError(err)
	}
	return s, nil
}

func (r *notificationRepository) ListSettings(ctx context.Context, userID int32) ([]domain.NoticeSetting, error) {
	query := `SELECT ns.user_id, nt.label, ns.medium, ns.send FROM notice_settings ns
	          JOIN notice_types nt ON nt.id = ns.notice_type_id WHERE ns.user_id = $1 ORDER BY nt.label, ns.medium`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.NoticeSetting
	for rows.Next() {
		var s domain.NoticeSetting
		if err := rows.Scan(&s.UserID, &s.NoticeType, &s.Medium, &s.Send); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *notificationRepository) UpsertSetting(ctx context.Context, s *domain.NoticeSetting) error {
	query := `INSERT INTO notice_settings (user_id, notice_type_id, medium, send)
	          SELECT $1, id, $3, $4 FROM notice_types WHERE label = $2
	          ON CONFLICT (user_id, notice_type_id, medium) DO UPDATE SET send = EXCLUDED.send`
	res, err := r.db.ExecContext(ctx, query, s.UserID, s.NoticeType, s.Medium, s.Send)
	return expectAffected(res, err)
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notice) error {
	logger.EnterMethod("notificationRepository.Create", "recipientID", n.RecipientID, "noticeType", n.NoticeType)

	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "reason", "failed to marshal attributes")
		return err
	}

	query := `INSERT INTO notices (recipient_id, sender_id, notice_type_id, message, attributes, added_on, unseen, archived)
	          SELECT $1, $2, id, $4, $5, $6, TRUE, FALSE FROM notice_types WHERE label = $3
	          RETURNING id`
	logger.DatabaseCall("INSERT", "notices", "recipientID", n.RecipientID)

	n.AddedOn = time.Now().UTC()
	n.Unseen = true
	err = r.db.QueryRowContext(ctx, query, n.RecipientID, nullInt32(n.SenderID), n.NoticeType, n.Message, attrs, n.AddedOn).Scan(&n.ID)
	logger.DatabaseResult("INSERT", 1, err, "noticeID", n.ID)

	if err != nil {
		logger.ExitMethodWithError("notificationRepository.Create", err, "recipientID", n.RecipientID)
		return mapError(err)
	}
	logger.ExitMethod("notificationRepository.Create", "noticeID", n.ID)
	return nil
}

const noticeColumns = `n.id, n.recipient_id, n.sender_id, nt.label, n.message, n.attributes, n.added_on, n.unseen, n.archived`

func scanNotice(row rowScanner, n *domain.Notice) error {
	var sender sql.NullInt32
	var attrs []byte
	if err := row.Scan(&n.ID, &n.RecipientID, &sender, &n.NoticeType, &n.Message, &attrs, &n.AddedOn, &n.Unseen, &n.Archived); err != nil {
		return err
	}
	if sender.Valid {
		id := sender.Int32
		n.SenderID = &id
	}
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
			return err
		}
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id int32) (*domain.Notice, error) {
	n := &domain.Notice{}
	query := `SELECT ` + noticeColumns + ` FROM notices n JOIN notice_types nt ON nt.id = n.notice_type_id WHERE n.id = $1`
	if err := scanNotice(r.db.QueryRowContext(ctx, query, id), n); err != nil {
		return nil, mapError(err)
	}
	return n, nil
}

func (r *notificationRepository) List(ctx context.Context, userID int32, unseenOnly bool, page, pageSize int32) ([]domain.Notice, int32, error) {
	var count int32
	countQuery := `SELECT COUNT(*) FROM notices WHERE recipient_id = $1 AND NOT archived AND (unseen OR NOT $2)`
	if err := r.db.QueryRowContext(ctx, countQuery, userID, unseenOnly).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + noticeColumns + ` FROM notices n JOIN notice_types nt ON nt.id = n.notice_type_id
	          WHERE n.recipient_id = $1 AND NOT n.archived AND (n.unseen OR NOT $2)
	          ORDER BY n.added_on DESC, n.id DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, userID, unseenOnly, pageSize, offset(page, pageSize))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notices []domain.Notice
	for rows.Next() {
		var n domain.Notice
		if err := scanNotice(rows, &n); err != nil {
			return nil, 0, err
		}
		notices = append(notices, n)
	}
	return notices, count, rows.Err()
}

func (r *notificationRepository) CountUnseen(ctx context.Context, userID int32) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notices WHERE recipient_id = $1 AND unseen AND NOT archived`, userID).Scan(&n)
	return n, err
}

func (r *notificationRepository) MarkSeen(ctx context.Context, userID, id int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notices SET unseen = FALSE WHERE id = $1 AND recipient_id = $2`, id, userID)
	return expectAffected(res, err)
}

func (r *notificationRepository) MarkAllSeen(ctx context.Context, userID int32) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notices SET unseen = FALSE WHERE recipient_id = $1 AND unseen`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) Archive(ctx context.Context, userID, id int32) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notices SET archived = TRUE WHERE id = $1 AND recipient_id = $2`, id, userID)
	return expectAffected(res, err)
}

func (r *notificationRepository) Delete(ctx context.Context, userID, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1 AND recipient_id = $2`, id, userID)
	return expectAffected(res, err)
}

func (r *notificationRepository) Enqueue(ctx context.Context, noticeID int32, medium domain.NoticeMedium) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO notice_queue (notice_id, medium, queued_on) VALUES ($1, $2, $3)`,
		noticeID, medium, time.Now().UTC())
	return mapError(err)
}

func (r *notificationRepository) ListQueued(ctx context.Context, maxAttempts int32, limit int32) ([]domain.QueuedNotice, error) {
	query := `SELECT id, notice_id, medium, queued_on, attempts, last_error FROM notice_queue
	          WHERE attempts < $1 ORDER BY queued_on, id LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var queued []domain.QueuedNotice
	for rows.Next() {
		var q domain.QueuedNotice
		if err := rows.Scan(&q.ID, &q.NoticeID, &q.Medium, &q.QueuedOn, &q.Attempts, &q.LastError); err != nil {
			return nil, err
		}
		queued = append(queued, q)
	}
	return queued, rows.Err()
}

func (r *notificationRepository) DeleteQueued(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM notice_queue WHERE id = $1`, id)
	return err
}

func (r *notificationRepository) RecordQueueFailure(ctx context.Context, id int32, lastError string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE notice_queue SET attempts = attempts + 1, last_error = $1 WHERE id = $2`, lastError, id)
	return expectAffected(res, err)
}

func (r *notificationRepository) UpsertDevice(ctx context.Context, d *domain.Device) error {
	d.CreatedOn = time.Now().UTC()
	query := `INSERT INTO user_devices (user_id, token, platform, created_on) VALUES ($1, $2, $3, $4)
	          ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
	          RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, d.UserID, d.Token, d.Platform, d.CreatedOn).Scan(&d.ID))
}

func (r *notificationRepository) DeleteDevice(ctx context.Context, userID int32, token string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_devices WHERE user_id = $1 AND token = $2`, userID, token)
	return expectAffected(res, err)
}

func (r *notificationRepository) ListDevices(ctx context.Context, userID int32) ([]domain.Device, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, user_id, token, platform, created_on FROM user_devices WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.ID, &d.UserID, &d.Token, &d.Platform, &d.CreatedOn); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}
