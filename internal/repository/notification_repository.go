package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dennisohere/quickform/internal/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notif *domain.Notification) error
	// CreateIfAbsent inserts unless a row with the same dedupe key exists.
	CreateIfAbsent(ctx context.Context, notif *domain.Notification) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	ListPending(ctx context.Context) ([]domain.Notification, error)
	ListForDigest(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.Notification, error)
	// Claim leases an unsent notification for delivery, stamping the lease
	// with at. A lease older than at-lease is abandoned and can be taken over.
	Claim(ctx context.Context, id uuid.UUID, at time.Time, lease time.Duration) (bool, error)
	MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error
	ReleaseClaim(ctx context.Context, id uuid.UUID) error
	MarkAsRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db sqlx.ExtContext
}

func NewNotificationRepository(db sqlx.ExtContext) NotificationRepository {
	return &notificationRepository{db: db}
}

// jsonb does not accept the bytea encoding lib/pq uses for []byte.
func jsonParam(data json.RawMessage) any {
	if len(data) == 0 {
		return nil
	}
	return string(data)
}

func (r *notificationRepository) Create(ctx context.Context, notif *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, data, dedupe_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.UserID, notif.Type, notif.Title, notif.Message, jsonParam(notif.Data), notif.DedupeKey,
	).Scan(&notif.CreatedAt, &notif.UpdatedAt)
}

func (r *notificationRepository) CreateIfAbsent(ctx context.Context, notif *domain.Notification) (bool, error) {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, data, dedupe_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (dedupe_key) DO NOTHING
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		notif.ID, notif.UserID, notif.Type, notif.Title, notif.Message, jsonParam(notif.Data), notif.DedupeKey,
	).Scan(&notif.CreatedAt, &notif.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	var total int64
	notifications := []domain.Notification{}

	filter := `WHERE user_id = $1`
	if unreadOnly {
		filter += ` AND read_at IS NULL`
	}

	countQuery := `SELECT COUNT(*) FROM notifications ` + filter
	if err := sqlx.GetContext(ctx, r.db, &total, countQuery, userID); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM notifications ` + filter + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := sqlx.SelectContext(ctx, r.db, &notifications, query, userID, params.PageSize, params.Offset())
	return notifications, total, err
}

func (r *notificationRepository) ListPending(ctx context.Context) ([]domain.Notification, error) {
	var notifications []domain.Notification
	query := `SELECT * FROM notifications WHERE sent_at IS NULL ORDER BY created_at ASC`

	err := sqlx.SelectContext(ctx, r.db, &notifications, query)
	return notifications, err
}

func (r *notificationRepository) ListForDigest(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.Notification, error) {
	var notifications []domain.Notification
	query := `
		SELECT * FROM notifications
		WHERE user_id = $1 AND created_at >= $2 AND type <> $3
		ORDER BY created_at DESC`

	err := sqlx.SelectContext(ctx, r.db, &notifications, query, userID, since, domain.NotifReminder)
	return notifications, err
}

func (r *notificationRepository) Claim(ctx context.Context, id uuid.UUID, at time.Time, lease time.Duration) (bool, error) {
	query := `
		UPDATE notifications SET claimed_at = $2
		WHERE id = $1 AND sent_at IS NULL AND (claimed_at IS NULL OR claimed_at <= $3)`

	result, err := r.db.ExecContext(ctx, query, id, at, at.Add(-lease))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *notificationRepository) MarkSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE notifications SET sent_at = $2, claimed_at = NULL, updated_at = NOW()
		WHERE id = $1 AND sent_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id, at)
	return err
}

func (r *notificationRepository) ReleaseClaim(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET claimed_at = NULL WHERE id = $1 AND sent_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		UPDATE notifications SET read_at = COALESCE(read_at, NOW()), updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING read_at`

	var readAt time.Time
	err := r.db.QueryRowxContext(ctx, query, id, userID).Scan(&readAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotificationNotFound
	}
	return err
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE notifications SET read_at = NOW(), updated_at = NOW() WHERE user_id = $1 AND read_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`
	err := sqlx.GetContext(ctx, r.db, &count, query, userID)
	return count, err
}
