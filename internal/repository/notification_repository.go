package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"mantenimiento-equipos/internal/domain"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifs []*domain.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error)
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error)
	ExistingKeys(ctx context.Context, userID uuid.UUID) (map[string]bool, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// CreateBatch inserts all staged reminders in one transaction. Partial writes
// would break the dedup invariant on retry, so the batch is all-or-nothing.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifs []*domain.Notification) error {
	if len(notifs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO notifications (notification_id, user_id, equipment_id, message, event_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	for _, n := range notifs {
		if err := tx.QueryRowxContext(ctx, query,
			n.ID, n.UserID, n.EquipmentID, n.Message, n.EventDate,
		).Scan(&n.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	params.Validate()

	filter := `WHERE user_id = $1`
	if unreadOnly {
		filter += ` AND is_read = false`
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notifications `+filter, userID); err != nil {
		return nil, 0, err
	}

	var notifications []domain.Notification
	query := `
		SELECT * FROM notifications ` + filter + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	err := r.db.SelectContext(ctx, &notifications, query, userID, params.PageSize, params.Offset())
	return notifications, total, err
}

func (r *notificationRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	var notifications []domain.Notification
	query := `SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &notifications, query, userID)
	return notifications, err
}

// ExistingKeys returns the dedup keys of every stored reminder for the user,
// consulted by the generator before staging new ones.
func (r *notificationRepository) ExistingKeys(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT equipment_id, event_date FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.EquipmentID, &n.EventDate); err != nil {
			return nil, err
		}
		keys[n.Key()] = true
	}
	return keys, rows.Err()
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	query := `UPDATE notifications SET is_read = true, read_at = NOW() WHERE user_id = $1 AND is_read = false`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}
