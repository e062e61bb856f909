package repository

import (
	"context"
	"database/sql"
	"fmt"

	"geneailogy/tree-service/internal/errs"
	"geneailogy/tree-service/internal/models"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// CreateNotification persists a notification
func (r *NotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	query := `INSERT INTO notifications (id, user_id, type, message, sender_id, related_id, read_at, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, NULL, ?)`

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Type,
		notification.Message,
		notification.SenderID,
		notification.RelatedID,
		notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// ListNotifications retrieves the most recent notifications for a user
func (r *NotificationRepository) ListNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit < 1 {
		limit = 100
	}

	query := `SELECT id, user_id, type, message, sender_id, related_id, read_at, created_at
	          FROM notifications
	          WHERE user_id = ?
	          ORDER BY created_at DESC
	          LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Type,
			&notification.Message,
			&notification.SenderID,
			&notification.RelatedID,
			&notification.ReadAt,
			&notification.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, nil
}

// MarkAsRead marks one notification as read for its recipient
func (r *NotificationRepository) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	query := `UPDATE notifications SET read_at = NOW()
	          WHERE id = ? AND user_id = ? AND read_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return errs.ErrNotificationNotFound
	}

	return nil
}
