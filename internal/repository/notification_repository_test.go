package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geneailogy/tree-service/internal/errs"
	"geneailogy/tree-service/internal/models"
)

func newNotificationRepoMock(t *testing.T) (*NotificationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewNotificationRepository(db), mock
}

func TestCreateNotification(t *testing.T) {
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		repo, mock := newNotificationRepoMock(t)

		mock.ExpectExec("INSERT INTO notifications").
			WithArgs("n-1", "u-1", "like", "Jean liked your post", "u-2", "post-9", now).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.CreateNotification(context.Background(), &models.Notification{
			ID:        "n-1",
			UserID:    "u-1",
			Type:      "like",
			Message:   "Jean liked your post",
			SenderID:  "u-2",
			RelatedID: "post-9",
			CreatedAt: now,
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DatabaseError", func(t *testing.T) {
		repo, mock := newNotificationRepoMock(t)

		mock.ExpectExec("INSERT INTO notifications").
			WillReturnError(errors.New("connection lost"))

		err := repo.CreateNotification(context.Background(), &models.Notification{ID: "n-1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create notification")
	})
}

func TestListNotifications(t *testing.T) {
	now := time.Now()
	columns := []string{"id", "user_id", "type", "message", "sender_id", "related_id", "read_at", "created_at"}

	t.Run("Success", func(t *testing.T) {
		repo, mock := newNotificationRepoMock(t)

		readAt := now.Add(-time.Hour)
		mock.ExpectQuery("SELECT id, user_id, type, message").
			WithArgs("u-1", 10).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("n-2", "u-1", "comment", "New comment", "u-3", "post-9", nil, now).
				AddRow("n-1", "u-1", "like", "Jean liked your post", "u-2", "post-9", readAt, now.Add(-2*time.Hour)))

		notifications, err := repo.ListNotifications(context.Background(), "u-1", 10)
		require.NoError(t, err)
		require.Len(t, notifications, 2)

		assert.Equal(t, "n-2", notifications[0].ID)
		assert.Nil(t, notifications[0].ReadAt)
		require.NotNil(t, notifications[1].ReadAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DefaultLimit", func(t *testing.T) {
		repo, mock := newNotificationRepoMock(t)

		mock.ExpectQuery("SELECT id, user_id, type, message").
			WithArgs("u-1", 100).
			WillReturnRows(sqlmock.NewRows(columns))

		notifications, err := repo.ListNotifications(context.Background(), "u-1", 0)
		assert.NoError(t, err)
		assert.Empty(t, notifications)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMarkAsRead(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo, mock := newNotificationRepoMock(t)

		mock.ExpectExec("UPDATE notifications SET read_at").
			WithArgs("n-1", "u-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkAsRead(context.Background(), "n-1", "u-1")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFoundOrAlreadyRead", func(t *testing.T) {
		repo, mock := newNotificationRepoMock(t)

		mock.ExpectExec("UPDATE notifications SET read_at").
			WithArgs("n-9", "u-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkAsRead(context.Background(), "n-9", "u-1")
		assert.ErrorIs(t, err, errs.ErrNotificationNotFound)
	})
}
