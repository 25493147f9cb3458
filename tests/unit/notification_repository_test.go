package unit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mantenimiento-equipos/internal/domain"
	"mantenimiento-equipos/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestNotificationRepository_CreateBatch(t *testing.T) {
	userID := uuid.New()
	notifs := []*domain.Notification{
		{ID: uuid.New(), UserID: userID, EquipmentID: uuid.New(), Message: "a", EventDate: time.Now()},
		{ID: uuid.New(), UserID: userID, EquipmentID: uuid.New(), Message: "b", EventDate: time.Now()},
	}

	t.Run("commits the whole batch", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepository(db)

		mock.ExpectBegin()
		for range notifs {
			mock.ExpectQuery("INSERT INTO notifications").
				WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		}
		mock.ExpectCommit()

		err := repo.CreateBatch(context.Background(), notifs)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on mid-batch failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO notifications").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
		mock.ExpectQuery("INSERT INTO notifications").
			WillReturnError(errors.New("unique violation"))
		mock.ExpectRollback()

		err := repo.CreateBatch(context.Background(), notifs)

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty batch touches nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := repository.NewNotificationRepository(db)

		err := repo.CreateBatch(context.Background(), nil)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_ExistingKeys(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewNotificationRepository(db)

	userID := uuid.New()
	equipmentID := uuid.New()
	eventDate := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT equipment_id, event_date FROM notifications").
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"equipment_id", "event_date"}).
			AddRow(equipmentID.String(), eventDate))

	keys, err := repo.ExistingKeys(context.Background(), userID)

	require.NoError(t, err)
	assert.True(t, keys[domain.NotificationKey(equipmentID, eventDate)])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkAllAsRead(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewNotificationRepository(db)

	userID := uuid.New()
	mock.ExpectExec("UPDATE notifications SET is_read = true").
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 4))

	err := repo.MarkAllAsRead(context.Background(), userID)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
