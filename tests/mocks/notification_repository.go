package mocks

import (
	"context"

	"mantenimiento-equipos/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) CreateBatch(ctx context.Context, notifs []*domain.Notification) error {
	args := m.Called(ctx, notifs)
	return args.Error(0)
}

func (m *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, params domain.PaginationParams) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *NotificationRepository) ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *NotificationRepository) ExistingKeys(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

func (m *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
