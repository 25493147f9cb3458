package mocks

import (
	"context"
	"time"

	"mantenimiento-equipos/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MaintenanceRepository struct {
	mock.Mock
}

func (m *MaintenanceRepository) Create(ctx context.Context, maint *domain.ScheduledMaintenance) error {
	args := m.Called(ctx, maint)
	return args.Error(0)
}

func (m *MaintenanceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledMaintenance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledMaintenance), args.Error(1)
}

func (m *MaintenanceRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.ScheduledMaintenance, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.ScheduledMaintenance), args.Get(1).(int64), args.Error(2)
}

func (m *MaintenanceRepository) ListScheduledUntil(ctx context.Context, until time.Time) ([]domain.ScheduledMaintenance, error) {
	args := m.Called(ctx, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduledMaintenance), args.Error(1)
}

func (m *MaintenanceRepository) Complete(ctx context.Context, id uuid.UUID, completedAt time.Time) error {
	args := m.Called(ctx, id, completedAt)
	return args.Error(0)
}

func (m *MaintenanceRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MaintenanceRepository) CountScheduled(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
