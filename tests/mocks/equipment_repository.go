package mocks

import (
	"context"
	"time"

	"mantenimiento-equipos/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type EquipmentRepository struct {
	mock.Mock
}

func (m *EquipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	args := m.Called(ctx, eq)
	return args.Error(0)
}

func (m *EquipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}

func (m *EquipmentRepository) Update(ctx context.Context, eq *domain.Equipment) error {
	args := m.Called(ctx, eq)
	return args.Error(0)
}

func (m *EquipmentRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Equipment, int64, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]domain.Equipment), args.Get(1).(int64), args.Error(2)
}

func (m *EquipmentRepository) ListActive(ctx context.Context) ([]domain.Equipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Equipment), args.Error(1)
}

func (m *EquipmentRepository) SetLastMaintenance(ctx context.Context, id uuid.UUID, performedAt time.Time) error {
	args := m.Called(ctx, id, performedAt)
	return args.Error(0)
}

func (m *EquipmentRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EquipmentRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EquipmentRepository) CountDueWithin(ctx context.Context, days int) (int64, error) {
	args := m.Called(ctx, days)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EquipmentRepository) CountOverdue(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
