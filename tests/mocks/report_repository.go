package mocks

import (
	"context"

	"mantenimiento-equipos/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ReportRepository struct {
	mock.Mock
}

func (m *ReportRepository) Create(ctx context.Context, report *domain.MaintenanceReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaintenanceReport), args.Error(1)
}

func (m *ReportRepository) List(ctx context.Context, equipmentID *uuid.UUID, params domain.PaginationParams) ([]domain.MaintenanceReport, int64, error) {
	args := m.Called(ctx, equipmentID, params)
	return args.Get(0).([]domain.MaintenanceReport), args.Get(1).(int64), args.Error(2)
}
