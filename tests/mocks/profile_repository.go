package mocks

import (
	"context"

	"mantenimiento-equipos/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ProfileRepository struct {
	mock.Mock
}

func (m *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *ProfileRepository) SetRole(ctx context.Context, userID uuid.UUID, role domain.UserRole) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *ProfileRepository) SetStatus(ctx context.Context, userID uuid.UUID, status domain.ProfileStatus) error {
	args := m.Called(ctx, userID, status)
	return args.Error(0)
}

func (m *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}
