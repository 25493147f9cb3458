package mocks

import (
	"context"

	"mantenimiento-equipos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, session *repository.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*repository.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Session), args.Error(1)
}

func (m *SessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *SessionRepository) DeleteExpired(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
