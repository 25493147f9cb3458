package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, displayName string) error {
	args := m.Called(ctx, toEmail, displayName)
	return args.Error(0)
}

func (m *EmailService) SendReminderDigest(ctx context.Context, toEmail, displayName string, count int) error {
	args := m.Called(ctx, toEmail, displayName, count)
	return args.Error(0)
}
