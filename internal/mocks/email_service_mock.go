package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
)

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, msg *models.EmailMessage) (*models.SendResult, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SendResult), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, templateName string, fields map[string]string) (*models.SendResult, error) {
	args := m.Called(ctx, templateName, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SendResult), args.Error(1)
}

func (m *MockNotifier) SendRaw(ctx context.Context, msg *models.EmailMessage) (*models.SendResult, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SendResult), args.Error(1)
}

func (m *MockNotifier) SendPasswordReset(ctx context.Context, email, userName, token string) error {
	args := m.Called(ctx, email, userName, token)
	return args.Error(0)
}

func (m *MockNotifier) SendPasswordResetSuccess(ctx context.Context, email, userName string) error {
	args := m.Called(ctx, email, userName)
	return args.Error(0)
}
