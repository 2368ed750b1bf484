package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
)

// MockPasswordResetGenerator is a mock implementation of the PasswordResetGenerator interface.
type MockPasswordResetGenerator struct {
	mock.Mock
}

func (m *MockPasswordResetGenerator) RequestReset(ctx context.Context, email, userName string) error {
	args := m.Called(ctx, email, userName)
	return args.Error(0)
}

func (m *MockPasswordResetGenerator) CheckToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordResetGenerator) CompleteReset(ctx context.Context, req models.ResetPasswordRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockPasswordResetGenerator) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	args := m.Called(ctx, email, password)
	return args.Bool(0), args.Error(1)
}

type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Compare(hash, password string) (bool, error) {
	args := m.Called(hash, password)
	return args.Bool(0), args.Error(1)
}
