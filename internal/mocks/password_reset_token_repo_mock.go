package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
)

// MockResetTokenRepository is a mock type for the ResetTokenRepository type
type MockResetTokenRepository struct {
	mock.Mock
}

// StoreResetToken provides a mock function with given fields: ctx, token
func (_m *MockResetTokenRepository) StoreResetToken(ctx context.Context, token *models.ResetToken) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// GetResetToken provides a mock function with given fields: ctx, token
func (_m *MockResetTokenRepository) GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	ret := _m.Called(ctx, token)

	var r0 *models.ResetToken
	if rf, ok := ret.Get(0).(func(context.Context, string) *models.ResetToken); ok {
		r0 = rf(ctx, token)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.ResetToken)
	}

	return r0, ret.Error(1)
}

// MarkResetTokenUsed provides a mock function with given fields: ctx, token, now
func (_m *MockResetTokenRepository) MarkResetTokenUsed(ctx context.Context, token string, now time.Time) error {
	ret := _m.Called(ctx, token, now)
	return ret.Error(0)
}

// DeleteResetToken provides a mock function with given fields: ctx, token
func (_m *MockResetTokenRepository) DeleteResetToken(ctx context.Context, token string) error {
	ret := _m.Called(ctx, token)
	return ret.Error(0)
}

// DeleteExpiredResetTokens provides a mock function with given fields: ctx, now
func (_m *MockResetTokenRepository) DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int, error) {
	ret := _m.Called(ctx, now)
	return ret.Int(0), ret.Error(1)
}

// CountResetTokens provides a mock function with given fields: ctx
func (_m *MockResetTokenRepository) CountResetTokens(ctx context.Context) (int, error) {
	ret := _m.Called(ctx)
	return ret.Int(0), ret.Error(1)
}
