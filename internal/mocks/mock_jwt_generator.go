package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJWTGenerator is a mock type for the JWTGenerator type
type MockJWTGenerator struct {
	mock.Mock
}

// GenerateToken provides a mock function with given fields: subject
func (_m *MockJWTGenerator) GenerateToken(subject string) (string, error) {
	ret := _m.Called(subject)
	return ret.String(0), ret.Error(1)
}

// ValidateToken provides a mock function with given fields: tokenString
func (_m *MockJWTGenerator) ValidateToken(tokenString string) (string, error) {
	ret := _m.Called(tokenString)
	return ret.String(0), ret.Error(1)
}
