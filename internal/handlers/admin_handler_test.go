package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAdminHandler_ResetTokenStats(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.registry.On("Outstanding", mock.Anything).Return(3, nil).Once()

		rec := performRequestWithHeaders(deps.echo, http.MethodGet, "/admin/reset-tokens/stats", nil, map[string]string{
			echo.HeaderAuthorization: "Bearer " + adminToken(t),
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"outstanding":3}`, rec.Body.String())
		deps.assertExpectations(t)
	})

	t.Run("APIKeyIsNotEnough", func(t *testing.T) {
		deps := setupTestApp(t)

		rec := performRequest(deps.echo, http.MethodGet, "/admin/reset-tokens/stats", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		deps.registry.AssertNotCalled(t, "Outstanding", mock.Anything)
	})

	t.Run("StoreError", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.registry.On("Outstanding", mock.Anything).Return(0, errors.New("redis down")).Once()

		rec := performRequestWithHeaders(deps.echo, http.MethodGet, "/admin/reset-tokens/stats", nil, map[string]string{
			echo.HeaderAuthorization: "Bearer " + adminToken(t),
		})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAdminHandler_SweepResetTokens(t *testing.T) {
	deps := setupTestApp(t)
	deps.registry.On("SweepExpired", mock.Anything).Return(5, nil).Once()

	rec := performRequestWithHeaders(deps.echo, http.MethodPost, "/admin/reset-tokens/sweep", nil, map[string]string{
		echo.HeaderAuthorization: "Bearer " + adminToken(t),
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"removed":5}`, rec.Body.String())
	deps.assertExpectations(t)
}
