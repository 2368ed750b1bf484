package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/handlers"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/service"
)

const resetToken = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestPasswordResetHandler_ForgotPassword(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.resets.On("RequestReset", mock.Anything, "asha@homehni.com", "Asha").Return(nil).Once()

		rec := performRequest(deps.echo, http.MethodPost, "/forgot-password", models.ForgotPasswordRequest{Email: " asha@homehni.com ", UserName: "Asha"})

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeStatus(t, rec)
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, handlers.ForgotPasswordMessage, resp.Message)
		deps.assertExpectations(t)
	})

	t.Run("MissingEmail", func(t *testing.T) {
		deps := setupTestApp(t)

		rec := performRequest(deps.echo, http.MethodPost, "/forgot-password", models.ForgotPasswordRequest{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email address required", decodeStatus(t, rec).Error)
		deps.resets.AssertNotCalled(t, "RequestReset", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MalformedEmail", func(t *testing.T) {
		deps := setupTestApp(t)

		rec := performRequest(deps.echo, http.MethodPost, "/forgot-password", models.ForgotPasswordRequest{Email: "not-an-email"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid email address", decodeStatus(t, rec).Error)
	})

	t.Run("TokenGenerationFails", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.resets.On("RequestReset", mock.Anything, "asha@homehni.com", "").Return(service.ErrTokenGeneration).Once()

		rec := performRequest(deps.echo, http.MethodPost, "/forgot-password", models.ForgotPasswordRequest{Email: "asha@homehni.com"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestPasswordResetHandler_ValidateToken(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.resets.On("CheckToken", mock.Anything, resetToken).Return("asha@homehni.com", nil).Once()

		rec := performRequest(deps.echo, http.MethodGet, "/reset-password/validate?token="+resetToken, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp models.ValidateResetTokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Valid)
		assert.Equal(t, "asha@homehni.com", resp.Email)
	})

	t.Run("Invalid", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.resets.On("CheckToken", mock.Anything, resetToken).Return("", service.ErrInvalidResetToken).Once()

		rec := performRequest(deps.echo, http.MethodGet, "/reset-password/validate?token="+resetToken, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, handlers.InvalidResetLinkMessage, decodeStatus(t, rec).Error)
	})

	t.Run("MissingToken", func(t *testing.T) {
		deps := setupTestApp(t)

		rec := performRequest(deps.echo, http.MethodGet, "/reset-password/validate", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		deps.resets.AssertNotCalled(t, "CheckToken", mock.Anything, mock.Anything)
	})

	t.Run("StoreDown", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.resets.On("CheckToken", mock.Anything, resetToken).Return("", errors.New("redis: connection refused")).Once()

		rec := performRequest(deps.echo, http.MethodGet, "/reset-password/validate?token="+resetToken, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestPasswordResetHandler_ResetPassword(t *testing.T) {
	req := models.ResetPasswordRequest{
		Token:           resetToken,
		NewPassword:     "correct-horse",
		ConfirmPassword: "correct-horse",
		UserName:        "Asha",
	}

	t.Run("Success", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.resets.On("CompleteReset", mock.Anything, req).Return(nil).Once()

		rec := performRequest(deps.echo, http.MethodPost, "/reset-password", req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", decodeStatus(t, rec).Status)
		deps.assertExpectations(t)
	})

	t.Run("MissingFields", func(t *testing.T) {
		deps := setupTestApp(t)

		rec := performRequest(deps.echo, http.MethodPost, "/reset-password", models.ResetPasswordRequest{Token: resetToken})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing fields", decodeStatus(t, rec).Error)
		deps.resets.AssertNotCalled(t, "CompleteReset", mock.Anything, mock.Anything)
	})

	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"TooShort", service.ErrPasswordTooShort, http.StatusBadRequest, "Password must be at least 8 characters long"},
		{"TooLong", service.ErrPasswordTooLong, http.StatusBadRequest, "Password must be at most 72 bytes long"},
		{"Mismatch", service.ErrPasswordMismatch, http.StatusBadRequest, "Passwords do not match"},
		{"InvalidToken", service.ErrInvalidResetToken, http.StatusBadRequest, handlers.InvalidResetLinkMessage},
		{"StoreFailure", errors.New("disk full"), http.StatusInternalServerError, "Failed to process password reset"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := setupTestApp(t)
			deps.resets.On("CompleteReset", mock.Anything, req).Return(tc.err).Once()

			rec := performRequest(deps.echo, http.MethodPost, "/reset-password", req)

			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.message, decodeStatus(t, rec).Error)
		})
	}
}

func TestPasswordResetHandler_VerifyPassword(t *testing.T) {
	req := models.VerifyPasswordRequest{Email: "asha@homehni.com", Password: "correct-horse"}

	t.Run("Match", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.resets.On("VerifyPassword", mock.Anything, req.Email, req.Password).Return(true, nil).Once()

		rec := performRequest(deps.echo, http.MethodPost, "/verify-password", req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp models.VerifyPasswordResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Match)
	})

	t.Run("NoMatch", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.resets.On("VerifyPassword", mock.Anything, req.Email, req.Password).Return(false, nil).Once()

		rec := performRequest(deps.echo, http.MethodPost, "/verify-password", req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"match":false}`, rec.Body.String())
	})

	t.Run("MissingFields", func(t *testing.T) {
		deps := setupTestApp(t)

		rec := performRequest(deps.echo, http.MethodPost, "/verify-password", models.VerifyPasswordRequest{Email: req.Email})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Error", func(t *testing.T) {
		deps := setupTestApp(t)
		deps.resets.On("VerifyPassword", mock.Anything, req.Email, req.Password).Return(false, errors.New("db locked")).Once()

		rec := performRequest(deps.echo, http.MethodPost, "/verify-password", req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
