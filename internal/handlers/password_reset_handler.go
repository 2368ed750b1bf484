package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/service"
)

const (
	// ForgotPasswordMessage is returned whether or not the address is known.
	ForgotPasswordMessage = "If an account exists for this email, a password reset link has been sent."
	// InvalidResetLinkMessage covers unknown, expired and used tokens alike.
	InvalidResetLinkMessage = "This password reset link is invalid or has expired. Please request a new one."
)

// PasswordResetHandler serves the forgot/reset password endpoints.
type PasswordResetHandler struct {
	PasswordResetService service.PasswordResetGenerator
}

func NewPasswordResetHandler(passwordResetService service.PasswordResetGenerator) *PasswordResetHandler {
	return &PasswordResetHandler{PasswordResetService: passwordResetService}
}

// ForgotPassword issues a reset token and mails the link.
func (h *PasswordResetHandler) ForgotPassword(c echo.Context) error {
	req := new(models.ForgotPasswordRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email address required")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid email address")
	}

	if err := h.PasswordResetService.RequestReset(c.Request().Context(), req.Email, req.UserName); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to start password reset")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process password reset request")
	}
	return c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: ForgotPasswordMessage})
}

// ValidateToken lets the frontend check a link before showing the form.
func (h *PasswordResetHandler) ValidateToken(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Token is required")
	}

	email, err := h.PasswordResetService.CheckToken(c.Request().Context(), token)
	if err != nil {
		return resetTokenError(err)
	}
	return c.JSON(http.StatusOK, models.ValidateResetTokenResponse{Valid: true, Email: email})
}

// ResetPassword consumes the token and stores the new password.
func (h *PasswordResetHandler) ResetPassword(c echo.Context) error {
	req := new(models.ResetPasswordRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}

	err := h.PasswordResetService.CompleteReset(c.Request().Context(), *req)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, models.StatusResponse{Status: "success", Message: "Password has been reset successfully"})
	case errors.Is(err, service.ErrPasswordTooShort):
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters long")
	case errors.Is(err, service.ErrPasswordTooLong):
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at most 72 bytes long")
	case errors.Is(err, service.ErrPasswordMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, "Passwords do not match")
	}
	return resetTokenError(err)
}

// VerifyPassword reports whether password matches the stored hash for email.
func (h *PasswordResetHandler) VerifyPassword(c echo.Context) error {
	req := new(models.VerifyPasswordRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing fields")
	}

	match, err := h.PasswordResetService.VerifyPassword(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to verify password")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to verify password")
	}
	return c.JSON(http.StatusOK, models.VerifyPasswordResponse{Match: match})
}

func resetTokenError(err error) error {
	if errors.Is(err, service.ErrInvalidResetToken) {
		return echo.NewHTTPError(http.StatusBadRequest, InvalidResetLinkMessage)
	}
	log.Error().Err(err).Msg("Password reset token check failed")
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to process password reset")
}
