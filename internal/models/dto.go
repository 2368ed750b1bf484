package models

import "time"

// SendEmailRequest is the input of the generic /send-email endpoint.
type SendEmailRequest struct {
	To      string `json:"to" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Text    string `json:"text" validate:"required"`
	HTML    string `json:"html"`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	UserName string `json:"userName"`
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
	UserName        string `json:"userName"`
}

// ValidateResetTokenResponse is returned when a reset link is still usable.
type ValidateResetTokenResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
}

// VerifyPasswordRequest checks a password against the stored hash.
type VerifyPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyPasswordResponse struct {
	Match bool `json:"match"`
}

// ResetTokenStatsResponse is the admin view of the token registry.
type ResetTokenStatsResponse struct {
	Outstanding int `json:"outstanding"`
}

type SweepResponse struct {
	Removed int `json:"removed"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse is the body used for generic success and failure replies.
type StatusResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
