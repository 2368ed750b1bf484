package service

import (
	"context"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
)

// ResetTokenRegistry owns the lifecycle of password reset tokens.
type ResetTokenRegistry interface {
	// Issue creates a new single-use token for email and returns it.
	Issue(ctx context.Context, email string) (string, error)
	// Validate returns the record behind a usable token without consuming it.
	Validate(ctx context.Context, token string) (*models.ResetToken, error)
	// Consume marks a usable token as used. Only one caller can win per token.
	Consume(ctx context.Context, token string) error
	// SweepExpired drops expired records and reports how many were removed.
	SweepExpired(ctx context.Context) (int, error)
	// Outstanding reports how many records are currently stored.
	Outstanding(ctx context.Context) (int, error)
}

// Mailer delivers a single message through the outbound transport.
type Mailer interface {
	Send(ctx context.Context, msg *models.EmailMessage) (*models.SendResult, error)
}

// Notifier renders catalogue templates and sends them.
type Notifier interface {
	Send(ctx context.Context, templateName string, fields map[string]string) (*models.SendResult, error)
	SendRaw(ctx context.Context, msg *models.EmailMessage) (*models.SendResult, error)
	SendPasswordReset(ctx context.Context, email, userName, token string) error
	SendPasswordResetSuccess(ctx context.Context, email, userName string) error
}

// PasswordHasher hashes and compares plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// PasswordResetGenerator drives the forgot/reset password flow.
type PasswordResetGenerator interface {
	RequestReset(ctx context.Context, email, userName string) error
	CheckToken(ctx context.Context, token string) (string, error)
	CompleteReset(ctx context.Context, req models.ResetPasswordRequest) error
	VerifyPassword(ctx context.Context, email, password string) (bool, error)
}

// JWTGenerator mints and checks admin bearer tokens.
type JWTGenerator interface {
	GenerateToken(subject string) (string, error)
	ValidateToken(tokenString string) (string, error)
}
