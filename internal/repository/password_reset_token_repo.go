package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
)

// ErrResetTokenNotFound is returned when a token is not stored, or when a
// mark-used request finds it already used or expired.
var ErrResetTokenNotFound = errors.New("password reset token not found or invalid")

// ResetTokenRepository stores password reset tokens keyed by token string.
type ResetTokenRepository interface {
	// StoreResetToken saves a new token record.
	StoreResetToken(ctx context.Context, token *models.ResetToken) error
	// GetResetToken returns a copy of the stored record, or ErrResetTokenNotFound.
	GetResetToken(ctx context.Context, token string) (*models.ResetToken, error)
	// MarkResetTokenUsed flips Used to true if the record exists, is unused and
	// not expired at now. The check and the write happen atomically; any other
	// outcome returns ErrResetTokenNotFound.
	MarkResetTokenUsed(ctx context.Context, token string, now time.Time) error
	// DeleteResetToken removes a record. Deleting a missing token is not an error.
	DeleteResetToken(ctx context.Context, token string) error
	// DeleteExpiredResetTokens removes every record expired at now, used or not.
	DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int, error)
	// CountResetTokens returns the number of stored records.
	CountResetTokens(ctx context.Context) (int, error)
}
