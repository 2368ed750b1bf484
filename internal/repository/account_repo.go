package repository

import (
	"context"
	"errors"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
)

// AccountRepository persists the password hash for an email address.
type AccountRepository interface {
	// GetAccount returns ErrAccountNotFound if nothing is stored for email.
	GetAccount(ctx context.Context, email string) (*models.Account, error)
	// UpsertPasswordHash creates the account or replaces its hash.
	UpsertPasswordHash(ctx context.Context, email, passwordHash string) error
}

var ErrAccountNotFound = errors.New("account not found")
