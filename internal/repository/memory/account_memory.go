package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository"
)

var _ repository.AccountRepository = (*MemoryAccountRepository)(nil)

// MemoryAccountRepository implements AccountRepository in memory.
// Used when no DATABASE_DSN is configured.
type MemoryAccountRepository struct {
	accounts map[string]models.Account
	mutex    sync.RWMutex
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[string]models.Account),
	}
}

func (r *MemoryAccountRepository) GetAccount(ctx context.Context, email string) (*models.Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	account, exists := r.accounts[normalizeEmail(email)]
	if !exists {
		return nil, repository.ErrAccountNotFound
	}
	return &account, nil
}

func (r *MemoryAccountRepository) UpsertPasswordHash(ctx context.Context, email, passwordHash string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	key := normalizeEmail(email)
	now := time.Now().UTC()
	account, exists := r.accounts[key]
	if !exists {
		account = models.Account{Email: key, CreatedAt: now}
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = now
	r.accounts[key] = account
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
