package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository"
)

var _ repository.ResetTokenRepository = (*MemoryResetTokenRepository)(nil)

// MemoryResetTokenRepository implements ResetTokenRepository in process memory.
// Records do not survive a restart.
type MemoryResetTokenRepository struct {
	tokens map[string]models.ResetToken
	mutex  sync.Mutex
}

// NewMemoryResetTokenRepository creates an empty in-memory token repository.
func NewMemoryResetTokenRepository() *MemoryResetTokenRepository {
	return &MemoryResetTokenRepository{
		tokens: make(map[string]models.ResetToken),
	}
}

// StoreResetToken saves a copy of token.
func (r *MemoryResetTokenRepository) StoreResetToken(ctx context.Context, token *models.ResetToken) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.tokens[token.Token] = *token
	return nil
}

// GetResetToken returns a copy so callers cannot mutate the stored record.
func (r *MemoryResetTokenRepository) GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, exists := r.tokens[token]
	if !exists {
		return nil, repository.ErrResetTokenNotFound
	}
	return &entry, nil
}

// MarkResetTokenUsed checks and flips Used under a single lock, so only one of
// several concurrent callers can succeed for the same token.
func (r *MemoryResetTokenRepository) MarkResetTokenUsed(ctx context.Context, token string, now time.Time) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	entry, exists := r.tokens[token]
	if !exists || !entry.IsUsable(now) {
		return repository.ErrResetTokenNotFound
	}

	entry.Used = true
	r.tokens[token] = entry
	return nil
}

func (r *MemoryResetTokenRepository) DeleteResetToken(ctx context.Context, token string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.tokens, token)
	return nil
}

// DeleteExpiredResetTokens removes every expired record regardless of Used.
func (r *MemoryResetTokenRepository) DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	removed := 0
	for token, entry := range r.tokens {
		if entry.IsExpired(now) {
			delete(r.tokens, token)
			removed++
		}
	}
	return removed, nil
}

func (r *MemoryResetTokenRepository) CountResetTokens(ctx context.Context) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return len(r.tokens), nil
}
