package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository"
)

const (
	passwordResetTokenPrefix = "pwdreset:"
	scanBatchSize            = 100
)

var _ repository.ResetTokenRepository = (*RedisResetTokenRepository)(nil)

// RedisResetTokenRepository implements ResetTokenRepository using Redis, so
// several service replicas can share outstanding tokens. Keys carry a TTL equal
// to the token lifetime; Redis removes them on its own once they lapse.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewRedisResetTokenRepository creates a new Redis-backed token repository.
func NewRedisResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{
		client: client,
	}
}

func makeResetTokenKey(token string) string {
	return passwordResetTokenPrefix + token
}

// StoreResetToken saves the record as JSON under pwdreset:<token>.
func (r *RedisResetTokenRepository) StoreResetToken(ctx context.Context, token *models.ResetToken) error {
	ttl := token.ExpiresAt.Sub(token.CreatedAt)
	if ttl <= 0 {
		return fmt.Errorf("expiry time must be after creation time")
	}

	jsonData, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal reset token: %w", err)
	}

	if err := r.client.Set(ctx, makeResetTokenKey(token.Token), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store password reset token in redis: %w", err)
	}
	return nil
}

// GetResetToken returns the stored record or ErrResetTokenNotFound.
func (r *RedisResetTokenRepository) GetResetToken(ctx context.Context, token string) (*models.ResetToken, error) {
	jsonData, err := r.client.Get(ctx, makeResetTokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, repository.ErrResetTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET failed: %w", err)
	}

	return decodeResetToken(jsonData)
}

// MarkResetTokenUsed runs an optimistic WATCH/MULTI transaction. If another
// client touches the key between the read and the write, EXEC aborts and the
// caller loses the race.
func (r *RedisResetTokenRepository) MarkResetTokenUsed(ctx context.Context, token string, now time.Time) error {
	key := makeResetTokenKey(token)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		jsonData, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return repository.ErrResetTokenNotFound
		}
		if err != nil {
			return fmt.Errorf("redis GET failed: %w", err)
		}

		entry, err := decodeResetToken(jsonData)
		if err != nil {
			return err
		}
		if !entry.IsUsable(now) {
			return repository.ErrResetTokenNotFound
		}

		entry.Used = true
		updated, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal reset token: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, redis.KeepTTL)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return repository.ErrResetTokenNotFound
	}
	if err != nil && !errors.Is(err, repository.ErrResetTokenNotFound) {
		return fmt.Errorf("failed to mark password reset token used: %w", err)
	}
	return err
}

func (r *RedisResetTokenRepository) DeleteResetToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, makeResetTokenKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete password reset token: %w", err)
	}
	return nil
}

// DeleteExpiredResetTokens removes records whose ExpiresAt has passed but
// whose key is still alive, which happens when clocks of replicas drift.
func (r *RedisResetTokenRepository) DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int, error) {
	removed := 0
	err := r.scanKeys(ctx, func(keys []string) error {
		values, err := r.client.MGet(ctx, keys...).Result()
		if err != nil {
			return fmt.Errorf("redis MGET failed: %w", err)
		}

		var expired []string
		for i, value := range values {
			raw, ok := value.(string)
			if !ok {
				continue
			}
			entry, err := decodeResetToken([]byte(raw))
			if err != nil || entry.IsExpired(now) {
				expired = append(expired, keys[i])
			}
		}
		if len(expired) == 0 {
			return nil
		}

		n, err := r.client.Del(ctx, expired...).Result()
		if err != nil {
			return fmt.Errorf("redis DEL failed: %w", err)
		}
		removed += int(n)
		return nil
	})
	return removed, err
}

func (r *RedisResetTokenRepository) CountResetTokens(ctx context.Context) (int, error) {
	count := 0
	err := r.scanKeys(ctx, func(keys []string) error {
		count += len(keys)
		return nil
	})
	return count, err
}

func (r *RedisResetTokenRepository) scanKeys(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, passwordResetTokenPrefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis SCAN failed: %w", err)
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func decodeResetToken(data []byte) (*models.ResetToken, error) {
	var entry models.ResetToken
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}
	return &entry, nil
}
