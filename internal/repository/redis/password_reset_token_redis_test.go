package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository"
)

func newTestRedisResetTokenRepo(t *testing.T) (*RedisResetTokenRepository, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	require.NoError(t, client.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisResetTokenRepository(client), mr
}

func testResetToken(token string, createdAt time.Time) *models.ResetToken {
	return &models.ResetToken{
		Token:     token,
		Email:     "a@x.com",
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(15 * time.Minute),
	}
}

func TestRedisResetTokenRepository_StoreResetToken(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()

		require.NoError(t, repo.StoreResetToken(ctx, testResetToken("tok1", now)))

		storedData, err := mr.Get(makeResetTokenKey("tok1"))
		require.NoError(t, err)
		var stored models.ResetToken
		require.NoError(t, json.Unmarshal([]byte(storedData), &stored))
		assert.Equal(t, "a@x.com", stored.Email)
		assert.False(t, stored.Used)

		ttl := mr.TTL(makeResetTokenKey("tok1"))
		assert.Equal(t, 15*time.Minute, ttl)
	})

	t.Run("NonPositiveLifetime", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()

		token := testResetToken("tok1", now)
		token.ExpiresAt = token.CreatedAt
		err := repo.StoreResetToken(ctx, token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expiry time must be after creation time")
	})

	t.Run("RedisError", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		mr.Close()

		err := repo.StoreResetToken(ctx, testResetToken("tok1", now))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to store password reset token in redis")
	})
}

func TestRedisResetTokenRepository_GetResetToken(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("Success", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()
		require.NoError(t, repo.StoreResetToken(ctx, testResetToken("tok1", now)))

		got, err := repo.GetResetToken(ctx, "tok1")
		require.NoError(t, err)
		assert.Equal(t, "tok1", got.Token)
		assert.True(t, got.ExpiresAt.Equal(now.Add(15*time.Minute)))
	})

	t.Run("NotFound", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()

		_, err := repo.GetResetToken(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrResetTokenNotFound)
	})

	t.Run("KeyExpiredByTTL", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()
		require.NoError(t, repo.StoreResetToken(ctx, testResetToken("tok1", now)))

		mr.FastForward(16 * time.Minute)

		_, err := repo.GetResetToken(ctx, "tok1")
		assert.ErrorIs(t, err, repository.ErrResetTokenNotFound)
	})

	t.Run("UnmarshalError", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()
		require.NoError(t, mr.Set(makeResetTokenKey("bad"), "this is not json"))

		_, err := repo.GetResetToken(ctx, "bad")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "json unmarshal failed")
	})

	t.Run("RedisGetError", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		mr.Close()

		_, err := repo.GetResetToken(ctx, "any")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis GET failed")
	})
}

func TestRedisResetTokenRepository_MarkResetTokenUsed(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("SucceedsOnceAndKeepsTTL", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()
		require.NoError(t, repo.StoreResetToken(ctx, testResetToken("tok1", now)))
		mr.FastForward(5 * time.Minute)

		require.NoError(t, repo.MarkResetTokenUsed(ctx, "tok1", now))
		err := repo.MarkResetTokenUsed(ctx, "tok1", now)
		assert.ErrorIs(t, err, repository.ErrResetTokenNotFound)

		got, err := repo.GetResetToken(ctx, "tok1")
		require.NoError(t, err)
		assert.True(t, got.Used)
		assert.Equal(t, 10*time.Minute, mr.TTL(makeResetTokenKey("tok1")))
	})

	t.Run("Expired", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()
		require.NoError(t, repo.StoreResetToken(ctx, testResetToken("tok1", now)))

		err := repo.MarkResetTokenUsed(ctx, "tok1", now.Add(15*time.Minute))
		assert.ErrorIs(t, err, repository.ErrResetTokenNotFound)
	})

	t.Run("Missing", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()

		err := repo.MarkResetTokenUsed(ctx, "missing", now)
		assert.ErrorIs(t, err, repository.ErrResetTokenNotFound)
	})

	t.Run("ConcurrentConsumersOnlyOneWins", func(t *testing.T) {
		repo, mr := newTestRedisResetTokenRepo(t)
		defer mr.Close()
		require.NoError(t, repo.StoreResetToken(ctx, testResetToken("race", now)))

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if repo.MarkResetTokenUsed(ctx, "race", now) == nil {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())
	})
}

func TestRedisResetTokenRepository_DeleteExpiredResetTokens(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	repo, mr := newTestRedisResetTokenRepo(t)
	defer mr.Close()

	require.NoError(t, repo.StoreResetToken(ctx, testResetToken("stale", now.Add(-time.Hour))))
	require.NoError(t, repo.StoreResetToken(ctx, testResetToken("fresh", now)))
	require.NoError(t, mr.Set("unrelated:key", "value"))

	count, err := repo.CountResetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	removed, err := repo.DeleteExpiredResetTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.False(t, mr.Exists(makeResetTokenKey("stale")))
	assert.True(t, mr.Exists(makeResetTokenKey("fresh")))
	assert.True(t, mr.Exists("unrelated:key"))
}

func TestRedisResetTokenRepository_DeleteResetToken(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRedisResetTokenRepo(t)
	defer mr.Close()
	require.NoError(t, repo.StoreResetToken(ctx, testResetToken("tok1", time.Now().UTC())))

	require.NoError(t, repo.DeleteResetToken(ctx, "tok1"))
	require.NoError(t, repo.DeleteResetToken(ctx, "tok1"))
	assert.False(t, mr.Exists(makeResetTokenKey("tok1")))
}
