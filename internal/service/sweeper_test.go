package service_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/service"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepExpired(context.Context) (int, error) {
	c.calls.Add(1)
	return 1, c.err
}

func TestSweeper_RunsUntilCancelled(t *testing.T) {
	registry := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())

	stopped := service.NewSweeper(registry, 5*time.Millisecond).Run(ctx)

	require.Eventually(t, func() bool { return registry.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestSweeper_KeepsRunningAfterError(t *testing.T) {
	registry := &countingSweeper{err: errors.New("store unavailable")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	service.NewSweeper(registry, 5*time.Millisecond).Run(ctx)

	assert.Eventually(t, func() bool { return registry.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSweeper_PurgesExpiredTokens(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clock := newFakeClock()
	registry, repo := newRegistry(clock)

	_, err := registry.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	service.NewSweeper(registry, 5*time.Millisecond).Run(ctx)

	assert.Eventually(t, func() bool {
		count, err := repo.CountResetTokens(ctx)
		return err == nil && count == 0
	}, time.Second, 5*time.Millisecond)
}
