package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultSweepInterval is how often expired reset tokens are purged.
const DefaultSweepInterval = time.Minute

type expiredSweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Sweeper periodically purges expired reset tokens so the store does not grow
// with links nobody clicked.
type Sweeper struct {
	registry expiredSweeper
	interval time.Duration
}

// NewSweeper creates a Sweeper. A non-positive interval falls back to one minute.
func NewSweeper(registry expiredSweeper, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{registry: registry, interval: interval}
}

// Run starts the sweep loop and returns a channel closed once the loop exits.
// The loop stops when ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) <-chan struct{} {
	stopped := make(chan struct{})
	log.Debug().Dur("interval", s.interval).Msg("Starting reset token sweeper")

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Debug().Msg("Reset token sweeper stopped")
				return
			case <-ticker.C:
				s.sweepOnce(ctx)
			}
		}
	}()

	return stopped
}

func (s *Sweeper) sweepOnce(ctx context.Context) {
	removed, err := s.registry.SweepExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Reset token sweep failed")
		return
	}
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("Expired reset tokens purged")
	}
}
