package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/metrics"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository"
)

const (
	// ResetTokenBytes is the entropy of a reset token; hex encoding doubles the length.
	ResetTokenBytes = 32
	// DefaultResetTokenTTL is how long an issued token stays usable.
	DefaultResetTokenTTL = 15 * time.Minute
)

var (
	// ErrInvalidResetToken covers unknown, expired and already used tokens alike.
	ErrInvalidResetToken = errors.New("reset token is invalid or expired")
	// ErrTokenGeneration means the secure random source failed.
	ErrTokenGeneration = errors.New("failed to generate reset token")
)

var _ ResetTokenRegistry = (*ResetTokenService)(nil)

// ResetTokenService issues and checks single-use, time-bounded reset tokens.
type ResetTokenService struct {
	repo   repository.ResetTokenRepository
	ttl    time.Duration
	now    func() time.Time
	random io.Reader
}

type ResetTokenOption func(*ResetTokenService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ResetTokenOption {
	return func(s *ResetTokenService) {
		s.now = now
	}
}

// WithRandReader replaces crypto/rand as the token entropy source.
func WithRandReader(r io.Reader) ResetTokenOption {
	return func(s *ResetTokenService) {
		s.random = r
	}
}

// NewResetTokenService creates a registry on top of repo. A non-positive ttl
// falls back to DefaultResetTokenTTL.
func NewResetTokenService(repo repository.ResetTokenRepository, ttl time.Duration, opts ...ResetTokenOption) *ResetTokenService {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	s := &ResetTokenService{
		repo:   repo,
		ttl:    ttl,
		now:    func() time.Time { return time.Now().UTC() },
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured token lifetime.
func (s *ResetTokenService) TTL() time.Duration {
	return s.ttl
}

// Issue stores a fresh token for email. Every call yields an independent token,
// even for the same email.
func (s *ResetTokenService) Issue(ctx context.Context, email string) (string, error) {
	token, err := s.generateToken()
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to generate password reset token")
		return "", err
	}

	now := s.now()
	record := &models.ResetToken{
		Token:     token,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.StoreResetToken(ctx, record); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	metrics.ResetTokens.WithLabelValues(metrics.TokenIssued).Inc()
	log.Debug().Str("email", email).Str("tokenPrefix", tokenPrefix(token)).Time("expiresAt", record.ExpiresAt).Msg("Password reset token issued")
	return token, nil
}

// Validate is read-only apart from dropping a record found expired.
func (s *ResetTokenService) Validate(ctx context.Context, token string) (*models.ResetToken, error) {
	record, err := s.repo.GetResetToken(ctx, token)
	if errors.Is(err, repository.ErrResetTokenNotFound) {
		return nil, s.reject(token, "not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}

	if record.IsExpired(s.now()) {
		if err := s.repo.DeleteResetToken(ctx, token); err != nil {
			log.Warn().Err(err).Str("tokenPrefix", tokenPrefix(token)).Msg("Failed to delete expired reset token")
		}
		return nil, s.reject(token, "expired")
	}
	if record.Used {
		return nil, s.reject(token, "already used")
	}

	return record, nil
}

// Consume marks the token used. A second call for the same token fails.
func (s *ResetTokenService) Consume(ctx context.Context, token string) error {
	err := s.repo.MarkResetTokenUsed(ctx, token, s.now())
	if errors.Is(err, repository.ErrResetTokenNotFound) {
		return s.reject(token, "not consumable")
	}
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	metrics.ResetTokens.WithLabelValues(metrics.TokenConsumed).Inc()
	log.Debug().Str("tokenPrefix", tokenPrefix(token)).Msg("Password reset token consumed")
	return nil
}

// SweepExpired removes expired records whether or not they were used.
func (s *ResetTokenService) SweepExpired(ctx context.Context) (int, error) {
	removed, err := s.repo.DeleteExpiredResetTokens(ctx, s.now())
	if err != nil {
		return removed, fmt.Errorf("failed to sweep reset tokens: %w", err)
	}
	metrics.ResetTokens.WithLabelValues(metrics.TokenSwept).Add(float64(removed))
	return removed, nil
}

// Outstanding counts stored records, used or not.
func (s *ResetTokenService) Outstanding(ctx context.Context) (int, error) {
	return s.repo.CountResetTokens(ctx)
}

func (s *ResetTokenService) generateToken() (string, error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}
	return hex.EncodeToString(buf), nil
}

// reject logs the precise reason and hands back the one error callers may see.
func (s *ResetTokenService) reject(token, reason string) error {
	metrics.ResetTokens.WithLabelValues(metrics.TokenRejected).Inc()
	log.Debug().Str("tokenPrefix", tokenPrefix(token)).Str("reason", reason).Msg("Password reset token rejected")
	return ErrInvalidResetToken
}

// tokenPrefix keeps full tokens out of the logs.
func tokenPrefix(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
