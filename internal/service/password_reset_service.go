package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository"
)

const (
	// MinPasswordLength is the shortest password CompleteReset accepts, in characters.
	MinPasswordLength = 8
	// MaxPasswordBytes is the longest input bcrypt will hash.
	MaxPasswordBytes = 72
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

var _ PasswordResetGenerator = (*PasswordResetService)(nil)

type PasswordResetService struct {
	tokens   ResetTokenRegistry
	notifier Notifier
	accounts repository.AccountRepository
	hasher   PasswordHasher
}

func NewPasswordResetService(tokens ResetTokenRegistry, notifier Notifier, accounts repository.AccountRepository, hasher PasswordHasher) *PasswordResetService {
	return &PasswordResetService{
		tokens:   tokens,
		notifier: notifier,
		accounts: accounts,
		hasher:   hasher,
	}
}

// RequestReset issues a token and mails the link. Delivery problems are only
// logged so the caller answers the same way for every address.
func (s *PasswordResetService) RequestReset(ctx context.Context, email, userName string) error {
	token, err := s.tokens.Issue(ctx, email)
	if err != nil {
		return err
	}

	if err := s.notifier.SendPasswordReset(ctx, email, userName, token); err != nil {
		log.Error().Err(err).Str("email", email).Msg("Failed to send password reset email")
		return nil
	}
	log.Info().Str("email", email).Msg("Password reset email sent")
	return nil
}

// CheckToken returns the email a usable token was issued for.
func (s *PasswordResetService) CheckToken(ctx context.Context, token string) (string, error) {
	record, err := s.tokens.Validate(ctx, token)
	if err != nil {
		return "", err
	}
	return record.Email, nil
}

func (s *PasswordResetService) CompleteReset(ctx context.Context, req models.ResetPasswordRequest) error {
	if err := checkPasswordPolicy(req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}

	record, err := s.tokens.Validate(ctx, req.Token)
	if err != nil {
		return err
	}

	// Hash before consuming so a hasher failure leaves the link usable.
	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.tokens.Consume(ctx, req.Token); err != nil {
		return err
	}
	if err := s.accounts.UpsertPasswordHash(ctx, record.Email, hash); err != nil {
		return fmt.Errorf("failed to store new password: %w", err)
	}
	log.Info().Str("email", record.Email).Msg("Password reset completed")

	if err := s.notifier.SendPasswordResetSuccess(ctx, record.Email, req.UserName); err != nil {
		log.Warn().Err(err).Str("email", record.Email).Msg("Failed to send password reset confirmation")
	}
	return nil
}

// VerifyPassword reports false for unknown accounts rather than an error.
func (s *PasswordResetService) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	account, err := s.accounts.GetAccount(ctx, email)
	if errors.Is(err, repository.ErrAccountNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load account: %w", err)
	}
	return s.hasher.Compare(account.PasswordHash, password)
}

func checkPasswordPolicy(password, confirm string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
