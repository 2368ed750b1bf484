package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vinovest/sqlx"

	"github.com/SimpnicServerTeam/scs-mail-server/internal/models"
	"github.com/SimpnicServerTeam/scs-mail-server/internal/repository"
)

var _ repository.AccountRepository = (*SQLiteAccountRepository)(nil)

// SQLiteAccountRepository implements AccountRepository on top of SQLite.
type SQLiteAccountRepository struct {
	db *sqlx.DB
}

func NewSQLiteAccountRepository(db *sqlx.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{db: db}
}

func (r *SQLiteAccountRepository) GetAccount(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	err := r.db.GetContext(ctx, &account,
		`SELECT email, password_hash, created_at, updated_at FROM accounts WHERE email = ?`,
		normalizeEmail(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *SQLiteAccountRepository) UpsertPasswordHash(ctx context.Context, email, passwordHash string) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash, updated_at = excluded.updated_at`,
		normalizeEmail(email), passwordHash, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert account password: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
