package sqlite

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/vinovest/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Open connects to the SQLite database at dsn and applies pending migrations.
func Open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed opening sqlite database: %w", err)
	}
	// SQLite allows a single writer; serialising through one connection keeps
	// shared in-memory databases alive and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations runs all pending goose migrations.
func RunMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed running migrations: %w", err)
	}
	return nil
}
