package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/spotsearch/internal/shared"
)

// SQLiteStore implements [Store] on the kv_store table created by the shared migrations.
type SQLiteStore struct {
	db     *sql.DB
	ownsDB bool
}

// NewSQLiteStore wraps an already migrated database. When owns is set, Close also closes db.
func NewSQLiteStore(db *sql.DB, owns bool) *SQLiteStore {
	return &SQLiteStore{db: db, ownsDB: owns}
}

// DB exposes the underlying connection so other repositories can share it.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("%w: failed to delete %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}
