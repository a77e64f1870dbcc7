// Package store persists the small amount of client state that must survive restarts:
// the PKCE code verifier (across the login redirect) and the access token (until logout).
//
// [Store] is an opaque key-value capability with interchangeable backends:
//   - [SQLiteStore] : kv_store table in the application database (default)
//   - [BoltStore] : a single bucket in a bbolt file
//   - [RedisStore] : prefixed keys on a Redis server
//   - [MemoryStore] : process-local map, used by tests and --ephemeral runs
package store

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotsearch/internal/shared"
)

// Well-known keys.
const (
	KeyCodeVerifier = "spotify_code_verifier"
	KeyAccessToken  = "spotify_access_token"
)

// Driver names accepted by [Open].
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Open builds the [Store] selected by cfg.Storage.Driver.
func Open(cfg *shared.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case DriverSQLite:
		db, err := shared.OpenMigrated(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorage, err)
		}
		return NewSQLiteStore(db, true), nil
	case DriverBolt:
		return NewBoltStore(cfg.Storage.BoltPath)
	case DriverRedis:
		return NewRedisStore(cfg.Storage.RedisURL)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", shared.ErrInvalidConfig, cfg.Storage.Driver)
	}
}
