package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/spotsearch/internal/shared"
	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("spotsearch")

// BoltStore implements [Store] on a single bbolt bucket.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the bbolt file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: failed to create bolt directory: %v", shared.ErrStorage, err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bolt file: %v", shared.ErrStorage, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create bucket: %v", shared.ErrStorage, err)
	}

	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Get(_ context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(boltBucket).Get([]byte(key)); v != nil {
			value, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%w: failed to read %s: %v", shared.ErrStorage, key, err)
	}
	return value, found, nil
}

func (b *BoltStore) Set(_ context.Context, key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

func (b *BoltStore) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete %s: %v", shared.ErrStorage, key, err)
	}
	return nil
}

func (b *BoltStore) Close() error { return b.db.Close() }
