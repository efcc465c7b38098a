// Package store provides the key-value byte stores the board blob is
// persisted to.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nhle/kanban/internal/model"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")

// ByteStore is a named-entry byte store, the terminal counterpart of
// browser local storage.
type ByteStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Closer is a ByteStore holding resources that must be released.
type Closer interface {
	ByteStore
	io.Closer
}

// Open builds the byte store selected by cfg.
func Open(cfg model.StorageConfig) (Closer, error) {
	switch cfg.Backend {
	case model.BackendSQLite, "":
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case model.BackendKeyring:
		s, err := NewKeyringStore(cfg.KeyringDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
