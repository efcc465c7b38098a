package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "kanban"

// KeyringStore implements ByteStore on the operating system keyring,
// falling back to an encrypted file backend in dir.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the keyring for the kanban service.
func NewKeyringStore(dir string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt("kanban-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewKeyringStoreFrom(ring), nil
}

// NewKeyringStoreFrom wraps an already-open keyring.
func NewKeyringStoreFrom(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// Get retrieves the value stored under key.
func (s *KeyringStore) Get(_ context.Context, key string) ([]byte, error) {
	item, err := s.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting keyring item %q: %w", key, err)
	}
	return item.Data, nil
}

// Put stores value under key.
func (s *KeyringStore) Put(_ context.Context, key string, value []byte) error {
	err := s.ring.Set(keyring.Item{
		Key:         key,
		Data:        value,
		Label:       "Kanban board",
		Description: "kanban board data",
	})
	if err != nil {
		return fmt.Errorf("setting keyring item %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *KeyringStore) Delete(_ context.Context, key string) error {
	err := s.ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting keyring item %q: %w", key, err)
	}
	return nil
}

// Close is a no-op; the keyring holds no open handles.
func (s *KeyringStore) Close() error {
	return nil
}
