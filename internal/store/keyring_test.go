package store_test

import (
	"context"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

func TestKeyringStoreRoundTrip(t *testing.T) {
	s := store.NewKeyringStoreFrom(keyring.NewArrayKeyring(nil))
	ctx := context.Background()

	_, err := s.Get(ctx, "board")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(ctx, "board", []byte(`{"version":1}`)))
	got, err := s.Get(ctx, "board")
	require.NoError(t, err)
	assert.Equal(t, `{"version":1}`, string(got))

	require.NoError(t, s.Delete(ctx, "board"))
	_, err = s.Get(ctx, "board")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, s.Close())
}

func TestOpenSelectsBackend(t *testing.T) {
	s, err := store.Open(model.StorageConfig{Backend: model.BackendSQLite, Path: ":memory:"})
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.(*store.SQLiteStore)
	assert.True(t, ok)

	_, err = store.Open(model.StorageConfig{Backend: "s3"})
	assert.ErrorContains(t, err, "unknown storage backend")
}
