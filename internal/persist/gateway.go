// Package persist moves the board between memory and a byte store as a
// single versioned blob.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/store"
)

var (
	// ErrMalformed means a stored board exists but cannot be read. Loading
	// must stop rather than start from an empty board.
	ErrMalformed = errors.New("stored board is malformed")

	// ErrSaveFailed wraps any failure to write the board.
	ErrSaveFailed = errors.New("saving board failed")
)

// Gateway reads and writes the board under one fixed key.
type Gateway struct {
	store store.ByteStore
	key   string
}

// NewGateway creates a gateway storing the board under key in s. An
// empty key selects model.DefaultStoreKey.
func NewGateway(s store.ByteStore, key string) *Gateway {
	if key == "" {
		key = model.DefaultStoreKey
	}
	return &Gateway{store: s, key: key}
}

// Key returns the entry name the board is stored under.
func (g *Gateway) Key() string {
	return g.key
}

// Load reads the stored board. The boolean is false when nothing has
// been stored yet.
func (g *Gateway) Load(ctx context.Context) (model.BoardState, bool, error) {
	data, err := g.store.Get(ctx, g.key)
	if errors.Is(err, store.ErrNotFound) {
		return model.BoardState{}, false, nil
	}
	if err != nil {
		return model.BoardState{}, false, fmt.Errorf("loading board: %w", err)
	}

	state, err := Decode(data)
	if err != nil {
		return model.BoardState{}, false, fmt.Errorf("loading board from %q: %w", g.key, err)
	}
	return state, true, nil
}

// LoadWithLatency waits for delay before loading, so the loading state
// is visible. Cancelling ctx aborts the wait.
func (g *Gateway) LoadWithLatency(
	ctx context.Context,
	delay time.Duration,
) (model.BoardState, bool, error) {
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return model.BoardState{}, false, ctx.Err()
		case <-timer.C:
		}
	}
	return g.Load(ctx)
}

// Save overwrites the stored board with state.
func (g *Gateway) Save(ctx context.Context, state model.BoardState) error {
	data, err := Encode(state)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	if err := g.store.Put(ctx, g.key, data); err != nil {
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	log.Printf("saved board: %d cards, %d bytes", state.Len(), len(data))
	return nil
}
