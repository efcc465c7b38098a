package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/persist"
	"github.com/nhle/kanban/internal/store"
)

// env is what every command needs: configuration plus an open gateway.
type env struct {
	cfg     *model.AppConfig
	store   store.Closer
	gateway *persist.Gateway
}

func openEnv(opts *rootOptions) (*env, error) {
	cfg, err := model.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}
	log.Printf("cli: using %s store, key %q", cfg.Storage.Backend, cfg.Storage.Key)

	return &env{
		cfg:     cfg,
		store:   s,
		gateway: persist.NewGateway(s, cfg.Storage.Key),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// loadBoard reads the stored board into a ready Card Store. Subcommands
// skip the startup delay the TUI shows.
func (e *env) loadBoard(ctx context.Context) (*board.Store, error) {
	state, found, err := e.gateway.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := board.New()
	var initial *model.BoardState
	if found {
		initial = &state
	}
	if err := s.FinishLoading(initial); err != nil {
		return nil, err
	}
	return s, nil
}
