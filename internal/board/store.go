// Package board holds the in-memory Kanban board: the three card
// sequences, the loading flag, and the drag transfer state machine that
// moves cards between columns.
package board

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/kanban/internal/model"
)

var (
	// ErrEmptyTitle is returned when a card is submitted without a title.
	ErrEmptyTitle = errors.New("card title must not be empty")

	// ErrDuplicateCard is returned when a card would appear on the board twice.
	ErrDuplicateCard = errors.New("card is already on the board")

	// ErrAlreadyLoaded is returned when the initial load completes more than once.
	ErrAlreadyLoaded = errors.New("board already loaded")

	// ErrUnknownColumn is returned for a column outside the fixed set.
	ErrUnknownColumn = errors.New("unknown column")
)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of card creation times.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store owns the board state. Every mutation replaces the affected
// column with a freshly allocated slice, so a sequence returned by
// Column or Snapshot is never modified afterwards and observers can
// detect change by comparing versions.
//
// Store is not safe for concurrent use; it is driven from a single
// event loop.
type Store struct {
	state   model.BoardState
	loading bool
	version uint64
	now     func() time.Time
}

// New creates an empty store in the loading state.
func New(opts ...Option) *Store {
	s := &Store{
		loading: true,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Loading reports whether the initial load is still pending.
func (s *Store) Loading() bool {
	return s.loading
}

// Version increases by one on every mutation.
func (s *Store) Version() uint64 {
	return s.version
}

// Column returns the current sequence for c. Callers must not modify it.
func (s *Store) Column(c model.Column) []model.Card {
	return s.state.Cards(c)
}

// Snapshot returns the three sequences for persistence or rendering.
func (s *Store) Snapshot() model.BoardState {
	return s.state
}

// Lookup returns the card with the given ID and the column holding it.
func (s *Store) Lookup(id string) (model.Card, model.Column, bool) {
	c, i, ok := s.state.Locate(id)
	if !ok {
		return model.Card{}, 0, false
	}
	return s.state.Cards(c)[i], c, true
}

// AddCard creates a card titled title, stamped with the current time,
// and prepends it to column c.
func (s *Store) AddCard(c model.Column, title string) (model.Card, error) {
	if !c.Valid() {
		return model.Card{}, fmt.Errorf("%w: %d", ErrUnknownColumn, int(c))
	}
	if strings.TrimSpace(title) == "" {
		return model.Card{}, ErrEmptyTitle
	}

	card := model.NewCard(title, s.now())
	s.setColumn(c, prepend(card, s.state.Cards(c)))
	return card, nil
}

// RemoveCard removes the first card in column c whose ID is id and
// reports whether anything was removed.
func (s *Store) RemoveCard(c model.Column, id string) bool {
	cards := s.state.Cards(c)
	for i, card := range cards {
		if card.ID != id {
			continue
		}
		next := make([]model.Card, 0, len(cards)-1)
		next = append(next, cards[:i]...)
		next = append(next, cards[i+1:]...)
		s.setColumn(c, next)
		return true
	}
	return false
}

// InsertCard prepends card to column c. It refuses a card that is
// already somewhere on the board.
func (s *Store) InsertCard(c model.Column, card model.Card) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownColumn, int(c))
	}
	if card.ID == "" {
		return fmt.Errorf("inserting card %q: missing id", card.Title)
	}
	if err := (model.BoardState{Todo: []model.Card{card}}).Validate(); err != nil {
		return fmt.Errorf("inserting card: %w", err)
	}
	if owner, _, ok := s.state.Locate(card.ID); ok {
		return fmt.Errorf("%w: %s is in %s", ErrDuplicateCard, card.ID, owner)
	}

	s.setColumn(c, prepend(card, s.state.Cards(c)))
	return nil
}

// Replace swaps in a whole new board after validating it.
func (s *Store) Replace(state model.BoardState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	s.state = model.BoardState{
		Todo:    clone(state.Todo),
		Ongoing: clone(state.Ongoing),
		Done:    clone(state.Done),
	}
	s.version++
	return nil
}

// FinishLoading installs the loaded board (nil means nothing was stored)
// and clears the loading flag. It can succeed only once.
func (s *Store) FinishLoading(state *model.BoardState) error {
	if !s.loading {
		return ErrAlreadyLoaded
	}
	if state != nil {
		if err := s.Replace(*state); err != nil {
			return err
		}
	}
	s.loading = false
	s.version++
	return nil
}

func (s *Store) setColumn(c model.Column, cards []model.Card) {
	s.state = s.state.WithCards(c, cards)
	s.version++
}

func prepend(card model.Card, cards []model.Card) []model.Card {
	next := make([]model.Card, 0, len(cards)+1)
	next = append(next, card)
	return append(next, cards...)
}

func clone(cards []model.Card) []model.Card {
	if len(cards) == 0 {
		return nil
	}
	return append([]model.Card(nil), cards...)
}
