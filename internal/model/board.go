package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBoard is returned by Validate when a board breaks one of its
// structural invariants.
var ErrInvalidBoard = errors.New("invalid board state")

// BoardState is the full contents of the board: one ordered sequence
// per column, newest card first.
type BoardState struct {
	Todo    []Card `json:"todoList" yaml:"todo"`
	Ongoing []Card `json:"ongoingList" yaml:"ongoing"`
	Done    []Card `json:"doneList" yaml:"done"`
}

// Cards returns the sequence held by the given column.
func (b BoardState) Cards(c Column) []Card {
	switch c {
	case ColumnTodo:
		return b.Todo
	case ColumnOngoing:
		return b.Ongoing
	case ColumnDone:
		return b.Done
	default:
		return nil
	}
}

// WithCards returns a copy of b whose column c holds cards.
func (b BoardState) WithCards(c Column, cards []Card) BoardState {
	switch c {
	case ColumnTodo:
		b.Todo = cards
	case ColumnOngoing:
		b.Ongoing = cards
	case ColumnDone:
		b.Done = cards
	}
	return b
}

// Len returns the total number of cards on the board.
func (b BoardState) Len() int {
	return len(b.Todo) + len(b.Ongoing) + len(b.Done)
}

// Locate finds the card with the given ID and returns the column that
// owns it and its index within that column.
func (b BoardState) Locate(id string) (Column, int, bool) {
	for _, c := range Columns {
		for i, card := range b.Cards(c) {
			if card.ID == id {
				return c, i, true
			}
		}
	}
	return 0, 0, false
}

// FindByPrefix returns the single card whose ID starts with prefix.
func (b BoardState) FindByPrefix(prefix string) (Card, Column, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Card{}, 0, fmt.Errorf("empty card id")
	}

	var (
		found   Card
		column  Column
		matches int
	)
	for _, c := range Columns {
		for _, card := range b.Cards(c) {
			if strings.HasPrefix(card.ID, prefix) {
				found, column = card, c
				matches++
			}
		}
	}

	switch matches {
	case 0:
		return Card{}, 0, fmt.Errorf("no card matches %q", prefix)
	case 1:
		return found, column, nil
	default:
		return Card{}, 0, fmt.Errorf("%d cards match %q, use a longer prefix", matches, prefix)
	}
}

// Validate checks that every card has an ID and a title and that no card
// ID appears more than once anywhere on the board.
func (b BoardState) Validate() error {
	seen := make(map[string]Column, b.Len())
	for _, c := range Columns {
		for i, card := range b.Cards(c) {
			if card.ID == "" {
				return fmt.Errorf("%w: %s card %d has no id", ErrInvalidBoard, c, i)
			}
			if err := card.checkTitle(); err != nil {
				return err
			}
			if prev, dup := seen[card.ID]; dup {
				return fmt.Errorf(
					"%w: card %s appears in both %s and %s",
					ErrInvalidBoard, card.ID, prev, c,
				)
			}
			seen[card.ID] = c
		}
	}
	return nil
}
