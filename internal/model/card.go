package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Card is a single item on the board. Cards are immutable once created;
// moving a card between columns moves the same value, identified by ID.
type Card struct {
	// ID is the opaque identity of the card. Two cards with the same
	// title and status are still distinct when their IDs differ.
	ID string `json:"id" yaml:"id"`

	// Title is the user-supplied, non-empty text of the card.
	Title string `json:"title" yaml:"title"`

	// Status is the instant the card was created.
	Status time.Time `json:"status" yaml:"status"`
}

// NewCard builds a card with a fresh ID. The title is trimmed and the
// timestamp is stored in UTC at millisecond precision so that it
// survives a round trip through the persisted blob unchanged.
func NewCard(title string, createdAt time.Time) Card {
	return Card{
		ID:     uuid.NewString(),
		Title:  strings.TrimSpace(title),
		Status: createdAt.UTC().Truncate(time.Millisecond),
	}
}

// checkTitle rejects blank titles and titles with surrounding whitespace,
// which NewCard never produces and the blob codec would not preserve.
func (c Card) checkTitle() error {
	trimmed := strings.TrimSpace(c.Title)
	if trimmed == "" {
		return fmt.Errorf("%w: card %s has an empty title", ErrInvalidBoard, c.ID)
	}
	if trimmed != c.Title {
		return fmt.Errorf("%w: card %s title %q has surrounding whitespace", ErrInvalidBoard, c.ID, c.Title)
	}
	return nil
}

// ShortID returns the first eight characters of the card ID, which is
// what the CLI prints and accepts as a prefix.
func (c Card) ShortID() string {
	if len(c.ID) <= 8 {
		return c.ID
	}
	return c.ID[:8]
}
