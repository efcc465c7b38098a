package board

import (
	"log"

	"github.com/nhle/kanban/internal/model"
)

// DragState tags the drag session.
type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

// Session is the in-flight drag gesture. Card and Source are set only
// while State is DragDragging; Target is nil until the pointer is over
// a column.
type Session struct {
	State  DragState
	Card   model.Card
	Source model.Column
	Target *model.Column
}

// Dragging reports whether a card is being dragged.
func (s Session) Dragging() bool {
	return s.State == DragDragging
}

// Ready reports whether a drop right now would move the card.
func (s Session) Ready() bool {
	return s.Dragging() && s.Target != nil && *s.Target != s.Source
}

// Coordinator runs the drag gesture against a Store:
// Start → Enter/Leave (any number) → Drop → End.
type Coordinator struct {
	store   *Store
	session Session
}

// NewCoordinator creates an idle coordinator for s.
func NewCoordinator(s *Store) *Coordinator {
	return &Coordinator{store: s}
}

// Session returns the current drag session.
func (c *Coordinator) Session() Session {
	return c.session
}

// Start begins dragging the card with the given ID. The source is the
// column holding the card right now. It returns false and stays idle
// when the card is not on the board or a drag is already running.
func (c *Coordinator) Start(cardID string) bool {
	if c.session.Dragging() {
		return false
	}
	card, col, ok := c.store.Lookup(cardID)
	if !ok {
		return false
	}
	c.session = Session{
		State:  DragDragging,
		Card:   card,
		Source: col,
	}
	return true
}

// Enter makes col the drop target. The last column entered wins.
func (c *Coordinator) Enter(col model.Column) {
	if !c.session.Dragging() || !col.Valid() {
		return
	}
	c.session.Target = &col
}

// Leave clears the drop target if it is col.
func (c *Coordinator) Leave(col model.Column) {
	if c.session.Target != nil && *c.session.Target == col {
		c.session.Target = nil
	}
}

// Drop moves the dragged card from its source to the target column and
// reports whether the board changed. Dropping with no target, onto the
// source column, or with no drag in progress does nothing.
func (c *Coordinator) Drop() bool {
	if !c.session.Ready() {
		return false
	}

	s := c.session
	if _, owner, ok := c.store.Lookup(s.Card.ID); !ok || owner != s.Source {
		// The card left its source while being dragged; moving it now
		// could duplicate it.
		return false
	}

	before := c.store.Snapshot()
	c.store.RemoveCard(s.Source, s.Card.ID)
	if err := c.store.InsertCard(*s.Target, s.Card); err != nil {
		log.Printf("drop of card %s into %s failed: %v", s.Card.ID, *s.Target, err)
		if err := c.store.Replace(before); err != nil {
			log.Printf("restoring board after failed drop: %v", err)
		}
		return false
	}
	return true
}

// End finishes the gesture, whatever its outcome.
func (c *Coordinator) End() {
	c.session = Session{}
}

// Move performs a complete gesture in one call: drag card id onto col
// and release it there.
func (c *Coordinator) Move(cardID string, col model.Column) bool {
	if !c.Start(cardID) {
		return false
	}
	defer c.End()
	c.Enter(col)
	return c.Drop()
}
