package relative

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/kanban/internal/model"
)

// DefaultInterval is how often a watched card's age is recomputed.
const DefaultInterval = time.Minute

// TickMsg is a tea.Msg carrying a freshly computed age for one card.
type TickMsg struct {
	CardID string
	Label  string
	At     time.Time
}

// entry is one watched card and its recurring timer.
type entry struct {
	status time.Time
	timer  *time.Timer
	gen    uint64
}

// Scheduler keeps one recurring timer per displayed card and publishes
// a TickMsg on every expiry. Timers are cancelled individually with
// Unwatch or all at once with Stop.
type Scheduler struct {
	interval time.Duration
	now      func() time.Time
	tickCh   chan TickMsg
	mu       sync.Mutex
	entries  map[string]*entry
	gen      uint64
	stopped  bool
}

// NewScheduler creates a scheduler recomputing ages every interval.
// A nil now uses time.Now.
func NewScheduler(interval time.Duration, now func() time.Time) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		interval: interval,
		now:      now,
		tickCh:   make(chan TickMsg, 256),
		entries:  make(map[string]*entry),
	}
}

// Ticks returns the channel ticks are published on. It is closed by Stop.
func (s *Scheduler) Ticks() <-chan TickMsg {
	return s.tickCh
}

// Watch starts refreshing the age of card id. A new card, or a known
// card whose status changed, gets an immediate tick and a fresh
// schedule; re-watching an unchanged card does nothing.
func (s *Scheduler) Watch(id string, status time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if e, ok := s.entries[id]; ok {
		if e.status.Equal(status) {
			return
		}
		e.timer.Stop()
	}

	s.gen++
	gen := s.gen
	e := &entry{status: status, gen: gen}
	e.timer = time.AfterFunc(s.interval, func() { s.fire(id, gen) })
	s.entries[id] = e

	s.sendLocked(id, status)
}

// Unwatch cancels the timer of card id. No tick for id is published
// after Unwatch returns.
func (s *Scheduler) Unwatch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.timer.Stop()
		delete(s.entries, id)
	}
}

// Sync watches exactly the given cards, cancelling timers of any card
// no longer displayed.
func (s *Scheduler) Sync(cards []model.Card) {
	keep := make(map[string]bool, len(cards))
	for _, c := range cards {
		keep[c.ID] = true
		s.Watch(c.ID, c.Status)
	}

	s.mu.Lock()
	var gone []string
	for id := range s.entries {
		if !keep[id] {
			gone = append(gone, id)
		}
	}
	s.mu.Unlock()

	for _, id := range gone {
		s.Unwatch(id)
	}
}

// Watching returns the number of cards with a live timer.
func (s *Scheduler) Watching() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Stop cancels every timer and closes the tick channel. It is safe to
// call more than once.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	for id, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, id)
	}
	s.stopped = true
	close(s.tickCh)
}

// WaitForTick returns a tea.Cmd that waits for the next tick. It should
// be re-issued after each TickMsg is handled to keep listening.
func (s *Scheduler) WaitForTick() tea.Cmd {
	ch := s.tickCh
	return func() tea.Msg {
		tick, ok := <-ch
		if !ok {
			return nil
		}
		return tick
	}
}

// fire runs on the timer goroutine.
func (s *Scheduler) fire(id string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if s.stopped || !ok || e.gen != gen {
		return
	}
	s.sendLocked(id, e.status)
	e.timer.Reset(s.interval)
}

// sendLocked publishes a tick without blocking. Must hold s.mu.
func (s *Scheduler) sendLocked(id string, status time.Time) {
	now := s.now()
	select {
	case s.tickCh <- TickMsg{CardID: id, Label: Format(status, now), At: now}:
	default:
		// Channel full; the view recomputes ages on render anyway.
	}
}
