package app

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/persist"
)

// boardLoadedMsg carries the result of the startup load.
type boardLoadedMsg struct {
	state model.BoardState
	found bool
	err   error
}

// boardSavedMsg is sent after a save attempt. version is the store version
// the saved snapshot was taken at.
type boardSavedMsg struct {
	version uint64
	err     error
}

// loadBoard returns a command that reads the stored board after the
// configured startup delay.
func loadBoard(gw *persist.Gateway, delay time.Duration) tea.Cmd {
	return func() tea.Msg {
		state, found, err := gw.LoadWithLatency(context.Background(), delay)
		if err != nil {
			log.Printf("app: load failed: %v", err)
		}
		return boardLoadedMsg{state: state, found: found, err: err}
	}
}

// saveBoard returns a command that writes a snapshot of the board.
func saveBoard(gw *persist.Gateway, state model.BoardState, version uint64) tea.Cmd {
	return func() tea.Msg {
		err := gw.Save(context.Background(), state)
		return boardSavedMsg{version: version, err: err}
	}
}
