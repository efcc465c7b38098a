package app

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/persist"
	"github.com/nhle/kanban/internal/relative"
	"github.com/nhle/kanban/internal/store"
	"github.com/nhle/kanban/internal/ui/command"
	"github.com/nhle/kanban/internal/ui/confirm"
	"github.com/nhle/kanban/tests/testutil"
)

var start = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

// failingStore is a ByteStore whose writes always fail.
type failingStore struct {
	store.ByteStore
	err error
}

func (f failingStore) Put(context.Context, string, []byte) error { return f.err }

type harness struct {
	t     *testing.T
	gw    *persist.Gateway
	clock *testutil.Clock
	m     Model
}

func newHarness(t *testing.T, bs store.ByteStore) *harness {
	t.Helper()
	clock := &testutil.Clock{T: start}
	gw := persist.NewGateway(bs, "")
	m := New(gw, Options{Now: clock.Now})
	t.Cleanup(m.scheduler.Stop)

	h := &harness{t: t, gw: gw, clock: clock, m: m}
	h.send(tea.WindowSizeMsg{Width: 90, Height: 30})
	return h
}

// load runs the startup load synchronously.
func (h *harness) load() {
	h.t.Helper()
	h.send(loadBoard(h.gw, 0)())
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	out, cmd := h.m.Update(msg)
	m, ok := out.(Model)
	require.True(h.t, ok)
	h.m = m
	return cmd
}

func (h *harness) key(s string) tea.Cmd {
	h.t.Helper()
	switch s {
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	default:
		return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	}
}

// addCard types a card through the new-card row.
func (h *harness) addCard(title string) {
	h.t.Helper()
	h.key("n")
	require.True(h.t, h.m.boardView.Adding())
	h.key(title)
	cmd := h.key("enter")
	require.NotNil(h.t, cmd)
	h.send(cmd())
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestLoadWithNoStoredBoard(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))
	assert.True(t, h.m.store.Loading())
	assert.Contains(t, h.m.View(), "Loading board")

	h.load()

	assert.False(t, h.m.store.Loading())
	assert.Zero(t, h.m.store.Snapshot().Len())
	assert.False(t, h.m.Dirty())
	assert.Equal(t, "saved", h.m.saveStatus())
}

func TestLoadPopulatesBoard(t *testing.T) {
	bs := testutil.NewTestStore(t)
	gw := persist.NewGateway(bs, "")
	require.NoError(t, gw.Save(context.Background(), model.BoardState{
		Ongoing: []model.Card{model.NewCard("Review PR", start.Add(-3*time.Hour))},
	}))

	h := newHarness(t, bs)
	h.load()

	assert.Len(t, h.m.store.Column(model.ColumnOngoing), 1)
	assert.False(t, h.m.Dirty())
	assert.Contains(t, h.m.View(), "Review PR")
	assert.Contains(t, h.m.View(), "3 hours ago")
	assert.Equal(t, 1, h.m.scheduler.Watching())
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))

	h.key("n")
	h.key("s")

	assert.False(t, h.m.boardView.Adding())
	assert.False(t, h.m.saving)
}

func TestAddThenSave(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))
	h.load()

	h.addCard("Write report")
	require.True(t, h.m.Dirty())
	assert.Equal(t, "● unsaved", h.m.saveStatus())

	cmd := h.key("s")
	require.NotNil(t, cmd)
	assert.True(t, h.m.saving)
	h.send(cmd())

	assert.False(t, h.m.Dirty())
	assert.Equal(t, "saved", h.m.status)

	state, found, err := h.gw.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, state.Todo, 1)
	assert.Equal(t, "Write report", state.Todo[0].Title)
	assert.Equal(t, start, state.Todo[0].Status)
}

func TestSaveFailureKeepsBoardUnsaved(t *testing.T) {
	quota := errors.New("quota exceeded")
	h := newHarness(t, failingStore{ByteStore: testutil.NewTestStore(t), err: quota})
	h.load()
	h.addCard("Write report")

	cmd := h.key("s")
	require.NotNil(t, cmd)
	h.send(cmd())

	assert.True(t, h.m.Dirty())
	assert.True(t, h.m.statusErr)
	assert.Contains(t, h.m.status, "quota exceeded")
	assert.Len(t, h.m.store.Column(model.ColumnTodo), 1)
}

func TestMalformedLoadDisablesSave(t *testing.T) {
	bs := testutil.NewTestStore(t)
	require.NoError(t, bs.Put(context.Background(), model.DefaultStoreKey, []byte("{not json")))

	h := newHarness(t, bs)
	h.load()

	require.Error(t, h.m.loadErr)
	assert.ErrorIs(t, h.m.loadErr, persist.ErrMalformed)
	assert.Contains(t, h.m.View(), "Could not load the saved board")

	assert.Nil(t, h.key("s"))
	assert.Nil(t, h.m.save())

	raw, err := bs.Get(context.Background(), model.DefaultStoreKey)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(raw))

	assert.True(t, isQuit(h.key("q")))
}

func TestQuitWithoutChanges(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))
	h.load()

	assert.True(t, isQuit(h.key("q")))
}

func TestQuitWithUnsavedChangesAsks(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))
	h.load()
	h.addCard("Draft")

	h.key("q")
	assert.Equal(t, ViewConfirmQuit, h.m.currentView)
	assert.Contains(t, h.m.View(), "esc keep editing")

	assert.Nil(t, h.send(confirm.ChoiceMsg{Choice: confirm.ChoiceCancel}))
	assert.Equal(t, ViewBoard, h.m.currentView)

	h.key("q")
	assert.True(t, isQuit(h.send(confirm.ChoiceMsg{Choice: confirm.ChoiceDiscard})))
}

func TestSaveAndQuit(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))
	h.load()
	h.addCard("Draft")
	h.key("q")

	cmd := h.send(confirm.ChoiceMsg{Choice: confirm.ChoiceSaveAndQuit})
	require.NotNil(t, cmd)

	assert.True(t, isQuit(h.send(cmd())))

	_, found, err := h.gw.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSaveAndQuitStaysOnFailure(t *testing.T) {
	h := newHarness(t, failingStore{ByteStore: testutil.NewTestStore(t), err: errors.New("disk full")})
	h.load()
	h.addCard("Draft")
	h.key("q")

	cmd := h.send(confirm.ChoiceMsg{Choice: confirm.ChoiceSaveAndQuit})
	require.NotNil(t, cmd)

	assert.Nil(t, h.send(cmd()))
	assert.True(t, h.m.Dirty())
	assert.False(t, h.m.quitPending)
}

func TestCommandPaletteMove(t *testing.T) {
	bs := testutil.NewTestStore(t)
	gw := persist.NewGateway(bs, "")
	a := model.Card{ID: "aaaa1111-0000-0000-0000-000000000000", Title: "A", Status: start}
	b := model.Card{ID: "bbbb2222-0000-0000-0000-000000000000", Title: "B", Status: start}
	require.NoError(t, gw.Save(context.Background(), model.BoardState{Todo: []model.Card{a, b}}))

	h := newHarness(t, bs)
	h.load()

	h.send(command.CommandMsg{Verb: command.VerbMove, CardID: "bbbb", Column: model.ColumnDone})

	assert.Equal(t, []model.Card{a}, h.m.store.Column(model.ColumnTodo))
	assert.Equal(t, []model.Card{b}, h.m.store.Column(model.ColumnDone))
	assert.Contains(t, h.m.status, "moved")
	assert.True(t, h.m.Dirty())

	// Without an id the selected card moves; B is selected after the move.
	h.send(command.CommandMsg{Verb: command.VerbMove, Column: model.ColumnOngoing})
	assert.Equal(t, []model.Card{b}, h.m.store.Column(model.ColumnOngoing))

	h.send(command.CommandMsg{Verb: command.VerbMove, CardID: "zzzz", Column: model.ColumnDone})
	assert.True(t, h.m.statusErr)
}

func TestCommandPaletteAdd(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))
	h.load()

	h.send(command.CommandMsg{Verb: command.VerbAdd, Title: "From palette"})

	todo := h.m.store.Column(model.ColumnTodo)
	require.Len(t, todo, 1)
	assert.Equal(t, "From palette", todo[0].Title)
}

func TestPaletteOpensAndCloses(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))
	h.load()

	h.key(":")
	assert.Equal(t, ViewCommand, h.m.currentView)

	h.key("esc")
	assert.Equal(t, ViewBoard, h.m.currentView)
}

func TestHelpToggle(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))
	h.load()

	h.key("?")
	assert.Equal(t, ViewHelp, h.m.currentView)
	assert.Contains(t, h.m.View(), "Keyboard Shortcuts")

	h.key("?")
	assert.Equal(t, ViewBoard, h.m.currentView)
}

func TestTypingInNewCardRowDoesNotTriggerGlobalKeys(t *testing.T) {
	h := newHarness(t, testutil.NewTestStore(t))
	h.load()

	h.key("n")
	h.key("q")
	h.key("s")
	h.key("?")

	assert.Equal(t, ViewBoard, h.m.currentView)
	assert.False(t, h.m.saving)
	assert.True(t, h.m.boardView.Adding())
}

func TestTickUpdatesLabel(t *testing.T) {
	bs := testutil.NewTestStore(t)
	gw := persist.NewGateway(bs, "")
	c := model.Card{ID: "c1", Title: "A", Status: start.Add(-5 * time.Minute)}
	require.NoError(t, gw.Save(context.Background(), model.BoardState{Todo: []model.Card{c}}))

	h := newHarness(t, bs)
	h.load()
	assert.Contains(t, h.m.View(), "5 minutes ago")

	cmd := h.send(relative.TickMsg{CardID: "c1", Label: "6 minutes ago"})

	assert.NotNil(t, cmd)
	assert.Contains(t, h.m.View(), "6 minutes ago")
}
