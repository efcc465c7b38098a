package app

import (
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/persist"
	"github.com/nhle/kanban/internal/relative"
	"github.com/nhle/kanban/internal/theme"
	"github.com/nhle/kanban/internal/ui"
	"github.com/nhle/kanban/internal/ui/boardview"
	"github.com/nhle/kanban/internal/ui/command"
	"github.com/nhle/kanban/internal/ui/confirm"
	helpview "github.com/nhle/kanban/internal/ui/help"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewHelp
	ViewCommand
	ViewConfirmQuit
)

// Options configures the root model.
type Options struct {
	// LoadDelay is the simulated latency before the stored board is read.
	LoadDelay time.Duration

	// RefreshInterval is how often card ages are recomputed.
	RefreshInterval time.Duration

	// Mouse enables mouse drag and drop hints.
	Mouse bool

	// Now is the clock for new cards and ages. Defaults to time.Now.
	Now func() time.Time
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	store        *board.Store
	drag         *board.Coordinator
	gateway      *persist.Gateway
	scheduler    *relative.Scheduler
	loadDelay    time.Duration
	spinner      spinner.Model
	boardView    boardview.Model
	helpView     helpview.Model
	commandView  command.Model
	confirmView  confirm.Model
	ready        bool
	loadErr      error
	savedVersion uint64
	saving       bool
	quitPending  bool
	status       string
	statusErr    bool
}

// New creates a new root application model that persists through gw.
func New(gw *persist.Gateway, opts Options) Model {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	k := keys.DefaultKeyMap()
	s := board.New(board.WithClock(now))
	d := board.NewCoordinator(s)
	layout := ui.NewLayout(80, 24, len(model.Columns))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		currentView: ViewBoard,
		layout:      layout,
		keys:        k,
		store:       s,
		drag:        d,
		gateway:     gw,
		scheduler:   relative.NewScheduler(opts.RefreshInterval, now),
		loadDelay:   opts.LoadDelay,
		spinner:     sp,
		boardView:   boardview.New(s, d, k, now, layout),
		helpView:    helpview.New(k, opts.Mouse, 80, 24),
		commandView: command.New(80, 24),
		confirmView: confirm.New(80, 24),
	}
}

// Init starts the board load, the loading spinner and the age ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadBoard(m.gateway, m.loadDelay),
		m.scheduler.WaitForTick(),
	)
}

// Dirty reports whether the board has changes that were not saved.
func (m Model) Dirty() bool {
	return !m.store.Loading() && m.store.Version() != m.savedVersion
}

// Store returns the card store behind the board.
func (m Model) Store() *board.Store {
	return m.store
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height, len(model.Columns))
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.boardView.SetLayout(m.layout)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.confirmView.SetSize(contentWidth, contentHeight)
		m.syncAges()
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case spinner.TickMsg:
		if !m.store.Loading() || m.loadErr != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case boardLoadedMsg:
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		var state *model.BoardState
		if msg.found {
			state = &msg.state
		}
		if err := m.store.FinishLoading(state); err != nil {
			m.loadErr = err
			return m, nil
		}
		m.savedVersion = m.store.Version()
		m.syncAges()
		return m, nil

	case boardSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.quitPending = false
			m.setStatus(fmt.Sprintf("save failed: %v", msg.err), true)
			return m, nil
		}
		m.savedVersion = msg.version
		m.setStatus("saved", false)
		if m.quitPending {
			cmd := m.quit()
			return m, cmd
		}
		return m, nil

	case relative.TickMsg:
		m.boardView.SetLabel(msg.CardID, msg.Label)
		return m, m.scheduler.WaitForTick()

	case confirm.ChoiceMsg:
		m.currentView = ViewBoard
		switch msg.Choice {
		case confirm.ChoiceSaveAndQuit:
			m.quitPending = true
			cmd := m.save()
			return m, cmd
		case confirm.ChoiceDiscard:
			cmd := m.quit()
			return m, cmd
		}
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		cmd := m.executeCommand(msg)
		return m, cmd

	case command.CommandErrorMsg:
		m.currentView = m.previousView
		m.setStatus(msg.Err.Error(), true)
		return m, nil

	case tea.MouseMsg:
		if m.currentView != ViewBoard || m.store.Loading() {
			return m, nil
		}
		return m.updateBoard(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveView(msg)
}

// handleKey routes a key press. Global keys apply only when no text input
// owns the keyboard.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		cmd := m.quit()
		return m, cmd
	}

	if m.store.Loading() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			cmd := m.quit()
			return m, cmd
		case key.Matches(msg, m.keys.Help):
			m.toggleView(ViewHelp)
		}
		return m, nil
	}

	switch m.currentView {
	case ViewConfirmQuit:
		return m.updateActiveView(msg)

	case ViewCommand:
		if msg.String() == "esc" || key.Matches(msg, m.keys.Command) {
			m.currentView = m.previousView
			return m, nil
		}
		return m.updateActiveView(msg)

	case ViewHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
			m.currentView = m.previousView
		}
		return m, nil
	}

	if m.boardView.Adding() {
		return m.updateBoard(msg)
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		cmd := m.requestQuit()
		return m, cmd
	case key.Matches(msg, m.keys.Save):
		cmd := m.save()
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.toggleView(ViewHelp)
		return m, nil
	case key.Matches(msg, m.keys.Command):
		m.toggleView(ViewCommand)
		cmd := m.commandView.Focus()
		return m, cmd
	}

	return m.updateBoard(msg)
}

// updateBoard forwards msg to the board view and refreshes the set of
// cards whose ages are being tracked.
func (m Model) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.boardView, cmd = m.boardView.Update(msg)
	m.syncAges()
	return m, cmd
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		return m.updateBoard(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewConfirmQuit:
		m.confirmView, cmd = m.confirmView.Update(msg)
	}

	return m, cmd
}

func (m *Model) toggleView(v ViewState) {
	if m.currentView == v {
		m.currentView = m.previousView
		return
	}
	m.previousView = m.currentView
	m.currentView = v
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

// syncAges keeps exactly the cards on screen scheduled for age updates.
func (m *Model) syncAges() {
	if m.store.Loading() {
		return
	}
	m.scheduler.Sync(m.boardView.VisibleCards())
}

// canSave reports whether saving is allowed. A board that failed to load
// is never saved, so the stored data is left untouched.
func (m Model) canSave() bool {
	return !m.store.Loading() && m.loadErr == nil
}

// save starts writing the current snapshot.
func (m *Model) save() tea.Cmd {
	if !m.canSave() || m.saving {
		return nil
	}
	m.saving = true
	m.setStatus("saving...", false)
	return saveBoard(m.gateway, m.store.Snapshot(), m.store.Version())
}

// requestQuit quits, asking first when there are unsaved changes.
func (m *Model) requestQuit() tea.Cmd {
	if !m.Dirty() {
		return m.quit()
	}
	m.previousView = m.currentView
	m.currentView = ViewConfirmQuit
	return m.confirmView.Start(m.canSave())
}

func (m *Model) quit() tea.Cmd {
	m.drag.End()
	m.scheduler.Stop()
	return tea.Quit
}

// executeCommand runs a command from the command palette.
func (m *Model) executeCommand(c command.CommandMsg) tea.Cmd {
	switch c.Verb {
	case command.VerbSave:
		return m.save()
	case command.VerbQuit:
		return m.requestQuit()
	case command.VerbHelp:
		m.previousView = ViewBoard
		m.currentView = ViewHelp
		return nil
	case command.VerbAdd:
		card, err := m.store.AddCard(model.ColumnTodo, c.Title)
		if err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		m.boardView.SelectCard(card.ID)
		m.syncAges()
		m.setStatus(fmt.Sprintf("added %s", card.ShortID()), false)
		return nil
	case command.VerbMove:
		return m.moveCard(c.CardID, c.Column)
	}
	return nil
}

func (m *Model) moveCard(id string, to model.Column) tea.Cmd {
	var card model.Card
	if id == "" {
		sel, ok := m.boardView.Selected()
		if !ok {
			m.setStatus("no card selected", true)
			return nil
		}
		card = sel
	} else {
		found, _, err := m.store.Snapshot().FindByPrefix(id)
		if err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		card = found
	}

	if !m.drag.Move(card.ID, to) {
		m.setStatus(fmt.Sprintf("%q stays where it is", card.Title), false)
		return nil
	}
	log.Printf("app: moved %s to %s", card.ShortID(), to)
	m.boardView.SelectCard(card.ID)
	m.syncAges()
	m.setStatus(fmt.Sprintf("moved %q to %s", card.Title, to.Title()), false)
	return nil
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Kanban", m.saveStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	if m.loadErr != nil {
		return theme.PanelStyle.Width(m.layout.ContentWidth() - 4).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				theme.ErrorStyle.Render("Could not load the saved board"),
				"",
				m.loadErr.Error(),
				"",
				theme.HelpStyle.Render("Saving is disabled so the stored data is left untouched."),
			),
		)
	}
	if m.currentView == ViewHelp {
		return m.helpView.View()
	}
	if m.store.Loading() {
		return lipgloss.Place(
			m.layout.ContentWidth(), m.layout.ContentHeight(),
			lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading board...",
		)
	}

	switch m.currentView {
	case ViewCommand:
		return m.commandView.View()
	case ViewConfirmQuit:
		return m.confirmView.View()
	default:
		return m.boardView.View()
	}
}

// saveStatus returns a short string describing the persistence state.
func (m Model) saveStatus() string {
	switch {
	case m.loadErr != nil:
		return "load failed"
	case m.store.Loading():
		return "loading"
	case m.saving:
		return "saving"
	case m.Dirty():
		return "● unsaved"
	default:
		return "saved"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.loadErr != nil {
		return "q quit"
	}
	if m.status != "" && m.currentView == ViewBoard {
		if m.statusErr {
			return theme.ErrorStyle.Render(m.status)
		}
		return m.status
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return ": close command | enter execute | esc back"
	case ViewConfirmQuit:
		return "enter choose | esc keep editing"
	}

	if m.boardView.Adding() {
		return "enter add card | esc cancel"
	}
	if sess := m.drag.Session(); sess.Dragging() {
		target := "nowhere"
		if sess.Target != nil {
			target = sess.Target.Title()
		}
		return fmt.Sprintf("moving %q to %s | h/l choose column | enter drop | esc cancel", sess.Card.Title, target)
	}
	return m.helpView.ShortView()
}
