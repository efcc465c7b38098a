package boardview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/relative"
	"github.com/nhle/kanban/internal/theme"
	"github.com/nhle/kanban/internal/ui"
	"github.com/nhle/kanban/internal/ui/newcard"
)

// Rows taken by a column before its first card: top border, title, rule.
const columnHeaderRows = 3

// Rows taken by one card: title, age, gap.
const cardRows = 3

// Model renders the three columns and turns keyboard and mouse input into
// Card Store and drag operations.
type Model struct {
	store     *board.Store
	drag      *board.Coordinator
	keys      *keys.KeyMap
	layout    ui.Layout
	newCard   newcard.Model
	focus     model.Column
	cursor    [3]int
	offset    [3]int
	labels    map[string]string
	now       func() time.Time
	mouseDrag bool
}

// New creates a board view over s and d. now supplies the clock used for
// card ages that have no scheduled label yet.
func New(
	s *board.Store,
	d *board.Coordinator,
	k *keys.KeyMap,
	now func() time.Time,
	layout ui.Layout,
) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		store:  s,
		drag:   d,
		keys:   k,
		focus:  model.ColumnTodo,
		labels: make(map[string]string),
		now:    now,
	}
	m.newCard = newcard.New(0)
	m.SetLayout(layout)
	return m
}

// SetLayout updates the view dimensions. Mouse positions are screen
// coordinates, so the view needs the full application layout.
func (m *Model) SetLayout(l ui.Layout) {
	m.layout = l
	m.newCard.SetWidth(m.innerWidth(model.ColumnTodo) - 2)
}

// SetLabel stores the latest age label for a card.
func (m *Model) SetLabel(cardID, label string) {
	m.labels[cardID] = label
}

// Label returns the age label shown for card.
func (m Model) Label(card model.Card) string {
	if l, ok := m.labels[card.ID]; ok {
		return l
	}
	return relative.Format(card.Status, m.now())
}

// Focus returns the column holding keyboard focus.
func (m Model) Focus() model.Column {
	return m.focus
}

// Selected returns the card under the cursor in the focused column.
func (m Model) Selected() (model.Card, bool) {
	cards := m.store.Column(m.focus)
	if len(cards) == 0 {
		return model.Card{}, false
	}
	return cards[m.cursorIndex(m.focus)], true
}

// Adding reports whether the new-card row is open. While it is open every
// key belongs to the row.
func (m Model) Adding() bool {
	return m.newCard.IsOpen()
}

// OpenNewCard opens the new-card row at the top of the To-Do column. It
// does nothing while the row is already open or a drag is running.
func (m *Model) OpenNewCard() tea.Cmd {
	if m.newCard.IsOpen() || m.drag.Session().Dragging() {
		return nil
	}
	m.focus = model.ColumnTodo
	return m.newCard.Open()
}

// SelectCard moves focus and cursor to the card with the given id.
func (m *Model) SelectCard(id string) {
	col, idx, ok := m.store.Snapshot().Locate(id)
	if !ok {
		return
	}
	m.focus = col
	m.cursor[col] = idx
	m.scrollToCursor(col)
}

// VisibleCards returns the cards currently drawn on screen.
func (m Model) VisibleCards() []model.Card {
	var out []model.Card
	for _, col := range model.Columns {
		cards := m.store.Column(col)
		start, end := m.window(col)
		out = append(out, cards[start:end]...)
	}
	return out
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case newcard.SubmitMsg:
		m.newCard.Close()
		if msg.Title == "" {
			return m, nil
		}
		card, err := m.store.AddCard(model.ColumnTodo, msg.Title)
		if err != nil {
			return m, nil
		}
		m.SelectCard(card.ID)
		return m, nil

	case newcard.CancelMsg:
		m.newCard.Close()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.newCard.IsOpen() {
			var cmd tea.Cmd
			m.newCard, cmd = m.newCard.Update(msg)
			return m, cmd
		}
		return m.handleKeys(msg)
	}

	if m.newCard.IsOpen() {
		var cmd tea.Cmd
		m.newCard, cmd = m.newCard.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	dragging := m.drag.Session().Dragging()

	switch {
	case key.Matches(msg, m.keys.Left):
		m.moveFocus(-1, dragging)
	case key.Matches(msg, m.keys.Right):
		m.moveFocus(1, dragging)
	case key.Matches(msg, m.keys.Up):
		if !dragging {
			m.moveCursor(-1)
		}
	case key.Matches(msg, m.keys.Down):
		if !dragging {
			m.moveCursor(1)
		}
	case key.Matches(msg, m.keys.New):
		cmd := m.OpenNewCard()
		return m, cmd
	case key.Matches(msg, m.keys.Grab):
		if dragging {
			m.drop()
			break
		}
		if card, ok := m.Selected(); ok && m.drag.Start(card.ID) {
			m.drag.Enter(m.focus)
		}
	case key.Matches(msg, m.keys.Drop):
		if dragging {
			m.drop()
		}
	case key.Matches(msg, m.keys.Cancel):
		if dragging {
			src := m.drag.Session().Source
			m.drag.End()
			m.focus = src
		}
	}
	return m, nil
}

func (m *Model) moveFocus(delta int, dragging bool) {
	next := int(m.focus) + delta
	if next < 0 || next >= len(model.Columns) {
		return
	}
	if dragging {
		m.drag.Leave(m.focus)
	}
	m.focus = model.Column(next)
	if dragging {
		m.drag.Enter(m.focus)
	}
}

func (m *Model) moveCursor(delta int) {
	n := len(m.store.Column(m.focus))
	if n == 0 {
		return
	}
	i := m.cursorIndex(m.focus) + delta
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	m.cursor[m.focus] = i
	m.scrollToCursor(m.focus)
}

// drop finishes the running drag. On a move the moved card becomes the
// selection at the head of its new column.
func (m *Model) drop() {
	sess := m.drag.Session()
	moved := m.drag.Drop()
	m.drag.End()
	m.mouseDrag = false
	if moved {
		m.SelectCard(sess.Card.ID)
	}
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.newCard.IsOpen() {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			col, idx, ok := m.cardAt(msg.X, msg.Y)
			if !ok {
				if c, inside := m.columnAt(msg.X, msg.Y); inside {
					m.focus = c
				}
				return m, nil
			}
			m.focus = col
			m.cursor[col] = idx
			card := m.store.Column(col)[idx]
			if m.drag.Start(card.ID) {
				m.drag.Enter(col)
				m.mouseDrag = true
			}
		case tea.MouseButtonWheelUp:
			if col, ok := m.columnAt(msg.X, msg.Y); ok {
				m.focus = col
				m.moveCursor(-1)
			}
		case tea.MouseButtonWheelDown:
			if col, ok := m.columnAt(msg.X, msg.Y); ok {
				m.focus = col
				m.moveCursor(1)
			}
		}

	case tea.MouseActionMotion:
		if m.mouseDrag {
			m.hover(msg.X, msg.Y)
		}

	case tea.MouseActionRelease:
		if m.mouseDrag {
			m.hover(msg.X, msg.Y)
			m.drop()
		}
	}
	return m, nil
}

// hover translates the pointer position into Enter/Leave calls.
func (m *Model) hover(x, y int) {
	target := m.drag.Session().Target
	col, inside := m.columnAt(x, y)
	switch {
	case inside && (target == nil || *target != col):
		if target != nil {
			m.drag.Leave(*target)
		}
		m.drag.Enter(col)
		m.focus = col
	case !inside && target != nil:
		m.drag.Leave(*target)
	}
}

func (m Model) columnAt(x, y int) (model.Column, bool) {
	i, ok := m.layout.ColumnAt(x, y)
	if !ok {
		return 0, false
	}
	return model.Column(i), true
}

// cardAt maps a screen position to the card drawn there.
func (m Model) cardAt(x, y int) (model.Column, int, bool) {
	col, ok := m.columnAt(x, y)
	if !ok {
		return 0, 0, false
	}
	row := m.layout.BodyRow(y) - columnHeaderRows - m.newCardRows(col)
	if row < 0 {
		return 0, 0, false
	}
	start, end := m.window(col)
	idx := start + row/cardRows
	if idx >= end {
		return 0, 0, false
	}
	return col, idx, true
}

func (m Model) newCardRows(col model.Column) int {
	if col != model.ColumnTodo {
		return 0
	}
	return m.newCard.Height()
}

// capacity is how many cards fit in a column.
func (m Model) capacity(col model.Column) int {
	rows := m.layout.ContentHeight() - columnHeaderRows - 1 - m.newCardRows(col)
	n := rows / cardRows
	if n < 1 {
		return 1
	}
	return n
}

func (m Model) cursorIndex(col model.Column) int {
	n := len(m.store.Column(col))
	i := m.cursor[col]
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// window returns the [start, end) range of cards drawn for col.
func (m Model) window(col model.Column) (int, int) {
	n := len(m.store.Column(col))
	capacity := m.capacity(col)
	start := m.offset[col]
	if start > n-capacity {
		start = n - capacity
	}
	if start < 0 {
		start = 0
	}
	end := start + capacity
	if end > n {
		end = n
	}
	return start, end
}

func (m *Model) scrollToCursor(col model.Column) {
	i := m.cursorIndex(col)
	capacity := m.capacity(col)
	if i < m.offset[col] {
		m.offset[col] = i
	}
	if i >= m.offset[col]+capacity {
		m.offset[col] = i - capacity + 1
	}
}

func (m Model) innerWidth(col model.Column) int {
	w := m.layout.ColumnWidth(int(col)) - 4
	if w < 1 {
		return 1
	}
	return w
}

// View renders the board body.
func (m Model) View() string {
	cols := make([]string, 0, len(model.Columns))
	for _, col := range model.Columns {
		cols = append(cols, m.renderColumn(col))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderColumn(col model.Column) string {
	sess := m.drag.Session()
	cards := m.store.Column(col)
	width := m.innerWidth(col)

	lines := []string{
		theme.ColumnTitleStyle(col).Render(fmt.Sprintf("%s (%d)", col.Title(), len(cards))),
		lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("─", width)),
	}

	if col == model.ColumnTodo && m.newCard.IsOpen() {
		lines = append(lines, m.newCard.View(), "")
	}

	start, end := m.window(col)
	if len(cards) == 0 {
		lines = append(lines, theme.HelpStyle.Render("no cards"))
	}
	for i := start; i < end; i++ {
		card := cards[i]
		titleStyle := theme.CardTitleStyle
		switch {
		case sess.Dragging() && sess.Card.ID == card.ID:
			titleStyle = theme.DraggedCardStyle
		case col == m.focus && i == m.cursorIndex(col):
			titleStyle = theme.SelectedCardStyle
		}
		lines = append(lines,
			titleStyle.MaxWidth(width).Render(card.Title),
			theme.AgeStyle.Width(width).MaxWidth(width).Render(m.Label(card)),
			"",
		)
	}

	frame := theme.ColumnStyle
	switch {
	case sess.Dragging() && sess.Target != nil && *sess.Target == col && col != sess.Source:
		frame = theme.DropTargetStyle
	case col == m.focus:
		frame = theme.FocusedColumnStyle
	}

	height := m.layout.ContentHeight() - 2
	if height < 1 {
		height = 1
	}
	return frame.
		Width(m.layout.ColumnWidth(int(col)) - 2).
		Height(height).
		MaxHeight(height + 2).
		Render(strings.Join(lines, "\n"))
}
