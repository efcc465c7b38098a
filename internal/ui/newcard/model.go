package newcard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/theme"
)

// SubmitMsg is emitted when the user presses enter. Title is trimmed and
// may be empty.
type SubmitMsg struct {
	Title string
}

// CancelMsg is emitted when the user abandons the row.
type CancelMsg struct{}

// Model is the inline new-card row shown at the top of the To-Do column.
type Model struct {
	input textinput.Model
	open  bool
	width int
}

// New creates a closed new-card row.
func New(width int) Model {
	ti := textinput.New()
	ti.Placeholder = "card title"
	ti.Prompt = "+ "
	ti.CharLimit = 200
	ti.Width = width

	return Model{input: ti, width: width}
}

// Open shows the row with an empty, focused input. Opening an already
// open row does nothing.
func (m *Model) Open() tea.Cmd {
	if m.open {
		return nil
	}
	m.open = true
	m.input.Reset()
	return m.input.Focus()
}

// Close hides the row.
func (m *Model) Close() {
	m.open = false
	m.input.Blur()
	m.input.Reset()
}

// IsOpen reports whether the row is visible.
func (m Model) IsOpen() bool {
	return m.open
}

// Value returns the current input text.
func (m Model) Value() string {
	return m.input.Value()
}

// Update handles key input while the row is open.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.open {
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			title := strings.TrimSpace(m.input.Value())
			return m, func() tea.Msg { return SubmitMsg{Title: title} }
		case "esc":
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the row, or nothing when closed.
func (m Model) View() string {
	if !m.open {
		return ""
	}
	return lipgloss.NewStyle().
		Foreground(theme.ColorWhite).
		Render(m.input.View())
}

// Height is the number of lines the row occupies in its column.
func (m Model) Height() int {
	if !m.open {
		return 0
	}
	return 2
}

// SetWidth updates the input width.
func (m *Model) SetWidth(width int) {
	m.width = width
	m.input.Width = width
}
