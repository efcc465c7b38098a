package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

// Verb names a palette command.
type Verb string

const (
	VerbSave Verb = "save"
	VerbQuit Verb = "quit"
	VerbHelp Verb = "help"
	VerbAdd  Verb = "add"
	VerbMove Verb = "move"
)

// CommandMsg is emitted when the user executes a valid command.
type CommandMsg struct {
	Verb   Verb
	Title  string       // add
	CardID string       // move: id or unique id prefix, empty for the selected card
	Column model.Column // move
}

// CommandErrorMsg is emitted when the entered command cannot be parsed.
type CommandErrorMsg struct {
	Err error
}

// Parse turns a palette line into a command. Recognized forms:
//
//	save | w
//	quit | q
//	help
//	add <title...>
//	move [<id>] <column>
func Parse(line string) (CommandMsg, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return CommandMsg{}, fmt.Errorf("empty command")
	}

	switch strings.ToLower(fields[0]) {
	case "save", "w":
		return CommandMsg{Verb: VerbSave}, nil
	case "quit", "q":
		return CommandMsg{Verb: VerbQuit}, nil
	case "help", "?":
		return CommandMsg{Verb: VerbHelp}, nil
	case "add", "new":
		title := strings.TrimSpace(strings.Join(fields[1:], " "))
		if title == "" {
			return CommandMsg{}, fmt.Errorf("usage: add <title>")
		}
		return CommandMsg{Verb: VerbAdd, Title: title}, nil
	case "move", "mv":
		var id string
		switch len(fields) {
		case 2:
		case 3:
			id = fields[1]
		default:
			return CommandMsg{}, fmt.Errorf("usage: move [<id>] <column>")
		}
		col, err := model.ParseColumn(fields[len(fields)-1])
		if err != nil {
			return CommandMsg{}, err
		}
		return CommandMsg{Verb: VerbMove, CardID: id, Column: col}, nil
	default:
		return CommandMsg{}, fmt.Errorf("unknown command %q", fields[0])
	}
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "save, quit, help, add <title>, move [<id>] <column>"
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if line == "" {
				return m, nil
			}
			parsed, err := Parse(line)
			if err != nil {
				return m, func() tea.Msg {
					return CommandErrorMsg{Err: err}
				}
			}
			return m, func() tea.Msg {
				return parsed
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()

	content := lipgloss.JoinVertical(lipgloss.Left, title, input)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
