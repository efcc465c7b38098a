package confirm

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/theme"
)

// Choice is the answer to the unsaved-changes prompt.
type Choice string

const (
	ChoiceSaveAndQuit Choice = "save"
	ChoiceDiscard     Choice = "discard"
	ChoiceCancel      Choice = "cancel"
)

// ChoiceMsg is dispatched once the user answers the prompt.
type ChoiceMsg struct {
	Choice Choice
}

// bindings holds the selected value on the heap so that huh's Value()
// pointer stays valid across Bubble Tea model copies.
type bindings struct {
	choice Choice
}

// Model asks what to do with unsaved changes before quitting.
type Model struct {
	form   *huh.Form
	b      *bindings
	width  int
	height int
}

// New creates a new quit confirmation model.
func New(width, height int) Model {
	return Model{
		b:      &bindings{choice: ChoiceSaveAndQuit},
		width:  width,
		height: height,
	}
}

// Start resets the prompt and returns its init command. canSave controls
// whether "save and quit" is offered.
func (m *Model) Start(canSave bool) tea.Cmd {
	opts := make([]huh.Option[Choice], 0, 3)
	if canSave {
		opts = append(opts, huh.NewOption("Save and quit", ChoiceSaveAndQuit))
		m.b.choice = ChoiceSaveAndQuit
	} else {
		m.b.choice = ChoiceDiscard
	}
	opts = append(opts,
		huh.NewOption("Quit without saving", ChoiceDiscard),
		huh.NewOption("Keep editing", ChoiceCancel),
	)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Choice]().
				Title("The board has unsaved changes").
				Options(opts...).
				Value(&m.b.choice),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)

	return m.form.Init()
}

// Update handles messages for the prompt.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		return m, choose(ChoiceCancel)
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m, choose(m.b.choice)
	case huh.StateAborted:
		return m, choose(ChoiceCancel)
	}

	return m, cmd
}

// View renders the prompt.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Quit") + "\n" + m.form.View()

	return theme.PanelStyle.
		Width(m.formWidth() + 4).
		Render(content)
}

// SetSize updates the prompt dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) formWidth() int {
	w := m.width - 8
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

func choose(c Choice) tea.Cmd {
	return func() tea.Msg { return ChoiceMsg{Choice: c} }
}
