package newcard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestClosedRowIgnoresInput(t *testing.T) {
	m := New(30)
	m = typeText(m, "abc")

	assert.False(t, m.IsOpen())
	assert.Empty(t, m.Value())
	assert.Empty(t, m.View())
	assert.Zero(t, m.Height())
}

func TestSubmitTrimsTitle(t *testing.T) {
	m := New(30)
	m.Open()
	m = typeText(m, "  Write report ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitMsg{Title: "Write report"}, cmd())
}

func TestSubmitBlankTitle(t *testing.T) {
	m := New(30)
	m.Open()
	m = typeText(m, "   ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, SubmitMsg{Title: ""}, cmd())
}

func TestEscCancels(t *testing.T) {
	m := New(30)
	m.Open()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CancelMsg{}, cmd())
}

func TestOpenTwiceKeepsText(t *testing.T) {
	m := New(30)
	m.Open()
	m = typeText(m, "draft")

	assert.Nil(t, m.Open())
	assert.Equal(t, "draft", m.Value())

	m.Close()
	assert.False(t, m.IsOpen())
	m.Open()
	assert.Empty(t, m.Value())
}
