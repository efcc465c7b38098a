package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/theme"
)

// Layout manages the terminal layout dimensions: a one-line header, the
// board body split into equal-width columns, and a one-line status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
	Columns         int
}

// NewLayout creates a Layout with the given terminal dimensions for a
// board with the given number of columns.
func NewLayout(width, height, columns int) Layout {
	if columns < 1 {
		columns = 1
	}
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
		Columns:         columns,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// ColumnWidth returns the outer width of column i. The last column
// absorbs any remainder.
func (l Layout) ColumnWidth(i int) int {
	base := l.Width / l.Columns
	if i == l.Columns-1 {
		return l.Width - base*(l.Columns-1)
	}
	return base
}

// ColumnAt maps a screen x/y position to a column index. It returns
// false when the position is outside the board body.
func (l Layout) ColumnAt(x, y int) (int, bool) {
	if y < l.HeaderHeight || y >= l.HeaderHeight+l.ContentHeight() {
		return 0, false
	}
	if x < 0 || x >= l.Width || l.Width == 0 {
		return 0, false
	}
	base := l.Width / l.Columns
	if base == 0 {
		return 0, false
	}
	i := x / base
	if i >= l.Columns {
		i = l.Columns - 1
	}
	return i, true
}

// BodyRow converts a screen y into a row offset within the board body.
func (l Layout) BodyRow(y int) int {
	return y - l.HeaderHeight
}

// RenderHeader renders the top header bar with a title and a status.
func (l Layout) RenderHeader(title string, status string) string {
	titleRendered := theme.HeaderStyle.Render(title)

	statusRendered := theme.HeaderStyle.
		Align(lipgloss.Right).
		Render(status)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(statusRendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.HeaderStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		statusRendered,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.
		MaxWidth(l.Width).
		Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().
		Width(gap).
		Background(theme.StatusBarStyle.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	body := lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		statusBar,
	)
}
