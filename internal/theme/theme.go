package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlay content such as help and the command palette.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ColumnStyle is the frame of an unfocused column.
var ColumnStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Padding(0, 1)

// FocusedColumnStyle is the frame of the column holding keyboard focus.
var FocusedColumnStyle = ColumnStyle.
	BorderForeground(ColorBlue)

// DropTargetStyle is the frame of the column a dragged card would land in.
var DropTargetStyle = ColumnStyle.
	Border(lipgloss.DoubleBorder()).
	BorderForeground(ColorYellow)

// CardTitleStyle renders a card title.
var CardTitleStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// SelectedCardStyle highlights the selected card.
var SelectedCardStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// DraggedCardStyle marks the card being dragged.
var DraggedCardStyle = lipgloss.NewStyle().
	Bold(true).
	Italic(true).
	Foreground(ColorYellow)

// AgeStyle renders the "5 minutes ago" line under a card.
var AgeStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Align(lipgloss.Right)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle is used for load and save failures.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// DirtyStyle marks unsaved changes in the header.
var DirtyStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorOrange).
	Background(ColorBlue)

// ColumnAccent returns the heading color of a column.
func ColumnAccent(c model.Column) lipgloss.TerminalColor {
	switch c {
	case model.ColumnTodo:
		return lipgloss.Color("#60A5FA")
	case model.ColumnOngoing:
		return lipgloss.Color("#F59E0B")
	case model.ColumnDone:
		return lipgloss.Color("#22C55E")
	default:
		return ColorGray
	}
}

// ColumnTitleStyle returns the heading style of a column.
func ColumnTitleStyle(c model.Column) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(ColumnAccent(c))
}
