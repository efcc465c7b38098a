package model

import (
	"fmt"
	"strings"
)

// Column identifies one of the three fixed board columns.
type Column int

const (
	ColumnTodo Column = iota
	ColumnOngoing
	ColumnDone
)

// Columns lists every column in display order.
var Columns = []Column{ColumnTodo, ColumnOngoing, ColumnDone}

// String returns the stable machine name of the column.
func (c Column) String() string {
	switch c {
	case ColumnTodo:
		return "todo"
	case ColumnOngoing:
		return "ongoing"
	case ColumnDone:
		return "done"
	default:
		return fmt.Sprintf("column(%d)", int(c))
	}
}

// Title returns the human-readable column heading.
func (c Column) Title() string {
	switch c {
	case ColumnTodo:
		return "To-Do"
	case ColumnOngoing:
		return "Ongoing"
	case ColumnDone:
		return "Done"
	default:
		return c.String()
	}
}

// Valid reports whether c is one of the known columns.
func (c Column) Valid() bool {
	return c >= ColumnTodo && c <= ColumnDone
}

// ParseColumn maps a user-supplied name to a Column. Matching is
// case-insensitive and accepts a few common aliases.
func ParseColumn(s string) (Column, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "to-do":
		return ColumnTodo, nil
	case "ongoing", "doing", "in-progress":
		return ColumnOngoing, nil
	case "done":
		return ColumnDone, nil
	default:
		return 0, fmt.Errorf("unknown column %q (want todo, ongoing or done)", s)
	}
}
