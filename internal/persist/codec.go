package persist

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/kanban/internal/model"
)

// FormatVersion is the blob layout written by Encode.
const FormatVersion = 1

// legacyStatusLayouts are the date texts written by the browser version
// of the board before cards carried ids.
var legacyStatusLayouts = []string{
	time.RFC3339Nano,
	"Mon Jan 02 2006",
	"06-01-02 15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

type blob struct {
	Version int        `json:"version"`
	Todo    []blobCard `json:"todoList"`
	Ongoing []blobCard `json:"ongoingList"`
	Done    []blobCard `json:"doneList"`
}

type blobCard struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// Encode serializes the board as a versioned JSON blob.
func Encode(state model.BoardState) ([]byte, error) {
	b := blob{
		Version: FormatVersion,
		Todo:    encodeCards(state.Todo),
		Ongoing: encodeCards(state.Ongoing),
		Done:    encodeCards(state.Done),
	}
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding board: %w", err)
	}
	return data, nil
}

func encodeCards(cards []model.Card) []blobCard {
	out := make([]blobCard, len(cards))
	for i, c := range cards {
		out[i] = blobCard{
			ID:     c.ID,
			Title:  c.Title,
			Status: c.Status.UTC().Format(time.RFC3339Nano),
		}
	}
	return out
}

// listKeys are the top-level fields holding the three columns.
var listKeys = []string{"todoList", "ongoingList", "doneList"}

// Decode parses a blob written by Encode or by the legacy browser board.
// Every failure wraps ErrMalformed.
func Decode(data []byte) (model.BoardState, error) {
	b, err := decodeBlob(data)
	if err != nil {
		return model.BoardState{}, err
	}

	legacy := b.Version == 0
	var state model.BoardState
	for _, col := range model.Columns {
		cards, err := decodeCards(b.cards(col), col, legacy)
		if err != nil {
			return model.BoardState{}, err
		}
		state = state.WithCards(col, cards)
	}

	if err := state.Validate(); err != nil {
		return model.BoardState{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return state, nil
}

// decodeBlob checks the top-level shape before reading the lists: the
// value must be an object, a versioned blob must carry all three lists
// and a legacy one at least one of them.
func decodeBlob(data []byte) (blob, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return blob{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if fields == nil {
		return blob{}, fmt.Errorf("%w: stored value is not a board object", ErrMalformed)
	}

	var present []string
	for _, k := range listKeys {
		if _, ok := fields[k]; ok {
			present = append(present, k)
		}
	}

	_, versioned := fields["version"]
	switch {
	case len(present) == 0:
		return blob{}, fmt.Errorf("%w: none of %s present", ErrMalformed, strings.Join(listKeys, ", "))
	case versioned && len(present) != len(listKeys):
		return blob{}, fmt.Errorf("%w: versioned board has only %s", ErrMalformed, strings.Join(present, ", "))
	}

	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return blob{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if versioned && b.Version != FormatVersion {
		return blob{}, fmt.Errorf(
			"%w: unsupported format version %d (newest known is %d)",
			ErrMalformed, b.Version, FormatVersion,
		)
	}
	return b, nil
}

func (b blob) cards(c model.Column) []blobCard {
	switch c {
	case model.ColumnTodo:
		return b.Todo
	case model.ColumnOngoing:
		return b.Ongoing
	default:
		return b.Done
	}
}

func decodeCards(in []blobCard, col model.Column, legacy bool) ([]model.Card, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]model.Card, len(in))
	for i, bc := range in {
		id := bc.ID
		if id == "" {
			if !legacy {
				return nil, fmt.Errorf("%w: %s card %d has no id", ErrMalformed, col, i)
			}
			id = uuid.NewString()
		}

		status, err := parseStatus(bc.Status, legacy)
		if err != nil {
			return nil, fmt.Errorf("%w: %s card %d: %v", ErrMalformed, col, i, err)
		}

		out[i] = model.Card{
			ID:     id,
			Title:  strings.TrimSpace(bc.Title),
			Status: status,
		}
	}
	return out, nil
}

func parseStatus(s string, legacy bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !legacy {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("bad status %q: %w", s, err)
		}
		return t.UTC(), nil
	}
	for _, layout := range legacyStatusLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized status date %q", s)
}
