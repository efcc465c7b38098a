package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCard(id, title string) Card {
	return Card{ID: id, Title: title, Status: time.Date(2022, 5, 22, 18, 15, 0, 0, time.UTC)}
}

func TestNewCardTrimsTitleAndNormalizesTime(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	created := time.Date(2026, 10, 18, 9, 30, 0, 123456789, loc)

	c := NewCard("  write report  ", created)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "write report", c.Title)
	assert.Equal(t, time.UTC, c.Status.Location())
	assert.True(t, c.Status.Equal(created.Truncate(time.Millisecond)))
}

func TestNewCardIDsAreDistinct(t *testing.T) {
	now := time.Now()
	a := NewCard("same", now)
	b := NewCard("same", now)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestBoardStateLocate(t *testing.T) {
	b := BoardState{
		Todo:    []Card{testCard("a", "A"), testCard("b", "B")},
		Ongoing: []Card{testCard("c", "C")},
	}

	col, idx, ok := b.Locate("b")
	require.True(t, ok)
	assert.Equal(t, ColumnTodo, col)
	assert.Equal(t, 1, idx)

	col, idx, ok = b.Locate("c")
	require.True(t, ok)
	assert.Equal(t, ColumnOngoing, col)
	assert.Equal(t, 0, idx)

	_, _, ok = b.Locate("missing")
	assert.False(t, ok)
}

func TestBoardStateFindByPrefix(t *testing.T) {
	b := BoardState{
		Todo: []Card{testCard("abc123", "A"), testCard("abd456", "B")},
		Done: []Card{testCard("zzz999", "Z")},
	}

	card, col, err := b.FindByPrefix("zz")
	require.NoError(t, err)
	assert.Equal(t, "Z", card.Title)
	assert.Equal(t, ColumnDone, col)

	_, _, err = b.FindByPrefix("ab")
	assert.ErrorContains(t, err, "2 cards match")

	_, _, err = b.FindByPrefix("nope")
	assert.ErrorContains(t, err, "no card matches")

	_, _, err = b.FindByPrefix(" ")
	assert.Error(t, err)
}

func TestBoardStateValidate(t *testing.T) {
	tests := []struct {
		name    string
		board   BoardState
		wantErr bool
	}{
		{
			name:  "empty board",
			board: BoardState{},
		},
		{
			name: "distinct cards",
			board: BoardState{
				Todo: []Card{testCard("a", "A")},
				Done: []Card{testCard("b", "A")},
			},
		},
		{
			name: "same card in two columns",
			board: BoardState{
				Todo:    []Card{testCard("a", "A")},
				Ongoing: []Card{testCard("a", "A")},
			},
			wantErr: true,
		},
		{
			name: "same card twice in one column",
			board: BoardState{
				Done: []Card{testCard("a", "A"), testCard("a", "A")},
			},
			wantErr: true,
		},
		{
			name:    "missing id",
			board:   BoardState{Todo: []Card{testCard("", "A")}},
			wantErr: true,
		},
		{
			name:    "blank title",
			board:   BoardState{Todo: []Card{testCard("a", "   ")}},
			wantErr: true,
		},
		{
			name:    "untrimmed title",
			board:   BoardState{Ongoing: []Card{testCard("a", "  padded ")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.board.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidBoard), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestBoardStateWithCardsDoesNotTouchOriginal(t *testing.T) {
	orig := BoardState{Todo: []Card{testCard("a", "A")}}
	next := orig.WithCards(ColumnDone, []Card{testCard("b", "B")})

	assert.Empty(t, orig.Done)
	assert.Len(t, next.Done, 1)
	assert.Equal(t, 2, next.Len())
}
