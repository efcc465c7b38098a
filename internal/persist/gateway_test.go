package persist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/persist"
	"github.com/nhle/kanban/internal/store"
	"github.com/nhle/kanban/tests/testutil"
)

// failingStore is a ByteStore whose writes always fail.
type failingStore struct {
	store.ByteStore
	err error
}

func (f failingStore) Put(context.Context, string, []byte) error { return f.err }

func sampleBoard() model.BoardState {
	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	return model.BoardState{
		Todo: []model.Card{
			model.NewCard("write tests", base.Add(2*time.Minute)),
			model.NewCard("write code", base.Add(time.Minute)),
		},
		Ongoing: []model.Card{model.NewCard("review", base)},
		Done:    nil,
	}
}

func assertSameBoard(t *testing.T, want, got model.BoardState) {
	t.Helper()
	for _, col := range model.Columns {
		w, g := want.Cards(col), got.Cards(col)
		require.Len(t, g, len(w), "column %s", col)
		for i := range w {
			assert.Equal(t, w[i].ID, g[i].ID)
			assert.Equal(t, w[i].Title, g[i].Title)
			assert.True(t, w[i].Status.Equal(g[i].Status), "status of %s", w[i].Title)
		}
	}
}

func TestLoadWithNothingStored(t *testing.T) {
	g := persist.NewGateway(testutil.NewTestStore(t), "")

	state, ok, err := g.Load(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, state.Len())
	assert.Equal(t, model.DefaultStoreKey, g.Key())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := persist.NewGateway(testutil.NewTestStore(t), "")
	ctx := context.Background()
	want := sampleBoard()

	require.NoError(t, g.Save(ctx, want))
	got, ok, err := g.Load(ctx)

	require.NoError(t, err)
	require.True(t, ok)
	assertSameBoard(t, want, got)
}

func TestSaveOverwrites(t *testing.T) {
	g := persist.NewGateway(testutil.NewTestStore(t), "")
	ctx := context.Background()

	require.NoError(t, g.Save(ctx, sampleBoard()))
	require.NoError(t, g.Save(ctx, model.BoardState{}))

	got, ok, err := g.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, got.Len())
}

func TestLoadMalformedIsAnError(t *testing.T) {
	s := testutil.NewTestStore(t)
	g := persist.NewGateway(s, "")
	ctx := context.Background()

	const status = `"status": "2026-10-18T09:00:00Z"`
	for name, raw := range map[string]string{
		"not json":          `{todoList: [`,
		"null":              `null`,
		"empty object":      `{}`,
		"unrelated object":  `{"settings": {"theme": "dark"}}`,
		"lists under wrong": `{"todo": [{"title": "A", "status": "2022-05-22T10:15:00.000Z"}]}`,
		"top-level array":   `[]`,
		"version only":      `{"version": 1}`,
		"version, one list": `{"version": 1, "todoList": []}`,
		"null version":      `{"version": null, "todoList": [], "ongoingList": [], "doneList": []}`,
		"wrong shape":       `{"todoList": "nope"}`,
		"future version":    `{"version": 99, "todoList": [], "ongoingList": [], "doneList": []}`,
		"bad status":        `{"version": 1, "todoList": [{"id": "a", "title": "A", "status": "yesterday"}], "ongoingList": [], "doneList": []}`,
		"missing id":        `{"version": 1, "todoList": [], "ongoingList": [], "doneList": [{"title": "A", ` + status + `}]}`,
		"duplicate card":    `{"version": 1, "todoList": [{"id": "a", "title": "A", ` + status + `}], "ongoingList": [], "doneList": [{"id": "a", "title": "A", ` + status + `}]}`,
		"blank title":       `{"version": 1, "todoList": [{"id": "a", "title": " ", ` + status + `}], "ongoingList": [], "doneList": []}`,
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Put(ctx, model.DefaultStoreKey, []byte(raw)))

			_, _, err := g.Load(ctx)

			assert.ErrorIs(t, err, persist.ErrMalformed)
		})
	}
}

func TestLoadLegacyBlob(t *testing.T) {
	s := testutil.NewTestStore(t)
	g := persist.NewGateway(s, "")
	ctx := context.Background()
	raw := `{
		"todoList": [
			{"title": "dev task 1", "status": "22-05-22 18:15"},
			{"title": "new card", "status": "Sun May 22 2022"}
		],
		"ongoingList": [{"title": "dev task 4", "status": "2022-05-22T10:15:00.000Z"}],
		"doneList": []
	}`
	require.NoError(t, s.Put(ctx, model.DefaultStoreKey, []byte(raw)))

	state, ok, err := g.Load(ctx)

	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, state.Todo, 2)
	assert.NotEmpty(t, state.Todo[0].ID)
	assert.NotEqual(t, state.Todo[0].ID, state.Todo[1].ID)
	assert.True(t, state.Todo[0].Status.Equal(time.Date(2022, 5, 22, 18, 15, 0, 0, time.UTC)))
	assert.True(t, state.Todo[1].Status.Equal(time.Date(2022, 5, 22, 0, 0, 0, 0, time.UTC)))
	assert.True(t, state.Ongoing[0].Status.Equal(time.Date(2022, 5, 22, 10, 15, 0, 0, time.UTC)))
	assert.Empty(t, state.Done)
}

func TestSaveFailureIsReported(t *testing.T) {
	quota := errors.New("quota exceeded")
	g := persist.NewGateway(failingStore{ByteStore: testutil.NewTestStore(t), err: quota}, "")

	err := g.Save(context.Background(), sampleBoard())

	assert.ErrorIs(t, err, persist.ErrSaveFailed)
	assert.ErrorIs(t, err, quota)
}

func TestLoadWithLatencyWaits(t *testing.T) {
	g := persist.NewGateway(testutil.NewTestStore(t), "")

	start := time.Now()
	_, ok, err := g.LoadWithLatency(context.Background(), 50*time.Millisecond)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestLoadWithLatencyCancelled(t *testing.T) {
	g := persist.NewGateway(testutil.NewTestStore(t), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := g.LoadWithLatency(ctx, time.Hour)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeAcceptsLegacyBlobWithSomeLists(t *testing.T) {
	state, err := persist.Decode([]byte(`{"doneList": [{"title": "  shipped ", "status": "Sun May 22 2022"}]}`))

	require.NoError(t, err)
	require.Len(t, state.Done, 1)
	assert.Equal(t, "shipped", state.Done[0].Title)
	assert.Empty(t, state.Todo)
}

func TestEncodeWritesVersion(t *testing.T) {
	data, err := persist.Encode(model.BoardState{})
	require.NoError(t, err)

	assert.JSONEq(t, `{"version":1,"todoList":[],"ongoingList":[],"doneList":[]}`, string(data))
}
