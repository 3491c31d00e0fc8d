package chromem

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quillio/docsearch/vector"
)

func newTestStore(t *testing.T) vector.Store {
	t.Helper()

	store, err := NewChromemStore(vector.Config{
		Backend:    vector.BackendChromem,
		Collection: "documents",
		Dimension:  3,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.EnsureCollection(context.Background()); err != nil {
		t.Fatal(err)
	}

	return store
}

func TestUpsertOverwritesByID(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := newTestStore(t)

	category := "science"
	err := store.Upsert(ctx, vector.Point{
		ID:     1,
		Vector: []float32{1, 0, 0},
		Payload: vector.Payload{
			Title:    "First",
			Content:  "first content",
			Category: &category,
		},
	})
	assert.NoError(err)

	err = store.Upsert(ctx, vector.Point{
		ID:     1,
		Vector: []float32{0, 1, 0},
		Payload: vector.Payload{
			Title:   "Second",
			Content: "second content",
		},
	})
	assert.NoError(err)

	point, found, err := store.Fetch(ctx, 1)
	assert.NoError(err)
	assert.True(found)
	assert.Equal("Second", point.Payload.Title)
	assert.Nil(point.Payload.Category, "overwrite must drop the old category")

	matches, err := store.Search(ctx, []float32{0, 1, 0}, 10)
	assert.NoError(err)
	assert.Len(matches, 1)
}

func TestFetchAbsent(t *testing.T) {
	assert := assert.New(t)
	store := newTestStore(t)

	_, found, err := store.Fetch(context.Background(), 42)
	assert.NoError(err)
	assert.False(found)
}

func TestSearchClampsLimitToCount(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := newTestStore(t)

	matches, err := store.Search(ctx, []float32{1, 0, 0}, 5)
	assert.NoError(err)
	assert.Empty(matches)

	err = store.Upsert(ctx, vector.Point{
		ID:     1,
		Vector: []float32{1, 0, 0},
		Payload: vector.Payload{
			Title:   "Only",
			Content: "only content",
		},
	})
	assert.NoError(err)

	matches, err = store.Search(ctx, []float32{1, 0, 0}, 5)
	assert.NoError(err)
	assert.Len(matches, 1)
	assert.Equal(uint64(1), matches[0].ID)
}

func TestDeleteRemovesPoint(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := newTestStore(t)

	err := store.Upsert(ctx, vector.Point{
		ID:     1,
		Vector: []float32{1, 0, 0},
		Payload: vector.Payload{
			Title:   "Doomed",
			Content: "to be deleted",
		},
	})
	assert.NoError(err)

	assert.NoError(store.Delete(ctx, 1))

	_, found, err := store.Fetch(ctx, 1)
	assert.NoError(err)
	assert.False(found)
}
