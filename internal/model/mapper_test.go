package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/firegate/firegate/internal/store"
)

func testMapper(t *testing.T) (*Mapper[*Document], store.Store) {
	t.Helper()
	st := store.NewMemory()
	m := NewMapper(st, "posts", func(d *Document) *Document { return d })
	return m, st
}

func TestNewMapperPanicsOnEmptyCollection(t *testing.T) {
	require.Panics(t, func() {
		NewMapper(store.NewMemory(), "", func(d *Document) *Document { return d })
	})
	require.Panics(t, func() {
		NewMapper(nil, "posts", func(d *Document) *Document { return d })
	})
}

func TestMapperCreateFindRoundTrip(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	created, err := m.Create(ctx, AttributesOf(Pair{"title", "hello"}, Pair{"views", 3}))
	require.NoError(t, err)
	require.True(t, created.Persisted())
	require.NotEmpty(t, created.ID())

	found, err := m.Find(ctx, created.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Equal(t, created.ID(), found.ID())
	require.Equal(t, "hello", found.GetString("title"))
	// the id is mirrored into the attribute bag on load
	require.Equal(t, created.ID(), found.GetString("id"))
}

func TestMapperFindMissingIsNil(t *testing.T) {
	m, _ := testMapper(t)

	found, err := m.Find(context.Background(), "no-such-id")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestMapperAllEmptyCollection(t *testing.T) {
	m, _ := testMapper(t)

	docs, err := m.All(context.Background())
	require.NoError(t, err)
	require.NotNil(t, docs)
	require.Empty(t, docs)
}

func TestMapperAllStoreOrder(t *testing.T) {
	m, st := testMapper(t)
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, "posts/second", map[string]any{"n": 2}))
	require.NoError(t, st.Set(ctx, "posts/first", map[string]any{"n": 1}))

	docs, err := m.All(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, "second", docs[0].ID())
	require.Equal(t, "first", docs[1].ID())
}

func TestMapperWhere(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	_, err := m.Create(ctx, AttributesOf(Pair{"author", "a"}))
	require.NoError(t, err)
	_, err = m.Create(ctx, AttributesOf(Pair{"author", "b"}))
	require.NoError(t, err)
	_, err = m.Create(ctx, AttributesOf(Pair{"author", "a"}))
	require.NoError(t, err)

	docs, err := m.Where(ctx, "author", "a")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		require.Equal(t, "a", d.GetString("author"))
	}
}

func TestMapperUpdateMerges(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	created, err := m.Create(ctx, AttributesOf(Pair{"title", "old"}, Pair{"views", 1}))
	require.NoError(t, err)

	require.NoError(t, m.Update(ctx, created.ID(), map[string]any{"title": "new"}))

	found, err := m.Find(ctx, created.ID())
	require.NoError(t, err)
	require.Equal(t, "new", found.GetString("title"))
	_, ok := found.Get("views")
	require.True(t, ok)
}

func TestMapperDestroyThenFindNil(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	created, err := m.Create(ctx, AttributesOf(Pair{"title", "gone"}))
	require.NoError(t, err)
	require.NoError(t, m.Destroy(ctx, created.ID()))

	found, err := m.Find(ctx, created.ID())
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestDocumentSaveUnpersistedPushes(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	doc := m.New()
	require.False(t, doc.Persisted())
	doc.Set("title", "draft")

	require.NoError(t, doc.Save(ctx))
	require.True(t, doc.Persisted())
	require.Equal(t, doc.ID(), doc.GetString("id"))

	found, err := m.Find(ctx, doc.ID())
	require.NoError(t, err)
	require.Equal(t, "draft", found.GetString("title"))
}

func TestDocumentSavePersistedUpdates(t *testing.T) {
	m, _ := testMapper(t)
	ctx := context.Background()

	doc, err := m.Create(ctx, AttributesOf(Pair{"title", "v1"}))
	require.NoError(t, err)

	doc.Set("title", "v2")
	require.NoError(t, doc.Save(ctx))

	found, err := m.Find(ctx, doc.ID())
	require.NoError(t, err)
	require.Equal(t, "v2", found.GetString("title"))
}

func TestDocumentDeleteUnpersisted(t *testing.T) {
	m, _ := testMapper(t)

	doc := m.New()
	require.ErrorIs(t, doc.Delete(context.Background()), ErrNotPersisted)
}
