package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryGetAbsent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	raw, err := m.Get(ctx, "nothing/here")
	require.NoError(t, err)
	require.Nil(t, raw)

	raw, err = m.Get(ctx, "nothing")
	require.NoError(t, err)
	require.Nil(t, raw)
}

func TestMemorySetGetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "users/42", map[string]any{"username": "alice"}))

	raw, err := m.Get(ctx, "users/42")
	require.NoError(t, err)
	require.JSONEq(t, `{"username":"alice"}`, string(raw))

	require.NoError(t, m.Delete(ctx, "users/42"))
	raw, err = m.Get(ctx, "users/42")
	require.NoError(t, err)
	require.Nil(t, raw)

	// deleting again is a no-op
	require.NoError(t, m.Delete(ctx, "users/42"))
}

func TestMemoryPushAssignsUniqueIDs(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	id1, err := m.Push(ctx, "posts", map[string]any{"title": "one"})
	require.NoError(t, err)
	id2, err := m.Push(ctx, "posts", map[string]any{"title": "two"})
	require.NoError(t, err)
	require.NotEmpty(t, id1)
	require.NotEqual(t, id1, id2)
}

func TestMemoryCollectionKeepsInsertionOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "posts/c", map[string]any{"n": 1}))
	require.NoError(t, m.Set(ctx, "posts/a", map[string]any{"n": 2}))
	require.NoError(t, m.Set(ctx, "posts/b", map[string]any{"n": 3}))

	raw, err := m.Get(ctx, "posts")
	require.NoError(t, err)
	entries, err := DecodeEntries(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a", "b"}, []string{entries[0].ID, entries[1].ID, entries[2].ID})
}

func TestMemoryUpdateMerges(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "users/1", map[string]any{"username": "bob", "role": "user"}))
	require.NoError(t, m.Update(ctx, "users/1", map[string]any{"role": "admin", "active": true}))

	raw, err := m.Get(ctx, "users/1")
	require.NoError(t, err)
	require.JSONEq(t, `{"username":"bob","role":"admin","active":true}`, string(raw))
}

func TestMemoryUpdateCreatesWhenAbsent(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Update(ctx, "users/9", map[string]any{"username": "eve"}))
	raw, err := m.Get(ctx, "users/9")
	require.NoError(t, err)
	require.JSONEq(t, `{"username":"eve"}`, string(raw))
}

func TestMemoryQueryEqual(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "posts/p1", map[string]any{"author": "42", "title": "a"}))
	require.NoError(t, m.Set(ctx, "posts/p2", map[string]any{"author": "7", "title": "b"}))
	require.NoError(t, m.Set(ctx, "posts/p3", map[string]any{"author": "42", "title": "c"}))

	entries, err := m.QueryEqual(ctx, "posts", "author", "42")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "p1", entries[0].ID)
	require.Equal(t, "p3", entries[1].ID)

	entries, err = m.QueryEqual(ctx, "posts", "author", "nobody")
	require.NoError(t, err)
	require.Empty(t, entries)

	entries, err = m.QueryEqual(ctx, "missing", "author", "42")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestMemoryQueryEqualNonStringValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "items/i1", map[string]any{"count": 3}))
	require.NoError(t, m.Set(ctx, "items/i2", map[string]any{"count": 4}))

	entries, err := m.QueryEqual(ctx, "items", "count", 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "i1", entries[0].ID)
}

func TestMemoryRawValuesSurviveVerbatim(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "docs/d1", json.RawMessage(`{"z":1,"a":2}`)))
	raw, err := m.Get(ctx, "docs/d1")
	require.NoError(t, err)
	entries, err := DecodeEntries(raw)
	require.NoError(t, err)
	require.Equal(t, "z", entries[0].ID)
	require.Equal(t, "a", entries[1].ID)
}
