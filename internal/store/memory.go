package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used for tests and for running the service
// without a remote backend. Children keep insertion order per collection,
// mirroring how the remote backends report them.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]*memCollection
}

type memCollection struct {
	order []string
	docs  map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]*memCollection)}
}

func (m *Memory) collection(name string) *memCollection {
	c, ok := m.collections[name]
	if !ok {
		c = &memCollection{docs: make(map[string]json.RawMessage)}
		m.collections[name] = c
	}
	return c
}

func normalize(value any) (json.RawMessage, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("memory store: encode value: %w", err)
	}
	return b, nil
}

func (m *Memory) Get(ctx context.Context, path string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	col, id := SplitPath(path)
	c, ok := m.collections[col]
	if !ok {
		return nil, nil
	}
	if id == "" {
		entries := make([]Entry, 0, len(c.order))
		for _, cid := range c.order {
			entries = append(entries, Entry{ID: cid, Value: c.docs[cid]})
		}
		if len(entries) == 0 {
			return nil, nil
		}
		return EncodeEntries(entries), nil
	}
	raw, ok := c.docs[id]
	if !ok {
		return nil, nil
	}
	return raw, nil
}

func (m *Memory) Set(ctx context.Context, path string, value any) error {
	raw, err := normalize(value)
	if err != nil {
		return err
	}
	col, id := SplitPath(path)
	if id == "" {
		return fmt.Errorf("memory store: set requires a %q path", "collection/id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(col).put(id, raw)
	return nil
}

func (m *Memory) Update(ctx context.Context, path string, partial map[string]any) error {
	col, id := SplitPath(path)
	if id == "" {
		return fmt.Errorf("memory store: update requires a %q path", "collection/id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.collection(col)
	existing, err := DecodeEntries(c.docs[id])
	if err != nil {
		return err
	}
	// merge partial keys in sorted order so results are deterministic
	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		raw, err := normalize(partial[k])
		if err != nil {
			return err
		}
		replaced := false
		for i := range existing {
			if existing[i].ID == k {
				existing[i].Value = raw
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, Entry{ID: k, Value: raw})
		}
	}
	c.put(id, EncodeEntries(existing))
	return nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	col, id := SplitPath(path)
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.collections[col]
	if !ok {
		return nil
	}
	if id == "" {
		delete(m.collections, col)
		return nil
	}
	if _, ok := c.docs[id]; !ok {
		return nil
	}
	delete(c.docs, id)
	for i, cid := range c.order {
		if cid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) Push(ctx context.Context, collection string, value any) (string, error) {
	raw, err := normalize(value)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(collection).put(id, raw)
	return id, nil
}

func (m *Memory) QueryEqual(ctx context.Context, collection, field string, value any) ([]Entry, error) {
	want, err := normalize(value)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.collections[collection]
	if !ok {
		return []Entry{}, nil
	}
	out := []Entry{}
	for _, id := range c.order {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(c.docs[id], &fields); err != nil {
			continue // non-object child, cannot match a field query
		}
		got, ok := fields[field]
		if !ok {
			continue
		}
		if bytes.Equal(compact(got), compact(want)) {
			out = append(out, Entry{ID: id, Value: c.docs[id]})
		}
	}
	return out, nil
}

func (c *memCollection) put(id string, raw json.RawMessage) {
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = raw
}

func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
