package sessions

import (
	"context"
	"sync"
)

// MemoryStore is an in-process session store for tests and single-node dev
// runs. No TTL: slots live until forgotten.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]string)}
}

func (m *MemoryStore) slot(sid, key string) string {
	return sid + "\x00" + key
}

func (m *MemoryStore) Get(ctx context.Context, sid, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[m.slot(sid, key)]
	return v, ok, nil
}

func (m *MemoryStore) Put(ctx context.Context, sid, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[m.slot(sid, key)] = value
	return nil
}

func (m *MemoryStore) Forget(ctx context.Context, sid, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, m.slot(sid, key))
	return nil
}
