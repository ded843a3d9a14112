package model

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/firegate/firegate/internal/store"
)

// Factory wraps a loaded Document into the concrete model type. M is
// expected to be a pointer type so a zero M reads as "no result".
type Factory[M any] func(*Document) M

// Mapper binds one model type to one collection of the remote store and
// translates every operation into a single store primitive. It holds no
// per-request state and is safe to share.
type Mapper[M any] struct {
	store      store.Store
	collection string
	factory    Factory[M]
}

// NewMapper builds a mapper for collection. An empty collection name is a
// programming error and panics immediately rather than producing a mapper
// that addresses the store root.
func NewMapper[M any](st store.Store, collection string, factory Factory[M]) *Mapper[M] {
	if collection == "" {
		panic("model: mapper requires a collection name")
	}
	if st == nil {
		panic("model: mapper requires a store")
	}
	return &Mapper[M]{store: st, collection: collection, factory: factory}
}

func (m *Mapper[M]) Collection() string { return m.collection }

// New returns a fresh unpersisted model.
func (m *Mapper[M]) New() M {
	return m.factory(NewDocument(m.store, m.collection))
}

func (m *Mapper[M]) wrap(id string, raw json.RawMessage) (M, error) {
	var zero M
	attrs := NewAttributes()
	if !store.IsEmptyValue(raw) {
		if err := json.Unmarshal(raw, attrs); err != nil {
			return zero, fmt.Errorf("%s/%s: decode attributes: %w", m.collection, id, err)
		}
	}
	doc := NewDocument(m.store, m.collection)
	doc.load(id, attrs)
	return m.factory(doc), nil
}

func (m *Mapper[M]) wrapEntries(entries []store.Entry) ([]M, error) {
	out := make([]M, 0, len(entries))
	for _, e := range entries {
		mod, err := m.wrap(e.ID, e.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, mod)
	}
	return out, nil
}

// All fetches the whole collection, in store order. An absent collection is
// an empty result, not an error.
func (m *Mapper[M]) All(ctx context.Context) ([]M, error) {
	raw, err := m.store.Get(ctx, m.collection)
	if err != nil {
		return nil, err
	}
	entries, err := store.DecodeEntries(raw)
	if err != nil {
		return nil, err
	}
	return m.wrapEntries(entries)
}

// Find loads one record by id. Missing and empty records both come back as
// the zero M with a nil error; the store cannot tell the two apart.
func (m *Mapper[M]) Find(ctx context.Context, id string) (M, error) {
	var zero M
	raw, err := m.store.Get(ctx, store.Path(m.collection, id))
	if err != nil {
		return zero, err
	}
	if store.IsEmptyValue(raw) {
		return zero, nil
	}
	return m.wrap(id, raw)
}

// Where returns the records whose field equals value, in store order. The
// filtering happens in the backend.
func (m *Mapper[M]) Where(ctx context.Context, field string, value any) ([]M, error) {
	entries, err := m.store.QueryEqual(ctx, m.collection, field, value)
	if err != nil {
		return nil, err
	}
	return m.wrapEntries(entries)
}

// Create pushes a new record and returns the persisted model carrying the
// store-assigned id. A nil attrs creates an empty record.
func (m *Mapper[M]) Create(ctx context.Context, attrs *Attributes) (M, error) {
	var zero M
	if attrs == nil {
		attrs = NewAttributes()
	}
	id, err := m.store.Push(ctx, m.collection, attrs)
	if err != nil {
		return zero, err
	}
	doc := NewDocument(m.store, m.collection)
	doc.load(id, attrs.Clone())
	return m.factory(doc), nil
}

// Update merges the partial attributes into the record at id. It neither
// requires nor returns a full document.
func (m *Mapper[M]) Update(ctx context.Context, id string, partial map[string]any) error {
	return m.store.Update(ctx, store.Path(m.collection, id), partial)
}

// Destroy removes the record at id.
func (m *Mapper[M]) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, store.Path(m.collection, id))
}
