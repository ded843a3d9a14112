package model

import (
	"context"
	"errors"

	"github.com/firegate/firegate/internal/store"
)

var (
	// ErrNotPersisted is returned when an operation needs a store id but the
	// document was never saved.
	ErrNotPersisted = errors.New("model: document is not persisted")
)

// Document is one record of a collection, backed (once persisted) by exactly
// one store path "<collection>/<id>". An empty id means the document only
// exists in memory. Attribute mutation is local until Save.
type Document struct {
	store      store.Store
	collection string
	id         string
	attrs      *Attributes
}

// NewDocument creates an unpersisted document bound to a collection. The
// store handle is explicit; documents never reach for shared state.
func NewDocument(st store.Store, collection string) *Document {
	return &Document{store: st, collection: collection, attrs: NewAttributes()}
}

func (d *Document) Collection() string { return d.collection }

// ID is the store key, or "" while unpersisted.
func (d *Document) ID() string { return d.id }

func (d *Document) Persisted() bool { return d.id != "" }

func (d *Document) Attributes() *Attributes { return d.attrs }

func (d *Document) Get(key string) (any, bool) { return d.attrs.Get(key) }

func (d *Document) GetString(key string) string { return d.attrs.GetString(key) }

func (d *Document) Set(key string, value any) { d.attrs.Set(key, value) }

// load binds the document to a persisted record. The id is mirrored into the
// attribute bag for convenience; the canonical id stays the one given here.
func (d *Document) load(id string, attrs *Attributes) {
	d.id = id
	d.attrs = attrs
	d.attrs.Set("id", id)
}

// Save persists the current attributes: a push when the document has no id
// yet (adopting the store-assigned id), a merge write otherwise.
func (d *Document) Save(ctx context.Context) error {
	if d.id == "" {
		id, err := d.store.Push(ctx, d.collection, d.attrs)
		if err != nil {
			return err
		}
		d.id = id
		d.attrs.Set("id", id)
		return nil
	}
	return d.store.Update(ctx, store.Path(d.collection, d.id), d.attrs.ToMap())
}

// Delete removes the backing record. Calling it on an unpersisted document is
// a caller bug and fails with ErrNotPersisted instead of silently doing
// nothing. The in-memory document keeps its state.
func (d *Document) Delete(ctx context.Context) error {
	if d.id == "" {
		return ErrNotPersisted
	}
	return d.store.Delete(ctx, store.Path(d.collection, d.id))
}

// ToMap copies the attributes into a plain map without touching the store.
func (d *Document) ToMap() map[string]any { return d.attrs.ToMap() }

func (d *Document) MarshalJSON() ([]byte, error) { return d.attrs.MarshalJSON() }
