package model

import (
	"context"
	"fmt"
)

// BelongsToOne resolves the record of the related mapper whose id is stored
// in doc's foreignKey attribute. An absent or empty foreign key resolves to
// the zero R without touching the store. Nothing is cached; every call
// re-reads.
func BelongsToOne[R any](ctx context.Context, doc *Document, related *Mapper[R], foreignKey string) (R, error) {
	var zero R
	v, ok := doc.Get(foreignKey)
	if !ok || v == nil {
		return zero, nil
	}
	id, ok := v.(string)
	if !ok {
		return zero, fmt.Errorf("model: foreign key %q of %s is %T, want string", foreignKey, doc.Collection(), v)
	}
	if id == "" {
		return zero, nil
	}
	return related.Find(ctx, id)
}

// HasMany resolves every record of the related mapper whose foreignKey
// attribute equals doc's id, in store order. The owning document must be
// persisted.
func HasMany[R any](ctx context.Context, doc *Document, related *Mapper[R], foreignKey string) ([]R, error) {
	if !doc.Persisted() {
		return nil, ErrNotPersisted
	}
	return related.Where(ctx, foreignKey, doc.ID())
}
