package store

import (
	"context"
	"encoding/json"

	"github.com/firegate/firegate/pkg/metrics"
)

// Instrument wraps a backend so every operation increments the per-op
// store counter under the given backend label.
func Instrument(next Store, backend string) Store {
	return &instrumented{next: next, backend: backend}
}

type instrumented struct {
	next    Store
	backend string
}

func (s *instrumented) count(op string) {
	metrics.StoreOps.WithLabelValues(s.backend, op).Inc()
}

func (s *instrumented) Get(ctx context.Context, path string) (json.RawMessage, error) {
	s.count("get")
	return s.next.Get(ctx, path)
}

func (s *instrumented) Set(ctx context.Context, path string, value any) error {
	s.count("set")
	return s.next.Set(ctx, path, value)
}

func (s *instrumented) Update(ctx context.Context, path string, partial map[string]any) error {
	s.count("update")
	return s.next.Update(ctx, path, partial)
}

func (s *instrumented) Delete(ctx context.Context, path string) error {
	s.count("delete")
	return s.next.Delete(ctx, path)
}

func (s *instrumented) Push(ctx context.Context, collection string, value any) (string, error) {
	s.count("push")
	return s.next.Push(ctx, collection, value)
}

func (s *instrumented) QueryEqual(ctx context.Context, collection, field string, value any) ([]Entry, error) {
	s.count("query")
	return s.next.QueryEqual(ctx, collection, field, value)
}
