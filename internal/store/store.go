package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is one child of a collection: the store-assigned id and the raw
// JSON value stored under it. Slices of entries keep the order the backend
// returned them in.
type Entry struct {
	ID    string
	Value json.RawMessage
}

// Store is the remote document store contract. Paths are either a bare
// collection name or "<collection>/<id>". Values are JSON objects. Reads of
// missing paths return nil, never an error; errors mean the backend itself
// failed and are propagated as-is.
type Store interface {
	// Get returns the raw JSON at path, or nil when the path is empty/absent.
	Get(ctx context.Context, path string) (json.RawMessage, error)
	// Set replaces the value at path.
	Set(ctx context.Context, path string, value any) error
	// Update merges the partial object into the value at path, creating it
	// when absent. Only top-level keys are merged.
	Update(ctx context.Context, path string, partial map[string]any) error
	// Delete removes the value at path. Deleting an absent path is a no-op.
	Delete(ctx context.Context, path string) error
	// Push inserts value under collection with a backend-assigned id and
	// returns that id.
	Push(ctx context.Context, collection string, value any) (string, error)
	// QueryEqual returns every child of collection whose top-level field
	// equals value (JSON equality), in backend order.
	QueryEqual(ctx context.Context, collection, field string, value any) ([]Entry, error)
}

// Path joins a collection name and id into a store path.
func Path(collection, id string) string {
	return collection + "/" + id
}

// SplitPath splits a path into collection and optional id.
func SplitPath(path string) (collection, id string) {
	collection, id, _ = strings.Cut(path, "/")
	return collection, id
}

// IsEmptyValue reports whether a raw read represents "nothing stored":
// a nil/blank read, JSON null, or an empty object. The backends collapse
// all three to the same answer so callers cannot (and need not) tell
// "not found" from "found but empty".
func IsEmptyValue(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return true
	}
	if t[0] == '{' {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(t, &probe); err == nil && len(probe) == 0 {
			return true
		}
	}
	return false
}

// DecodeEntries decodes a raw JSON object of id→value children into entries,
// preserving the key order of the document. A nil/empty raw decodes to no
// entries.
func DecodeEntries(raw json.RawMessage) ([]Entry, error) {
	if IsEmptyValue(raw) {
		return []Entry{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode entries: expected object, got %v", tok)
	}
	var out []Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode entries: %w", err)
		}
		key := keyTok.(string)
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("decode entries: child %q: %w", key, err)
		}
		out = append(out, Entry{ID: key, Value: val})
	}
	return out, nil
}

// EncodeEntries is the inverse of DecodeEntries: it renders entries as a
// JSON object keyed by id, in slice order.
func EncodeEntries(entries []Entry) json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(e.ID)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(e.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}
