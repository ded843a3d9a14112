package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attributes is the ordered attribute bag of a Document. Keys keep the order
// they were first set in (or the order of the JSON document they were decoded
// from); setting an existing key updates it in place.
type Attributes struct {
	keys   []string
	values map[string]any
}

func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string]any)}
}

// Pair is a key/value literal for building ordered attribute bags in code.
type Pair struct {
	Key   string
	Value any
}

func AttributesOf(pairs ...Pair) *Attributes {
	a := NewAttributes()
	for _, p := range pairs {
		a.Set(p.Key, p.Value)
	}
	return a
}

func (a *Attributes) Len() int { return len(a.keys) }

// Keys returns the attribute names in order. The slice is a copy.
func (a *Attributes) Keys() []string {
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

func (a *Attributes) Has(key string) bool {
	_, ok := a.values[key]
	return ok
}

func (a *Attributes) Get(key string) (any, bool) {
	v, ok := a.values[key]
	return v, ok
}

// GetString returns the attribute as a string, or "" when absent or not a
// string.
func (a *Attributes) GetString(key string) string {
	if s, ok := a.values[key].(string); ok {
		return s
	}
	return ""
}

func (a *Attributes) Set(key string, value any) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = value
}

func (a *Attributes) Delete(key string) {
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i], a.keys[i+1:]...)
			break
		}
	}
}

// ToMap copies the bag into a plain map. Order is lost; use Keys when it
// matters.
func (a *Attributes) ToMap() map[string]any {
	out := make(map[string]any, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

func (a *Attributes) Clone() *Attributes {
	c := NewAttributes()
	for _, k := range a.keys {
		c.Set(k, a.values[k])
	}
	return c
}

func (a *Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range a.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(a.values[k])
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *Attributes) UnmarshalJSON(data []byte) error {
	if a.values == nil {
		a.values = make(map[string]any)
	}
	a.keys = a.keys[:0]
	for k := range a.values {
		delete(a.values, k)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attributes: expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key := keyTok.(string)
		var val any
		if err := dec.Decode(&val); err != nil {
			return fmt.Errorf("attributes: key %q: %w", key, err)
		}
		a.Set(key, val)
	}
	return nil
}
