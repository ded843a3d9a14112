package tokens

import (
	"time"

	"github.com/firegate/firegate/internal/model"
	"github.com/firegate/firegate/internal/store"
)

// Collection is where personal access token records live in the remote
// store. The flat column layout below is load-bearing: existing stored
// tokens use exactly these names.
const Collection = "personal_access_tokens"

// Owner is anything tokens can be issued to.
type Owner interface {
	OwnerType() string
	OwnerID() string
}

// Token is one personal access token record. Only the SHA-256 digest of the
// plaintext is ever stored.
type Token struct {
	*model.Document
}

func NewTokenMapper(st store.Store) *model.Mapper[*Token] {
	return model.NewMapper(st, Collection, func(d *model.Document) *Token { return &Token{d} })
}

func (t *Token) Name() string      { return t.GetString("name") }
func (t *Token) OwnerType() string { return t.GetString("tokenable_type") }
func (t *Token) OwnerID() string   { return t.GetString("tokenable_id") }

// Digest is the hex SHA-256 of the plaintext token.
func (t *Token) Digest() string { return t.GetString("token") }

func (t *Token) Abilities() []string {
	v, ok := t.Get("abilities")
	if !ok {
		return nil
	}
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (t *Token) CreatedAt() time.Time { return t.timeAttr("created_at") }
func (t *Token) ExpiresAt() time.Time { return t.timeAttr("expires_at") }

// LastUsedAt is nil until something writes the column back; this service
// never does, it only preserves the value.
func (t *Token) LastUsedAt() *time.Time {
	ts := t.timeAttr("last_used_at")
	if ts.IsZero() {
		return nil
	}
	return &ts
}

// Expired reports whether the advisory expiry has passed. Records without an
// expiry never expire.
func (t *Token) Expired(now time.Time) bool {
	exp := t.ExpiresAt()
	return !exp.IsZero() && now.After(exp)
}

func (t *Token) timeAttr(key string) time.Time {
	s := t.GetString(key)
	if s == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return ts
}
