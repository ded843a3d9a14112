package tokens

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/firegate/firegate/internal/model"
	"github.com/firegate/firegate/internal/store"
)

// DefaultTTL is the advisory lifetime stamped into new token records.
const DefaultTTL = 7 * 24 * time.Hour

// ErrAmbiguousToken means more than one record carries the same digest. A
// digest collision can only come from corrupted or duplicated records, so the
// ledger refuses to pick one.
var ErrAmbiguousToken = errors.New("tokens: multiple records match digest")

// Ledger issues, resolves and revokes personal access tokens. Records flow
// through the document mapper like any other collection.
type Ledger struct {
	mapper *model.Mapper[*Token]
	now    func() time.Time
}

func NewLedger(st store.Store) *Ledger {
	return &Ledger{mapper: NewTokenMapper(st), now: time.Now}
}

// Digest is the stored form of a plaintext token: hex-encoded SHA-256 over
// the full plaintext. Comparisons always use all 64 hex characters.
func Digest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// Issue creates a token for owner and returns the plaintext exactly once.
// The plaintext (32 bytes of entropy, hex encoded) is never stored or logged;
// only its digest is.
func (l *Ledger) Issue(ctx context.Context, owner Owner, name string, abilities []string) (string, *Token, error) {
	if owner.OwnerID() == "" {
		return "", nil, fmt.Errorf("tokens: owner has no id")
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, fmt.Errorf("tokens: entropy: %w", err)
	}
	plaintext := hex.EncodeToString(buf)
	if len(abilities) == 0 {
		abilities = []string{"*"}
	}
	now := l.now().UTC()
	attrs := model.AttributesOf(
		model.Pair{Key: "name", Value: name},
		model.Pair{Key: "tokenable_type", Value: owner.OwnerType()},
		model.Pair{Key: "tokenable_id", Value: owner.OwnerID()},
		model.Pair{Key: "token", Value: Digest(plaintext)},
		model.Pair{Key: "abilities", Value: abilities},
		model.Pair{Key: "last_used_at", Value: nil},
		model.Pair{Key: "expires_at", Value: now.Add(DefaultTTL).Format(time.RFC3339Nano)},
		model.Pair{Key: "created_at", Value: now.Format(time.RFC3339Nano)},
		model.Pair{Key: "updated_at", Value: now.Format(time.RFC3339Nano)},
	)
	tok, err := l.mapper.Create(ctx, attrs)
	if err != nil {
		return "", nil, err
	}
	return plaintext, tok, nil
}

// FindByDigest resolves a digest to its record across all owners. Missing
// and expired records both come back nil; callers treat either as "no such
// token".
func (l *Ledger) FindByDigest(ctx context.Context, digest string) (*Token, error) {
	matches, err := l.mapper.Where(ctx, "token", digest)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		if matches[0].Expired(l.now()) {
			return nil, nil
		}
		return matches[0], nil
	default:
		return nil, ErrAmbiguousToken
	}
}

// Lookup hashes a presented plaintext and resolves it.
func (l *Ledger) Lookup(ctx context.Context, plaintext string) (*Token, error) {
	return l.FindByDigest(ctx, Digest(plaintext))
}

// Revoke deletes one record by id.
func (l *Ledger) Revoke(ctx context.Context, id string) error {
	return l.mapper.Destroy(ctx, id)
}

// RevokeAll deletes every record belonging to owner.
func (l *Ledger) RevokeAll(ctx context.Context, owner Owner) error {
	list, err := l.List(ctx, owner)
	if err != nil {
		return err
	}
	for _, tok := range list {
		if err := l.mapper.Destroy(ctx, tok.ID()); err != nil {
			return err
		}
	}
	return nil
}

// List returns owner's records in store order. The backend filters on the
// owner id; the owner type is checked here since the store only queries one
// field at a time.
func (l *Ledger) List(ctx context.Context, owner Owner) ([]*Token, error) {
	matches, err := l.mapper.Where(ctx, "tokenable_id", owner.OwnerID())
	if err != nil {
		return nil, err
	}
	out := make([]*Token, 0, len(matches))
	for _, tok := range matches {
		if tok.OwnerType() == owner.OwnerType() {
			out = append(out, tok)
		}
	}
	return out, nil
}
