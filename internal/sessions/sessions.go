package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// Store is the server-side session collaborator: a string key/value slot set
// per session id. Absent keys are reported via the ok flag, never as errors.
type Store interface {
	Get(ctx context.Context, sid, key string) (value string, ok bool, err error)
	Put(ctx context.Context, sid, key, value string) error
	Forget(ctx context.Context, sid, key string) error
}

// NewID mints a session id: 32 bytes of entropy, hex encoded.
func NewID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
