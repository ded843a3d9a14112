package auth

import (
	"context"

	"github.com/firegate/firegate/internal/sessions"
	"github.com/firegate/firegate/pkg/metrics"
)

// SessionKey is the session slot holding the authenticated user's id.
const SessionKey = "firebase_user_id"

// Guard resolves the current principal for one request, from either the
// session slot or an explicit SetUser (the token path). The resolution is
// cached for the guard's lifetime; guards are never shared across requests.
type Guard struct {
	provider *Provider
	sessions sessions.Store
	sid      string
	user     *User
	resolved bool
}

// NewGuard builds a request-scoped guard. An empty sid means the request
// carries no session; such a guard resolves to anonymous unless SetUser is
// called.
func NewGuard(provider *Provider, store sessions.Store, sid string) *Guard {
	return &Guard{provider: provider, sessions: store, sid: sid}
}

// User returns the cached principal, resolving it from the session slot on
// first use. A missing slot or a vanished user record resolves to nil, and
// that answer is cached too.
func (g *Guard) User(ctx context.Context) (*User, error) {
	if g.resolved {
		return g.user, nil
	}
	g.resolved = true
	if g.sid == "" {
		return nil, nil
	}
	id, ok, err := g.sessions.Get(ctx, g.sid, SessionKey)
	if err != nil {
		g.resolved = false
		return nil, err
	}
	if !ok || id == "" {
		return nil, nil
	}
	u, err := g.provider.RetrieveByID(ctx, id)
	if err != nil {
		g.resolved = false
		return nil, err
	}
	g.user = u
	return g.user, nil
}

// ID is the current principal's id, or "" when anonymous.
func (g *Guard) ID(ctx context.Context) (string, error) {
	u, err := g.User(ctx)
	if err != nil || u == nil {
		return "", err
	}
	return u.ID(), nil
}

func (g *Guard) Check(ctx context.Context) (bool, error) {
	u, err := g.User(ctx)
	return u != nil, err
}

func (g *Guard) Guest(ctx context.Context) (bool, error) {
	ok, err := g.Check(ctx)
	return !ok, err
}

// HasUser reports whether a principal is already cached, without resolving.
func (g *Guard) HasUser() bool { return g.user != nil }

// Validate checks a username/password pair against the user collection. On
// success the principal is cached and its id written to the session slot, so
// later requests in the session resolve without re-validating. On failure
// nothing changes. The caller cannot tell "no such user" from "wrong
// password".
func (g *Guard) Validate(ctx context.Context, username, password string) (bool, error) {
	u, err := g.provider.RetrieveByCredentials(ctx, username)
	if err != nil {
		return false, err
	}
	if !g.provider.ValidateCredentials(u, password) {
		metrics.AuthAttempts.WithLabelValues("rejected").Inc()
		return false, nil
	}
	g.SetUser(u)
	if g.sid != "" {
		if err := g.sessions.Put(ctx, g.sid, SessionKey, u.ID()); err != nil {
			return false, err
		}
	}
	metrics.AuthAttempts.WithLabelValues("accepted").Inc()
	return true, nil
}

// Attempt is Validate under its conventional name.
func (g *Guard) Attempt(ctx context.Context, username, password string) (bool, error) {
	return g.Validate(ctx, username, password)
}

// SetUser forces the cached principal without touching the session. The
// token middleware uses this: the token path is stateless and must not mint
// session state.
func (g *Guard) SetUser(u *User) {
	g.user = u
	g.resolved = true
}

// Logout drops the cached principal and clears the session slot.
func (g *Guard) Logout(ctx context.Context) error {
	g.user = nil
	g.resolved = true
	if g.sid == "" {
		return nil
	}
	return g.sessions.Forget(ctx, g.sid, SessionKey)
}

// Provider exposes the lookup collaborator for callers that resolve
// principals without session state.
func (g *Guard) Provider() *Provider { return g.provider }
