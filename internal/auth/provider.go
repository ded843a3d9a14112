package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/firegate/firegate/internal/model"
	"github.com/firegate/firegate/internal/tokens"
)

// Provider looks principals up for the guard and the token middleware. It is
// the only component that touches password hashes.
type Provider struct {
	users  *model.Mapper[*User]
	ledger *tokens.Ledger
}

func NewProvider(users *model.Mapper[*User], ledger *tokens.Ledger) *Provider {
	return &Provider{users: users, ledger: ledger}
}

// RetrieveByID loads a user by store id; nil when absent.
func (p *Provider) RetrieveByID(ctx context.Context, id string) (*User, error) {
	return p.users.Find(ctx, id)
}

// RetrieveByCredentials loads the user matching a username. When the backend
// reports several, the first in store order wins; the store defines that
// order, no secondary sort is applied.
func (p *Provider) RetrieveByCredentials(ctx context.Context, username string) (*User, error) {
	matches, err := p.users.Where(ctx, "username", username)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// ValidateCredentials verifies a plaintext password against the user's
// stored bcrypt hash. bcrypt's comparison is constant-time; plain string
// equality is not an accepted fallback.
func (p *Provider) ValidateCredentials(u *User, password string) bool {
	if u == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)) == nil
}

// RetrieveByToken resolves a plaintext bearer token to its owning user via
// the ledger digest lookup; nil when the token or its owner is gone.
func (p *Provider) RetrieveByToken(ctx context.Context, plaintext string) (*User, error) {
	tok, err := p.ledger.Lookup(ctx, plaintext)
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	return p.RetrieveByID(ctx, tok.OwnerID())
}

// HashPassword produces the stored form of a password.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
