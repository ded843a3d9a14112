package auth

import (
	"github.com/firegate/firegate/internal/model"
	"github.com/firegate/firegate/internal/store"
)

// UsersCollection is where user records live in the remote store.
const UsersCollection = "users"

// User is the authenticatable principal: a document with at least "username"
// and "password" (bcrypt hash) attributes.
type User struct {
	*model.Document
}

func NewUserMapper(st store.Store) *model.Mapper[*User] {
	return model.NewMapper(st, UsersCollection, func(d *model.Document) *User { return &User{d} })
}

func (u *User) Username() string { return u.GetString("username") }

// PasswordHash is the stored bcrypt hash, never the plaintext.
func (u *User) PasswordHash() string { return u.GetString("password") }

// OwnerType / OwnerID make users token owners.
func (u *User) OwnerType() string { return UsersCollection }
func (u *User) OwnerID() string   { return u.ID() }

// Public returns the attributes safe to hand to clients: everything except
// the password hash.
func (u *User) Public() map[string]any {
	m := u.ToMap()
	delete(m, "password")
	return m
}
