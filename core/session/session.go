// Package session owns the authenticated-identity lifecycle: logging in and
// out, registration, restoring identity from persisted client storage, and the
// access decisions that gate navigation on the current identity's role.
package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/user"
)

// StorageKey is the single well-known key the session blob lives under in
// client-local storage. Absence means "logged out".
const StorageKey = "chuo_session"

// Session is the client-held, credential-free projection of a user for the
// duration of a visit. It never contains the password hash.
type Session struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   user.Role `json:"role"`
	Avatar string    `json:"avatar,omitempty"`
}

// New projects a user into a Session.
func New(usr user.User) Session {
	return Session{
		ID:     usr.ID,
		Name:   usr.Name,
		Email:  usr.Email,
		Role:   usr.Role,
		Avatar: usr.Avatar,
	}
}

// Valid reports whether a restored session holds the minimum it needs to be
// trusted as a logged-in identity.
func (s Session) Valid() bool {
	return s.ID != "" && s.Email != "" && s.Role.Valid()
}

// ErrNoSession is returned by Storage.Load when no blob is stored.
var ErrNoSession = errors.New("no stored session")

// Storage is a scoped key-value resource holding the persisted session blob
// under StorageKey. Implementations: a local file for the terminal client, a
// cookie for the HTTP layer, memory for tests.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
	Delete(ctx context.Context) error
}

// Navigator receives the navigation side effects of login/logout (the
// role-specific landing view, the public landing view). Implementations
// range from an HTTP redirect to a screen switch in the terminal client.
type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// NopNavigator ignores navigation; useful when the caller handles it itself.
var NopNavigator = NavigatorFunc(func(string) {})
