// Package identity carries the authenticated principal of a request.
package identity

import "context"

// Anonymous is the principal used when authentication is disabled.
var Anonymous = Identity{userID: "anonymous"}

// Identity is the caller resolved by the auth middleware.
type Identity struct {
	userID  string
	email   string
	premium bool
	admin   bool
}

// New creates an Identity.
func New(userID, email string, premium, admin bool) Identity {
	return Identity{userID: userID, email: email, premium: premium, admin: admin}
}

// UserID returns the user identifier.
func (i Identity) UserID() string { return i.userID }

// Email returns the user email (may be empty).
func (i Identity) Email() string { return i.email }

// IsPremium reports whether the user bypasses the search quota.
func (i Identity) IsPremium() bool { return i.premium }

// IsAdmin reports whether the user may create sounds.
func (i Identity) IsAdmin() bool { return i.admin }

type ctxKey struct{}

// WithIdentity stores the identity in the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the identity. ok is false when the request is unauthenticated.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
