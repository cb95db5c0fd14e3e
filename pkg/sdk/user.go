package cuemusic

import (
	"context"

	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
)

// User is the principal an operation runs on behalf of.
type User struct {
	ID      string
	Email   string
	Premium bool
	Admin   bool
}

// ContextWithUser attaches u to ctx. Operations on a context without a user
// run as the shared "anonymous" user.
func ContextWithUser(ctx context.Context, u User) context.Context {
	return identity.WithIdentity(ctx, identity.New(u.ID, u.Email, u.Premium, u.Admin))
}

func userFromContext(ctx context.Context) identity.Identity {
	id, ok := identity.FromContext(ctx)
	if !ok {
		return identity.Anonymous
	}
	return id
}
