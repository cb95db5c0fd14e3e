package chi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AndiJegeni/cuemusic/internal/domain/identity"
	"github.com/AndiJegeni/cuemusic/internal/logger"
)

// Principal binds a bearer token to a user.
type Principal struct {
	Token   string
	UserID  string
	Email   string
	Premium bool
}

type tokenEntry struct {
	token []byte
	id    identity.Identity
}

// BearerAuthMiddleware returns a middleware that resolves Bearer tokens to identities.
// Users whose email is in adminEmails (case-insensitive) are admins.
// If no principal has a token, authentication is disabled: every request runs as the
// anonymous user with admin rights (local development).
func BearerAuthMiddleware(principals []Principal, adminEmails []string) func(http.Handler) http.Handler {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}

	entries := make([]tokenEntry, 0, len(principals))
	for _, p := range principals {
		if p.Token == "" || p.UserID == "" {
			continue
		}
		_, admin := admins[strings.ToLower(p.Email)]
		entries = append(entries, tokenEntry{
			token: []byte(p.Token),
			id:    identity.New(p.UserID, p.Email, p.Premium, admin),
		})
	}

	return func(next http.Handler) http.Handler {
		// Auth disabled, everyone is the local admin.
		if len(entries) == 0 {
			local := identity.New(identity.Anonymous.UserID(), "", false, true)
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), local)))
			})
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					ErrorCodeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			token := []byte(auth[len(bearerPrefix):])
			for _, e := range entries {
				if subtle.ConstantTimeCompare(token, e.token) == 1 {
					next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), e.id)))
					return
				}
			}
			writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid token")
		})
	}
}

// withIdentity attaches the caller and tags the request logger with its user ID.
func withIdentity(ctx context.Context, id identity.Identity) context.Context {
	ctx = identity.WithIdentity(ctx, id)
	return logger.With(ctx, zap.String("user_id", id.UserID()))
}

// RequireAdmin rejects callers without the admin role with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "authentication required")
			return
		}
		if !id.IsAdmin() {
			writeError(w, http.StatusForbidden, ErrorCodeForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
