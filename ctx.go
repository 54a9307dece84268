package community

import (
	"context"

	"github.com/goliatone/go-router"
)

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// AuthenticatedUser is the per-request projection of an identity after a
// successful token verification. It never carries the password hash.
type AuthenticatedUser struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// WithUserContext sets the AuthenticatedUser in the given context
func WithUserContext(ctx context.Context, user *AuthenticatedUser) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext finds the authenticated user from the context.
func UserFromContext(ctx context.Context) (*AuthenticatedUser, bool) {
	raw, ok := ctx.Value(userCtxKey).(*AuthenticatedUser)
	return raw, ok
}

// UserFromRouterContext extracts the AuthenticatedUser stored by the
// RequireAuth middleware. key defaults to the middleware's context key.
func UserFromRouterContext(ctx router.Context, key string) (*AuthenticatedUser, bool) {
	if key == "" {
		key = "user"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*AuthenticatedUser)
	return user, ok
}
