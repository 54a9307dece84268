package community

import (
	"github.com/goliatone/go-router"
)

// RequireAuth authenticates the bearer token and stores the resolved
// user in both the router locals and the request context. The chain
// stops with a 401 envelope on any failure.
func RequireAuth(auther *Auther, contextKey string) router.MiddlewareFunc {
	if contextKey == "" {
		contextKey = "user"
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			user, err := auther.Authenticate(c.Context(), c.Header("Authorization"))
			if err != nil {
				return RespondError(c, err)
			}

			c.Locals(contextKey, user)
			c.SetContext(WithUserContext(c.Context(), user))

			return next(c)
		}
	}
}

// RequireRole allows the request through only when the authenticated
// user holds one of the given roles. Must run after RequireAuth.
func RequireRole(contextKey string, roles ...UserRole) router.MiddlewareFunc {
	if contextKey == "" {
		contextKey = "user"
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			user, _ := UserFromRouterContext(c, contextKey)
			if err := Authorize(user, roles...); err != nil {
				return RespondError(c, err)
			}

			return next(c)
		}
	}
}
