package rbac

import (
	"context"
	"net/http"
)

type roleKey struct{}

// WithRole attaches the caller's role. Authentication middleware calls it
// before any Require check runs.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}

// Require lets a request through only when its role holds every perm. A nil
// Checker enforces the built-in policy.
func (c *Checker) Require(perms ...string) func(http.Handler) http.Handler {
	if c == nil {
		c = Builtin()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" {
				http.Error(w, "forbidden: no role", http.StatusForbidden)
				return
			}
			if p := c.Missing(role, perms...); p != "" {
				http.Error(w, "forbidden: requires "+p, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
