package auth

import (
	"context"

	"github.com/mind-engage/quizdoc/internal/rbac"
)

// Principal is the caller a request runs on behalf of.
type Principal struct {
	Subject string
	Role    string
}

type principalKey struct{}

// WithPrincipal attaches p and hands its role to the rbac checks.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = rbac.WithRole(ctx, p.Role)
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Actor names the caller in audit events; "anonymous" without a principal.
func Actor(ctx context.Context) string {
	if p, ok := PrincipalFrom(ctx); ok && p.Subject != "" {
		return p.Subject
	}
	return "anonymous"
}
