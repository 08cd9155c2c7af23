package middleware

import (
	"context"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
)

type contextKey string

const ctxPrincipal contextKey = "principal"

// WithPrincipal places the authenticated principal on the context.
func WithPrincipal(ctx context.Context, principal identity.Principal) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxPrincipal, principal)
}

// PrincipalFromContext returns the principal set by Auth, or nil for
// anonymous requests.
func PrincipalFromContext(ctx context.Context) identity.Principal {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxPrincipal).(identity.Principal); ok {
		return v
	}
	return nil
}

// UserIDFromContext returns the principal's user id as a string.
func UserIDFromContext(ctx context.Context) string {
	if p := PrincipalFromContext(ctx); p != nil {
		return p.Subject().String()
	}
	return ""
}
