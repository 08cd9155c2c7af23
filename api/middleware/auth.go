package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/api/responses"
	"github.com/angelmondragon/babydeals-backend/internal/identity"
	pkgAuth "github.com/angelmondragon/babydeals-backend/pkg/auth"
	"github.com/angelmondragon/babydeals-backend/pkg/auth/session"
	"github.com/angelmondragon/babydeals-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
)

// PrincipalResolver reloads the principal from storage so deactivated
// accounts and suspended vendors lose access before their token expires.
type PrincipalResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID) (identity.Principal, error)
}

// Auth validates a bearer token and seeds the request context with the
// principal. A nil resolver trusts the token claims.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, resolver PrincipalResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			ctx, err := authenticate(r.Context(), cfg, verifier, resolver, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the principal when a bearer token is presented and
// lets anonymous requests through untouched.
func OptionalAuth(cfg config.JWTConfig, verifier session.AccessSessionChecker, resolver PrincipalResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx, err := authenticate(r.Context(), cfg, verifier, resolver, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(ctx context.Context, cfg config.JWTConfig, verifier session.AccessSessionChecker, resolver PrincipalResolver, logg *logger.Logger, token string) (context.Context, error) {
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if verifier != nil {
		ok, err := verifier.HasSession(ctx, claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
	}

	var principal identity.Principal
	if resolver != nil {
		principal, err = resolver.Resolve(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
	} else {
		principal, err = identity.FromClaims(claims)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
		}
	}

	ctx = WithPrincipal(ctx, principal)
	if logg != nil {
		ctx = logg.WithUserID(ctx, principal.Subject().String())
		ctx = logg.WithPrincipalKind(ctx, string(principal.Kind()))
		if v, ok := principal.(identity.Vendor); ok {
			ctx = logg.WithVendorID(ctx, v.VendorID.String())
		}
	}
	return ctx, nil
}

func bearerToken(r *http.Request) string {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}
