package controllers

import (
	"net/http"

	"github.com/angelmondragon/babydeals-backend/api/middleware"
	"github.com/angelmondragon/babydeals-backend/api/validators"
	"github.com/angelmondragon/babydeals-backend/internal/identity"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

func requirePrincipal(r *http.Request) (identity.Principal, error) {
	principal := middleware.PrincipalFromContext(r.Context())
	if principal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return principal, nil
}

func serviceUnavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}

type pageParams struct {
	Limit  int
	Cursor string
}

func parsePage(r *http.Request) (pageParams, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pageParams{}, err
	}
	return pageParams{Limit: limit, Cursor: r.URL.Query().Get("cursor")}, nil
}
