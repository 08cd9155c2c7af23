package controllers

import (
	"net/http"

	"github.com/angelmondragon/babydeals-backend/api/middleware"
	"github.com/angelmondragon/babydeals-backend/api/responses"
	"github.com/angelmondragon/babydeals-backend/api/validators"
	"github.com/angelmondragon/babydeals-backend/internal/clicks"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
)

func recordClaim(svc clicks.Service, r *http.Request) (*clicks.ClaimResult, error) {
	id, err := validators.ParseUUIDParam(r, "offerId")
	if err != nil {
		return nil, err
	}
	// anonymous claims are logged without a user
	return svc.RecordClaim(r.Context(), id, middleware.PrincipalFromContext(r.Context()))
}

// ClaimOffer logs the click and returns the vendor destination as JSON.
func ClaimOffer(svc clicks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("click"))
			return
		}
		result, err := recordClaim(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ClaimRedirect logs the click and redirects the browser to the vendor.
func ClaimRedirect(svc clicks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("click"))
			return
		}
		result, err := recordClaim(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		http.Redirect(w, r, result.RedirectURL, http.StatusFound)
	}
}

func VendorClickStats(svc clicks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("click"))
			return
		}
		principal, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.VendorStats(r.Context(), principal)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
