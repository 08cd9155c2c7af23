package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/babydeals-backend/api/responses"
	"github.com/angelmondragon/babydeals-backend/api/validators"
	"github.com/angelmondragon/babydeals-backend/internal/moderation"
	"github.com/angelmondragon/babydeals-backend/internal/offers"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
)

// AdminModerationQueue lists offers in one moderation state, pending by default.
func AdminModerationQueue(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("moderation"))
			return
		}

		page, err := parsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := enums.OfferStatusPending
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err = enums.ParseOfferStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
		}

		result, err := svc.Queue(r.Context(), status, page.Limit, page.Cursor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type moderationAction func(svc moderation.Service, r *http.Request) (*offers.OfferDTO, error)

func moderationHandler(svc moderation.Service, logg *logger.Logger, action moderationAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("moderation"))
			return
		}
		offer, err := action(svc, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, offer)
	}
}

func AdminApproveOffer(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return moderationHandler(svc, logg, func(svc moderation.Service, r *http.Request) (*offers.OfferDTO, error) {
		actor, err := requirePrincipal(r)
		if err != nil {
			return nil, err
		}
		id, err := validators.ParseUUIDParam(r, "offerId")
		if err != nil {
			return nil, err
		}
		return svc.Approve(r.Context(), actor, id)
	})
}

func AdminRejectOffer(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return moderationHandler(svc, logg, func(svc moderation.Service, r *http.Request) (*offers.OfferDTO, error) {
		actor, err := requirePrincipal(r)
		if err != nil {
			return nil, err
		}
		id, err := validators.ParseUUIDParam(r, "offerId")
		if err != nil {
			return nil, err
		}
		return svc.Reject(r.Context(), actor, id)
	})
}

// AdminSetFeatured flips the featured flag on an approved offer.
func AdminSetFeatured(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return moderationHandler(svc, logg, func(svc moderation.Service, r *http.Request) (*offers.OfferDTO, error) {
		actor, err := requirePrincipal(r)
		if err != nil {
			return nil, err
		}
		id, err := validators.ParseUUIDParam(r, "offerId")
		if err != nil {
			return nil, err
		}
		var body moderation.FeaturedInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return nil, err
		}
		return svc.SetFeatured(r.Context(), actor, id, *body.Featured)
	})
}

// AdminDeleteOffer removes an offer from the marketplace.
func AdminDeleteOffer(svc moderation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("moderation"))
			return
		}
		actor, err := requirePrincipal(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseUUIDParam(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), actor, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
