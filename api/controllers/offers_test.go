package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/offers"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

type stubOfferService struct {
	catalogFn func(ctx context.Context, q offers.CatalogQuery) (*offers.OfferPage, error)
	getFn     func(ctx context.Context, id uuid.UUID) (*offers.OfferDTO, error)
	createFn  func(ctx context.Context, p identity.Principal, input offers.OfferInput) (*offers.OfferDTO, error)
	listFn    func(ctx context.Context, p identity.Principal, status *enums.OfferStatus, limit int, cursor string) (*offers.OfferPage, error)
	cloneFn   func(ctx context.Context, p identity.Principal, id uuid.UUID) (*offers.OfferDTO, error)
}

func (s stubOfferService) Catalog(ctx context.Context, q offers.CatalogQuery) (*offers.OfferPage, error) {
	return s.catalogFn(ctx, q)
}

func (s stubOfferService) Get(ctx context.Context, id uuid.UUID) (*offers.OfferDTO, error) {
	return s.getFn(ctx, id)
}

func (s stubOfferService) Create(ctx context.Context, p identity.Principal, input offers.OfferInput) (*offers.OfferDTO, error) {
	return s.createFn(ctx, p, input)
}

func (s stubOfferService) ListMine(ctx context.Context, p identity.Principal, status *enums.OfferStatus, limit int, cursor string) (*offers.OfferPage, error) {
	return s.listFn(ctx, p, status, limit, cursor)
}

func (s stubOfferService) GetMine(ctx context.Context, p identity.Principal, id uuid.UUID) (*offers.OfferDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
}

func (s stubOfferService) Update(ctx context.Context, p identity.Principal, id uuid.UUID, input offers.UpdateOfferInput) (*offers.OfferDTO, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
}

func (s stubOfferService) Delete(ctx context.Context, p identity.Principal, id uuid.UUID) error {
	return nil
}

func (s stubOfferService) Clone(ctx context.Context, p identity.Principal, id uuid.UUID) (*offers.OfferDTO, error) {
	return s.cloneFn(ctx, p, id)
}

var testVendor = identity.Vendor{UserID: uuid.New(), VendorID: uuid.New()}

func TestPublicCatalogParsesFilters(t *testing.T) {
	var captured offers.CatalogQuery
	svc := stubOfferService{catalogFn: func(ctx context.Context, q offers.CatalogQuery) (*offers.OfferPage, error) {
		captured = q
		return &offers.OfferPage{Items: []offers.OfferDTO{}}, nil
	}}

	req := newRequest(http.MethodGet, "/api/public/offers?category=feeding&search=bottle&age_range=0-3+months&featured=true&sort=trending&limit=10&cursor=abc", "", nil, nil)
	resp := serve(PublicCatalog(svc, nil), req)

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "feeding", captured.CategorySlug)
	require.Equal(t, "bottle", captured.Search)
	require.NotNil(t, captured.AgeRange)
	require.Equal(t, enums.BabyAge("0-3 months"), *captured.AgeRange)
	require.True(t, captured.FeaturedOnly)
	require.Equal(t, enums.OfferSort("trending"), captured.Sort)
	require.Equal(t, 10, captured.Limit)
	require.Equal(t, "abc", captured.Cursor)
}

func TestPublicCatalogDefaults(t *testing.T) {
	var captured offers.CatalogQuery
	svc := stubOfferService{catalogFn: func(ctx context.Context, q offers.CatalogQuery) (*offers.OfferPage, error) {
		captured = q
		return &offers.OfferPage{}, nil
	}}

	resp := serve(PublicCatalog(svc, nil), newRequest(http.MethodGet, "/api/public/offers", "", nil, nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, enums.OfferSortNewest, captured.Sort)
	require.Equal(t, 25, captured.Limit)
	require.Nil(t, captured.AgeRange)
}

func TestPublicCatalogRejectsBadQuery(t *testing.T) {
	svc := stubOfferService{catalogFn: func(ctx context.Context, q offers.CatalogQuery) (*offers.OfferPage, error) {
		t.Fatal("catalog should not be called")
		return nil, nil
	}}

	for _, target := range []string{
		"/api/public/offers?age_range=teen",
		"/api/public/offers?sort=cheapest",
		"/api/public/offers?limit=500",
		"/api/public/offers?featured=maybe",
	} {
		resp := serve(PublicCatalog(svc, nil), newRequest(http.MethodGet, target, "", nil, nil))
		require.Equal(t, http.StatusBadRequest, resp.Code, target)
	}
}

func TestPublicOfferDetailNotFound(t *testing.T) {
	id := uuid.New()
	svc := stubOfferService{getFn: func(ctx context.Context, got uuid.UUID) (*offers.OfferDTO, error) {
		require.Equal(t, id, got)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}}

	req := newRequest(http.MethodGet, "/api/public/offers/"+id.String(), "", nil, map[string]string{"offerId": id.String()})
	resp := serve(PublicOfferDetail(svc, nil), req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	require.Equal(t, "offer not found", decodeError(t, resp).Error.Message)
}

func TestPublicOfferDetailInvalidID(t *testing.T) {
	req := newRequest(http.MethodGet, "/api/public/offers/nope", "", nil, map[string]string{"offerId": "nope"})
	resp := serve(PublicOfferDetail(stubOfferService{}, nil), req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestVendorCreateOffer(t *testing.T) {
	svc := stubOfferService{createFn: func(ctx context.Context, p identity.Principal, input offers.OfferInput) (*offers.OfferDTO, error) {
		require.Equal(t, testVendor, p)
		return &offers.OfferDTO{ID: uuid.New(), Title: input.Title, Status: enums.OfferStatusPending}, nil
	}}

	body := `{"title":"Diaper bundle","description":"Two packs for one","discount_percent":50,"affiliate_link":"https://shop.example/deal"}`
	resp := serve(VendorCreateOffer(svc, nil), newRequest(http.MethodPost, "/api/v1/vendor/offers", body, testVendor, nil))

	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var offer offers.OfferDTO
	decodeData(t, resp, &offer)
	require.Equal(t, "Diaper bundle", offer.Title)
	require.Equal(t, enums.OfferStatusPending, offer.Status)
}

func TestVendorCreateOfferRequiresPrincipal(t *testing.T) {
	resp := serve(VendorCreateOffer(stubOfferService{}, nil), newRequest(http.MethodPost, "/api/v1/vendor/offers", `{}`, nil, nil))
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestVendorCreateOfferRejectsUnknownFields(t *testing.T) {
	body := `{"title":"Diaper bundle","vendor_id":"someone-else"}`
	resp := serve(VendorCreateOffer(stubOfferService{}, nil), newRequest(http.MethodPost, "/api/v1/vendor/offers", body, testVendor, nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestVendorListOffersStatusFilter(t *testing.T) {
	var gotStatus *enums.OfferStatus
	svc := stubOfferService{listFn: func(ctx context.Context, p identity.Principal, status *enums.OfferStatus, limit int, cursor string) (*offers.OfferPage, error) {
		gotStatus = status
		return &offers.OfferPage{}, nil
	}}

	resp := serve(VendorListOffers(svc, nil), newRequest(http.MethodGet, "/api/v1/vendor/offers?status=rejected", "", testVendor, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, gotStatus)
	require.Equal(t, enums.OfferStatusRejected, *gotStatus)

	resp = serve(VendorListOffers(svc, nil), newRequest(http.MethodGet, "/api/v1/vendor/offers?status=archived", "", testVendor, nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestVendorCloneOffer(t *testing.T) {
	source := uuid.New()
	svc := stubOfferService{cloneFn: func(ctx context.Context, p identity.Principal, id uuid.UUID) (*offers.OfferDTO, error) {
		require.Equal(t, source, id)
		return &offers.OfferDTO{ID: uuid.New(), Status: enums.OfferStatusPending}, nil
	}}

	req := newRequest(http.MethodPost, "/api/v1/vendor/offers/"+source.String()+"/clone", "", testVendor, map[string]string{"offerId": source.String()})
	resp := serve(VendorCloneOffer(svc, nil), req)
	require.Equal(t, http.StatusCreated, resp.Code)
}

func TestOfferHandlersWithoutService(t *testing.T) {
	resp := serve(PublicCatalog(nil, nil), newRequest(http.MethodGet, "/api/public/offers", "", nil, nil))
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}
