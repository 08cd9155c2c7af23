package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/babydeals-backend/internal/admin"
	"github.com/angelmondragon/babydeals-backend/internal/ads"
	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/internal/vendors"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

type stubAdminService struct {
	listUsersFn func(ctx context.Context, role *enums.ProfileRole, limit int, cursor string) (*admin.UserPage, error)
	toggleFn    func(ctx context.Context, actor identity.Principal, userID uuid.UUID) (*users.AccountRow, error)
	roleFn      func(ctx context.Context, userID uuid.UUID, input admin.ChangeRoleInput) (*users.AccountRow, error)
	suspendFn   func(ctx context.Context, vendorID uuid.UUID, suspended bool) (*vendors.VendorDTO, error)
}

func (s stubAdminService) Dashboard(ctx context.Context, actor identity.Principal) (*admin.Dashboard, error) {
	return &admin.Dashboard{TotalOffers: 9, PendingOffers: 2}, nil
}

func (s stubAdminService) ListUsers(ctx context.Context, actor identity.Principal, role *enums.ProfileRole, limit int, cursor string) (*admin.UserPage, error) {
	return s.listUsersFn(ctx, role, limit, cursor)
}

func (s stubAdminService) ToggleUserActive(ctx context.Context, actor identity.Principal, userID uuid.UUID) (*users.AccountRow, error) {
	return s.toggleFn(ctx, actor, userID)
}

func (s stubAdminService) ChangeUserRole(ctx context.Context, actor identity.Principal, userID uuid.UUID, input admin.ChangeRoleInput) (*users.AccountRow, error) {
	return s.roleFn(ctx, userID, input)
}

func (s stubAdminService) ListVendors(ctx context.Context, actor identity.Principal) ([]vendors.VendorSummary, error) {
	return []vendors.VendorSummary{}, nil
}

func (s stubAdminService) SetVendorSuspended(ctx context.Context, actor identity.Principal, vendorID uuid.UUID, suspended bool) (*vendors.VendorDTO, error) {
	return s.suspendFn(ctx, vendorID, suspended)
}

func (s stubAdminService) ListAds(ctx context.Context, actor identity.Principal) ([]ads.AdDTO, error) {
	return []ads.AdDTO{}, nil
}

func TestAdminDashboard(t *testing.T) {
	resp := serve(AdminDashboard(stubAdminService{}, nil), newRequest(http.MethodGet, "/api/admin/dashboard", "", testAdmin, nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var dashboard admin.Dashboard
	decodeData(t, resp, &dashboard)
	require.EqualValues(t, 9, dashboard.TotalOffers)
	require.EqualValues(t, 2, dashboard.PendingOffers)
}

func TestAdminListUsersRoleFilter(t *testing.T) {
	var gotRole *enums.ProfileRole
	svc := stubAdminService{listUsersFn: func(ctx context.Context, role *enums.ProfileRole, limit int, cursor string) (*admin.UserPage, error) {
		gotRole = role
		return &admin.UserPage{}, nil
	}}

	resp := serve(AdminListUsers(svc, nil), newRequest(http.MethodGet, "/api/admin/users?role=vendor", "", testAdmin, nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, gotRole)
	require.Equal(t, enums.ProfileRoleVendor, *gotRole)

	resp = serve(AdminListUsers(svc, nil), newRequest(http.MethodGet, "/api/admin/users?role=admin", "", testAdmin, nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminToggleSelfBlocked(t *testing.T) {
	svc := stubAdminService{toggleFn: func(ctx context.Context, actor identity.Principal, userID uuid.UUID) (*users.AccountRow, error) {
		require.Equal(t, actor.Subject(), userID)
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cannot deactivate your own account")
	}}

	req := newRequest(http.MethodPost, "/toggle", "", testAdmin, map[string]string{"userId": testAdmin.UserID.String()})
	resp := serve(AdminToggleUserActive(svc, nil), req)
	require.Equal(t, http.StatusConflict, resp.Code)
}

func TestAdminChangeUserRoleValidatesBody(t *testing.T) {
	userID := uuid.New()
	svc := stubAdminService{roleFn: func(ctx context.Context, id uuid.UUID, input admin.ChangeRoleInput) (*users.AccountRow, error) {
		require.Equal(t, enums.ProfileRoleVendor, input.Role)
		return &users.AccountRow{}, nil
	}}

	req := newRequest(http.MethodPatch, "/role", `{"role":"vendor"}`, testAdmin, map[string]string{"userId": userID.String()})
	resp := serve(AdminChangeUserRole(svc, nil), req)
	require.Equal(t, http.StatusOK, resp.Code)

	req = newRequest(http.MethodPatch, "/role", `{"role":"admin"}`, testAdmin, map[string]string{"userId": userID.String()})
	resp = serve(AdminChangeUserRole(svc, nil), req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminSetVendorSuspended(t *testing.T) {
	vendorID := uuid.New()
	var got *bool
	svc := stubAdminService{suspendFn: func(ctx context.Context, id uuid.UUID, suspended bool) (*vendors.VendorDTO, error) {
		require.Equal(t, vendorID, id)
		got = &suspended
		return &vendors.VendorDTO{}, nil
	}}

	req := newRequest(http.MethodPatch, "/suspend", `{"suspended":false}`, testAdmin, map[string]string{"vendorId": vendorID.String()})
	resp := serve(AdminSetVendorSuspended(svc, nil), req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, got)
	require.False(t, *got)
}
