package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/angelmondragon/babydeals-backend/internal/auth"
	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

type stubAuthService struct {
	resp       *auth.SessionResponse
	err        error
	gotAccess  string
	gotRefresh string
	loggedOut  string
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.SessionResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*auth.SessionResponse, error) {
	s.gotAccess = accessToken
	s.gotRefresh = refreshToken
	return s.resp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessToken string) error {
	s.loggedOut = accessToken
	return s.err
}

func (s *stubAuthService) Issue(ctx context.Context, principal identity.Principal) (*auth.SessionResponse, error) {
	return s.resp, s.err
}

type stubRegisterService struct {
	resp *auth.SessionResponse
	err  error
}

func (s stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.SessionResponse, error) {
	return s.resp, s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubAuthService{resp: &auth.SessionResponse{AccessToken: "access", RefreshToken: "refresh", Kind: enums.PrincipalMother, LandingPath: "/"}}
	body := `{"email":"mom@example.com","password":"Secret#123"}`

	resp := serve(AuthLogin(svc, nil), newRequest(http.MethodPost, "/api/v1/auth/login", body, nil, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var session auth.SessionResponse
	decodeData(t, resp, &session)
	if session.AccessToken != "access" || session.Kind != enums.PrincipalMother {
		t.Fatalf("unexpected session %+v", session)
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	body := `{"email":"mom@example.com","password":"wrong"}`

	resp := serve(AuthLogin(svc, nil), newRequest(http.MethodPost, "/api/v1/auth/login", body, nil, nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLoginInvalidPayload(t *testing.T) {
	resp := serve(AuthLogin(&stubAuthService{}, nil), newRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"not-an-email"}`, nil, nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthRegisterCreated(t *testing.T) {
	svc := stubRegisterService{resp: &auth.SessionResponse{AccessToken: "access", Kind: enums.PrincipalVendor, LandingPath: "/vendor"}}
	body := `{"email":"shop@example.com","password":"Secret#123","role":"vendor","vendor_name":"Tiny Toes"}`

	resp := serve(AuthRegister(svc, nil), newRequest(http.MethodPost, "/api/v1/auth/register", body, nil, nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthRegisterRejectsAdminRole(t *testing.T) {
	body := `{"email":"root@example.com","password":"Secret#123","role":"admin"}`
	resp := serve(AuthRegister(stubRegisterService{}, nil), newRequest(http.MethodPost, "/api/v1/auth/register", body, nil, nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthRefreshUsesBearerAndBody(t *testing.T) {
	svc := &stubAuthService{resp: &auth.SessionResponse{AccessToken: "next", RefreshToken: "next-refresh"}}
	req := newRequest(http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"old-refresh"}`, nil, nil)
	req.Header.Set("Authorization", "Bearer old-access")

	resp := serve(AuthRefresh(svc, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotAccess != "old-access" || svc.gotRefresh != "old-refresh" {
		t.Fatalf("unexpected refresh args %q %q", svc.gotAccess, svc.gotRefresh)
	}
}

func TestAuthRefreshMissingBearer(t *testing.T) {
	req := newRequest(http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"old-refresh"}`, nil, nil)
	resp := serve(AuthRefresh(&stubAuthService{}, nil), req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogout(t *testing.T) {
	svc := &stubAuthService{}
	req := newRequest(http.MethodPost, "/api/v1/auth/logout", "", nil, nil)
	req.Header.Set("Authorization", "Bearer access")

	resp := serve(AuthLogout(svc, nil), req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.loggedOut != "access" {
		t.Fatalf("expected logout with access token got %q", svc.loggedOut)
	}
}
