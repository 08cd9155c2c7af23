package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/auth"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

func TestLandingPath(t *testing.T) {
	age := enums.BabyAge6To12Months
	cases := []struct {
		name      string
		principal Principal
		want      string
	}{
		{"admin", Admin{UserID: uuid.New()}, "/admin"},
		{"vendor", Vendor{UserID: uuid.New(), VendorID: uuid.New()}, "/vendor-dashboard"},
		{"mother needs onboarding", Mother{UserID: uuid.New()}, "/onboarding"},
		{"mother onboarded", Mother{UserID: uuid.New(), BabyAge: &age}, "/offers"},
		{"anonymous", nil, "/"},
	}
	for _, tc := range cases {
		if got := LandingPath(tc.principal); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestFromClaimsRoundTrip(t *testing.T) {
	vendor := Vendor{UserID: uuid.New(), VendorID: uuid.New()}
	payload := TokenPayload(vendor)
	claims := &auth.AccessTokenClaims{UserID: payload.UserID, Kind: payload.Kind, VendorID: payload.VendorID}

	got, err := FromClaims(claims)
	if err != nil {
		t.Fatalf("from claims: %v", err)
	}
	if got != vendor {
		t.Fatalf("expected %+v, got %+v", vendor, got)
	}

	if _, err := FromClaims(&auth.AccessTokenClaims{UserID: uuid.New(), Kind: enums.PrincipalVendor}); err == nil {
		t.Fatal("vendor claims without vendor id must fail")
	}
	if _, err := FromClaims(&auth.AccessTokenClaims{UserID: uuid.New(), Kind: "root"}); err == nil {
		t.Fatal("unknown kind must fail")
	}
	if _, err := FromClaims(nil); err == nil {
		t.Fatal("nil claims must fail")
	}
}

type stubUsers struct {
	user    *models.User
	profile *models.Profile
	err     error
}

func (s stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s stubUsers) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.profile, nil
}

type stubVendors struct {
	vendor *models.Vendor
}

func (s stubVendors) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	if s.vendor == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.vendor, nil
}

func TestResolveAdminBySystemRoleNotEmail(t *testing.T) {
	adminRole := enums.SystemRoleAdmin
	userID := uuid.New()
	r, _ := NewResolver(stubUsers{user: &models.User{ID: userID, Email: "anyone@example.com", SystemRole: &adminRole}}, stubVendors{})

	p, err := r.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if _, ok := p.(Admin); !ok {
		t.Fatalf("expected admin principal, got %T", p)
	}
}

func TestResolveMotherCarriesBabyAge(t *testing.T) {
	age := enums.BabyAge1To2Years
	userID := uuid.New()
	r, _ := NewResolver(stubUsers{
		user:    &models.User{ID: userID},
		profile: &models.Profile{UserID: userID, Role: enums.ProfileRoleMother, BabyAge: &age, IsActive: true},
	}, stubVendors{})

	p, err := r.Resolve(context.Background(), userID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	mother, ok := p.(Mother)
	if !ok || mother.BabyAge == nil || *mother.BabyAge != age {
		t.Fatalf("unexpected principal %+v", p)
	}
}

func TestResolveRejectsInactiveAndSuspended(t *testing.T) {
	userID := uuid.New()
	inactive, _ := NewResolver(stubUsers{
		user:    &models.User{ID: userID},
		profile: &models.Profile{UserID: userID, Role: enums.ProfileRoleMother, IsActive: false},
	}, stubVendors{})
	if _, err := inactive.Resolve(context.Background(), userID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for inactive profile, got %v", err)
	}

	suspended, _ := NewResolver(stubUsers{
		user:    &models.User{ID: userID},
		profile: &models.Profile{UserID: userID, Role: enums.ProfileRoleVendor, IsActive: true},
	}, stubVendors{vendor: &models.Vendor{ID: uuid.New(), UserID: userID, Suspended: true}})
	if _, err := suspended.Resolve(context.Background(), userID); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for suspended vendor, got %v", err)
	}
}

func TestResolveUnknownUserAndDependencyFailure(t *testing.T) {
	r, _ := NewResolver(stubUsers{}, stubVendors{})
	if _, err := r.Resolve(context.Background(), uuid.New()); !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	userID := uuid.New()
	broken, _ := NewResolver(stubUsers{user: &models.User{ID: userID}, err: errors.New("db down")}, stubVendors{})
	if _, err := broken.Resolve(context.Background(), userID); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
