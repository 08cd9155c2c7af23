// Package identity models the authenticated actor as a closed set of
// principal kinds. Each variant carries only the fields it needs.
package identity

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/pkg/auth"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

// Principal is implemented only by Mother, Vendor and Admin.
type Principal interface {
	Subject() uuid.UUID
	Kind() enums.PrincipalKind
	isPrincipal()
}

// Mother is a parent browsing and saving offers. BabyAge is nil until
// onboarding completes.
type Mother struct {
	UserID  uuid.UUID
	BabyAge *enums.BabyAge
}

// Vendor is a business account that owns offers and ads.
type Vendor struct {
	UserID   uuid.UUID
	VendorID uuid.UUID
}

// Admin operates the moderation console.
type Admin struct {
	UserID uuid.UUID
}

func (m Mother) Subject() uuid.UUID        { return m.UserID }
func (m Mother) Kind() enums.PrincipalKind { return enums.PrincipalMother }
func (Mother) isPrincipal()                {}

func (v Vendor) Subject() uuid.UUID        { return v.UserID }
func (v Vendor) Kind() enums.PrincipalKind { return enums.PrincipalVendor }
func (Vendor) isPrincipal()                {}

func (a Admin) Subject() uuid.UUID        { return a.UserID }
func (a Admin) Kind() enums.PrincipalKind { return enums.PrincipalAdmin }
func (Admin) isPrincipal()                {}

// Onboarded reports whether the mother has picked a baby age group.
func (m Mother) Onboarded() bool {
	return m.BabyAge != nil
}

// FromClaims rebuilds the principal carried by a verified access token.
// Mother.BabyAge is not part of the token and is left nil.
func FromClaims(claims *auth.AccessTokenClaims) (Principal, error) {
	if claims == nil || claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("claims missing user id")
	}
	switch claims.Kind {
	case enums.PrincipalMother:
		return Mother{UserID: claims.UserID}, nil
	case enums.PrincipalVendor:
		if claims.VendorID == nil || *claims.VendorID == uuid.Nil {
			return nil, fmt.Errorf("vendor claims missing vendor id")
		}
		return Vendor{UserID: claims.UserID, VendorID: *claims.VendorID}, nil
	case enums.PrincipalAdmin:
		return Admin{UserID: claims.UserID}, nil
	default:
		return nil, fmt.Errorf("unknown principal kind %q", claims.Kind)
	}
}

// TokenPayload is the inverse of FromClaims.
func TokenPayload(p Principal) auth.AccessTokenPayload {
	payload := auth.AccessTokenPayload{UserID: p.Subject(), Kind: p.Kind()}
	if v, ok := p.(Vendor); ok {
		vendorID := v.VendorID
		payload.VendorID = &vendorID
	}
	return payload
}

// LandingPath returns the web route a principal should land on after
// signing in.
func LandingPath(p Principal) string {
	switch v := p.(type) {
	case Admin:
		return "/admin"
	case Vendor:
		return "/vendor-dashboard"
	case Mother:
		if !v.Onboarded() {
			return "/onboarding"
		}
		return "/offers"
	default:
		return "/"
	}
}
