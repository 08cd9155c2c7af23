package auth

import (
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Kind     enums.PrincipalKind
	VendorID *uuid.UUID
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID   uuid.UUID           `json:"user_id"`
	Kind     enums.PrincipalKind `json:"kind"`
	VendorID *uuid.UUID          `json:"vendor_id,omitempty"`
	jwt.RegisteredClaims
}
