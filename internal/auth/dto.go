package auth

import (
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest signs up a mother or a vendor. Vendor accounts also
// require the business name.
type RegisterRequest struct {
	Email      string            `json:"email" validate:"required,email"`
	Password   string            `json:"password" validate:"required,min=8,max=128"`
	Role       enums.ProfileRole `json:"role" validate:"required,oneof=mother vendor"`
	FullName   *string           `json:"full_name,omitempty" validate:"omitempty,max=120"`
	VendorName *string           `json:"vendor_name,omitempty" validate:"omitempty,min=2,max=120"`
	Phone      *string           `json:"phone,omitempty" validate:"omitempty,max=40"`
	Website    *string           `json:"website,omitempty" validate:"omitempty,url"`
}

// SessionResponse contains the token pair and where the client should go next.
type SessionResponse struct {
	AccessToken  string              `json:"access_token"`
	RefreshToken string              `json:"refresh_token"`
	Kind         enums.PrincipalKind `json:"kind"`
	LandingPath  string              `json:"landing_path"`
	User         *users.UserDTO      `json:"user,omitempty"`
}
