package profiles

import (
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/internal/vendors"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

// OnboardingInput is submitted by a mother after her first sign in.
type OnboardingInput struct {
	BabyAge       enums.BabyAge `json:"baby_age" validate:"required"`
	BabyBirthdate *string       `json:"baby_birthdate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FullName      *string       `json:"full_name,omitempty" validate:"omitempty,max=120"`
}

// MeResponse is the caller's account view.
type MeResponse struct {
	Kind        enums.PrincipalKind `json:"kind"`
	LandingPath string              `json:"landing_path"`
	User        *users.UserDTO      `json:"user"`
	Profile     *users.ProfileDTO   `json:"profile,omitempty"`
	Vendor      *vendors.VendorDTO  `json:"vendor,omitempty"`
}
