package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/internal/vendors"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

const birthdateLayout = "2006-01-02"

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) (int64, error)
}

// Service exposes the signed-in account operations.
type Service interface {
	Me(ctx context.Context, principal identity.Principal) (*MeResponse, error)
	CompleteOnboarding(ctx context.Context, principal identity.Principal, input OnboardingInput) (*MeResponse, error)
	UpdateVendor(ctx context.Context, principal identity.Principal, input vendors.UpdateVendorInput) (*vendors.VendorDTO, error)
}

type service struct {
	users   userRepository
	vendors vendors.Service
	now     func() time.Time
}

func NewService(userRepo userRepository, vendorSvc vendors.Service) (Service, error) {
	if userRepo == nil {
		return nil, errors.New("user repository required")
	}
	if vendorSvc == nil {
		return nil, errors.New("vendor service required")
	}
	return &service{
		users:   userRepo,
		vendors: vendorSvc,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Me(ctx context.Context, principal identity.Principal) (*MeResponse, error) {
	if principal == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.FindByID(ctx, principal.Subject())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	resp := &MeResponse{
		Kind: principal.Kind(),
		User: users.FromModel(user),
	}

	if _, isAdmin := principal.(identity.Admin); !isAdmin {
		profile, err := s.users.FindProfileByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}
		resp.Profile = users.ProfileFromModel(profile)
		if m, ok := principal.(identity.Mother); ok {
			// the token does not carry baby age; the row is authoritative
			m.BabyAge = profile.BabyAge
			principal = m
		}
	}

	if v, ok := principal.(identity.Vendor); ok {
		vendor, err := s.vendors.Get(ctx, v.VendorID)
		if err != nil {
			return nil, err
		}
		resp.Vendor = vendor
	}

	resp.LandingPath = identity.LandingPath(principal)
	return resp, nil
}

func (s *service) CompleteOnboarding(ctx context.Context, principal identity.Principal, input OnboardingInput) (*MeResponse, error) {
	if _, ok := principal.(identity.Mother); !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "onboarding is only available to mothers")
	}
	if !input.BabyAge.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid baby_age")
	}

	updates := map[string]any{"baby_age": input.BabyAge}
	if input.BabyBirthdate != nil && strings.TrimSpace(*input.BabyBirthdate) != "" {
		birthdate, err := time.Parse(birthdateLayout, strings.TrimSpace(*input.BabyBirthdate))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "baby_birthdate must be YYYY-MM-DD")
		}
		if birthdate.After(s.now()) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "baby_birthdate cannot be in the future")
		}
		updates["baby_birthdate"] = birthdate
	}
	if input.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*input.FullName)
	}

	affected, err := s.users.UpdateProfile(ctx, principal.Subject(), updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	return s.Me(ctx, principal)
}

func (s *service) UpdateVendor(ctx context.Context, principal identity.Principal, input vendors.UpdateVendorInput) (*vendors.VendorDTO, error) {
	v, ok := principal.(identity.Vendor)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor access required")
	}
	return s.vendors.Update(ctx, v.VendorID, input)
}
