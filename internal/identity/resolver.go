package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type vendorLookup interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
}

// Resolver builds principals from persisted identity rows.
type Resolver struct {
	users   userLookup
	vendors vendorLookup
}

func NewResolver(users userLookup, vendors vendorLookup) (*Resolver, error) {
	if users == nil {
		return nil, errors.New("user lookup required")
	}
	if vendors == nil {
		return nil, errors.New("vendor lookup required")
	}
	return &Resolver{users: users, vendors: vendors}, nil
}

// Resolve loads the principal for the user id. Inactive profiles and
// suspended vendors are rejected with FORBIDDEN.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) (Principal, error) {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return r.ResolveUser(ctx, user)
}

// ResolveUser is Resolve for an already loaded user row.
func (r *Resolver) ResolveUser(ctx context.Context, user *models.User) (Principal, error) {
	if user.SystemRole != nil && *user.SystemRole == enums.SystemRoleAdmin {
		return Admin{UserID: user.ID}, nil
	}

	profile, err := r.users.FindProfileByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account has no profile")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	if !profile.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}

	switch profile.Role {
	case enums.ProfileRoleMother:
		return Mother{UserID: user.ID, BabyAge: profile.BabyAge}, nil
	case enums.ProfileRoleVendor:
		vendor, err := r.vendors.FindByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor account incomplete")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
		}
		if vendor.Suspended {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor account is suspended")
		}
		return Vendor{UserID: user.ID, VendorID: vendor.ID}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unsupported profile role")
	}
}
