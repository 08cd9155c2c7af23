package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/internal/vendors"
	"github.com/angelmondragon/babydeals-backend/pkg/config"
	"github.com/angelmondragon/babydeals-backend/pkg/db"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/security"
	"gorm.io/gorm"
)

// RegisterService handles the sign-up transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	CreateProfile(ctx context.Context, dto users.CreateProfileDTO) (*models.Profile, error)
}

type registerVendorRepo interface {
	Create(ctx context.Context, dto vendors.CreateVendorDTO) (*models.Vendor, error)
}

type sessionIssuer interface {
	Issue(ctx context.Context, principal identity.Principal) (*SessionResponse, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             txRunner
	PasswordConfig config.PasswordConfig
	Issuer         sessionIssuer
	UserRepoFn     func(tx *gorm.DB) registerUserRepo
	VendorRepoFn   func(tx *gorm.DB) registerVendorRepo
}

type registerService struct {
	db          txRunner
	passwordCfg config.PasswordConfig
	issuer      sessionIssuer
	userRepo    func(tx *gorm.DB) registerUserRepo
	vendorRepo  func(tx *gorm.DB) registerVendorRepo
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Issuer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session issuer required")
	}
	userRepoFn := params.UserRepoFn
	if userRepoFn == nil {
		userRepoFn = func(tx *gorm.DB) registerUserRepo { return users.NewRepository(tx) }
	}
	vendorRepoFn := params.VendorRepoFn
	if vendorRepoFn == nil {
		vendorRepoFn = func(tx *gorm.DB) registerVendorRepo { return vendors.NewRepository(tx) }
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		issuer:      params.Issuer,
		userRepo:    userRepoFn,
		vendorRepo:  vendorRepoFn,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !req.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be mother or vendor")
	}
	vendorName := ""
	if req.Role == enums.ProfileRoleVendor {
		if req.VendorName != nil {
			vendorName = strings.TrimSpace(*req.VendorName)
		}
		if vendorName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor_name is required for vendor accounts")
		}
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var principal identity.Principal
	var created *models.User
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepo(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "users_email_key") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
		created = user

		if _, err := userRepo.CreateProfile(ctx, users.CreateProfileDTO{
			UserID:   user.ID,
			Role:     req.Role,
			FullName: req.FullName,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
		}

		if req.Role == enums.ProfileRoleMother {
			principal = identity.Mother{UserID: user.ID}
			return nil
		}

		vendor, err := s.vendorRepo(tx).Create(ctx, vendors.CreateVendorDTO{
			UserID:  user.ID,
			Name:    vendorName,
			Email:   email,
			Phone:   req.Phone,
			Website: req.Website,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
		}
		principal = identity.Vendor{UserID: user.ID, VendorID: vendor.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.issuer.Issue(ctx, principal)
	if err != nil {
		return nil, err
	}
	resp.User = users.FromModel(created)
	return resp, nil
}
