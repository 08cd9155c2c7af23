package admin

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/ads"
	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/moderation"
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/internal/vendors"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

// Service backs the operator console. Every method requires an Admin
// principal.
type Service interface {
	Dashboard(ctx context.Context, actor identity.Principal) (*Dashboard, error)
	ListUsers(ctx context.Context, actor identity.Principal, role *enums.ProfileRole, limit int, cursor string) (*UserPage, error)
	ToggleUserActive(ctx context.Context, actor identity.Principal, userID uuid.UUID) (*users.AccountRow, error)
	ChangeUserRole(ctx context.Context, actor identity.Principal, userID uuid.UUID, input ChangeRoleInput) (*users.AccountRow, error)
	ListVendors(ctx context.Context, actor identity.Principal) ([]vendors.VendorSummary, error)
	SetVendorSuspended(ctx context.Context, actor identity.Principal, vendorID uuid.UUID, suspended bool) (*vendors.VendorDTO, error)
	ListAds(ctx context.Context, actor identity.Principal) ([]ads.AdDTO, error)
}

type offerStats interface {
	Count(ctx context.Context, status *enums.OfferStatus) (int64, error)
	RecentPending(ctx context.Context, limit int) ([]moderation.QueueItem, error)
}

type vendorDirectory interface {
	ListSummaries(ctx context.Context) ([]vendors.VendorSummary, error)
	SetSuspended(ctx context.Context, vendorID uuid.UUID, suspended bool) (*vendors.VendorDTO, error)
}

type vendorCounter interface {
	Count(ctx context.Context) (int64, error)
}

type adDirectory interface {
	ListAll(ctx context.Context) ([]ads.AdDTO, error)
	CountPaid(ctx context.Context) (int64, error)
}

type unreadCounter interface {
	CountUnread(ctx context.Context) (int64, error)
}

type accountRepo interface {
	ListAccounts(ctx context.Context, role *enums.ProfileRole, limit int, cursor *pagination.Cursor) ([]users.AccountRow, error)
	CountProfiles(ctx context.Context, role *enums.ProfileRole) (int64, error)
	FindAccount(ctx context.Context, userID uuid.UUID) (*users.AccountRow, error)
	ToggleActive(ctx context.Context, userID uuid.UUID) (int64, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) (int64, error)
}

type vendorRepo interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
	Create(ctx context.Context, dto vendors.CreateVendorDTO) (*models.Vendor, error)
}

type sessionRevoker interface {
	RevokeUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the console service.
type ServiceParams struct {
	DB           txRunner
	Offers       offerStats
	Vendors      vendorDirectory
	VendorCount  vendorCounter
	Ads          adDirectory
	Messages     unreadCounter
	Accounts     accountRepo
	AccountTxFn  func(tx *gorm.DB) accountRepo
	VendorRepoFn func(tx *gorm.DB) vendorRepo
	Sessions     sessionRevoker
	Logger       *logger.Logger
}

type service struct {
	db          txRunner
	offers      offerStats
	vendors     vendorDirectory
	vendorCount vendorCounter
	ads         adDirectory
	messages    unreadCounter
	accounts    accountRepo
	accountTx   func(tx *gorm.DB) accountRepo
	vendorRepo  func(tx *gorm.DB) vendorRepo
	sessions    sessionRevoker
	logg        *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.DB == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	case params.Offers == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "offer stats required")
	case params.Vendors == nil || params.VendorCount == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendor directory required")
	case params.Ads == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ads service required")
	case params.Messages == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "contact service required")
	case params.Accounts == nil:
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "account repository required")
	}
	accountTx := params.AccountTxFn
	if accountTx == nil {
		accountTx = func(tx *gorm.DB) accountRepo { return users.NewRepository(tx) }
	}
	vendorRepoFn := params.VendorRepoFn
	if vendorRepoFn == nil {
		vendorRepoFn = func(tx *gorm.DB) vendorRepo { return vendors.NewRepository(tx) }
	}
	return &service{
		db:          params.DB,
		offers:      params.Offers,
		vendors:     params.Vendors,
		vendorCount: params.VendorCount,
		ads:         params.Ads,
		messages:    params.Messages,
		accounts:    params.Accounts,
		accountTx:   accountTx,
		vendorRepo:  vendorRepoFn,
		sessions:    params.Sessions,
		logg:        params.Logger,
	}, nil
}

func (s *service) ListVendors(ctx context.Context, actor identity.Principal) ([]vendors.VendorSummary, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.vendors.ListSummaries(ctx)
}

func (s *service) SetVendorSuspended(ctx context.Context, actor identity.Principal, vendorID uuid.UUID, suspended bool) (*vendors.VendorDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	vendor, err := s.vendors.SetSuspended(ctx, vendorID, suspended)
	if err != nil {
		return nil, err
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"vendor_id": vendorID.String(),
			"suspended": suspended,
		})
		s.logg.Info(logCtx, "vendor suspension changed")
	}
	return vendor, nil
}

func (s *service) ListAds(ctx context.Context, actor identity.Principal) ([]ads.AdDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.ads.ListAll(ctx)
}

func requireAdmin(actor identity.Principal) error {
	if _, ok := actor.(identity.Admin); !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	return nil
}
