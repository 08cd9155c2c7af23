package clicks

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
)

const statsWindowDays = 7

type repository interface {
	FindClaimable(ctx context.Context, offerID uuid.UUID, now time.Time) (*models.Offer, error)
	Insert(ctx context.Context, click *models.ClickLog) error
	VendorStats(ctx context.Context, vendorID uuid.UUID, since time.Time) ([]OfferClickStats, error)
}

// Service records claim click-throughs and reports them to vendors.
type Service interface {
	RecordClaim(ctx context.Context, offerID uuid.UUID, principal identity.Principal) (*ClaimResult, error)
	VendorStats(ctx context.Context, principal identity.Principal) (*VendorStats, error)
}

type service struct {
	repo repository
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, errors.New("clicks repository required")
	}
	return &service{
		repo: repo,
		logg: logg,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

// RecordClaim appends a click log and returns the affiliate link. The
// principal is optional; anonymous claims are logged without a user.
func (s *service) RecordClaim(ctx context.Context, offerID uuid.UUID, principal identity.Principal) (*ClaimResult, error) {
	now := s.now()
	offer, err := s.repo.FindClaimable(ctx, offerID, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}

	click := &models.ClickLog{OfferID: offer.ID, ClickedAt: now}
	if principal != nil {
		userID := principal.Subject()
		click.UserID = &userID
	}
	if err := s.repo.Insert(ctx, click); err != nil {
		// click logging failures never block the redirect
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "offer_id", offer.ID.String()), "record claim click", err)
		}
	}

	return &ClaimResult{OfferID: offer.ID, RedirectURL: offer.AffiliateLink}, nil
}

func (s *service) VendorStats(ctx context.Context, principal identity.Principal) (*VendorStats, error) {
	vendor, ok := principal.(identity.Vendor)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor access required")
	}
	since := s.now().AddDate(0, 0, -statsWindowDays)
	rows, err := s.repo.VendorStats(ctx, vendor.VendorID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load click stats")
	}
	stats := &VendorStats{WindowDays: statsWindowDays, Offers: rows}
	if stats.Offers == nil {
		stats.Offers = []OfferClickStats{}
	}
	for _, row := range rows {
		stats.TotalClicks += row.TotalClicks
		stats.RecentClicks += row.RecentClicks
	}
	return stats, nil
}
