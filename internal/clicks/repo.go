package clicks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindClaimable returns the affiliate link of an approved, unexpired offer.
func (r *Repository) FindClaimable(ctx context.Context, offerID uuid.UUID, now time.Time) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).
		Select("id", "affiliate_link").
		Where("id = ? AND status = ?", offerID, enums.OfferStatusApproved).
		Where("(expires_at IS NULL OR expires_at >= ?)", now).
		First(&offer).Error
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *Repository) Insert(ctx context.Context, click *models.ClickLog) error {
	return r.db.WithContext(ctx).Create(click).Error
}

// VendorStats aggregates clicks per offer for the vendor, all-time and
// since the given instant.
func (r *Repository) VendorStats(ctx context.Context, vendorID uuid.UUID, since time.Time) ([]OfferClickStats, error) {
	var rows []OfferClickStats
	err := r.db.WithContext(ctx).Raw(`
SELECT o.id AS offer_id, o.title, o.status,
	COUNT(cl.id) AS total_clicks,
	COALESCE(SUM(CASE WHEN cl.clicked_at >= ? THEN 1 ELSE 0 END), 0) AS recent_clicks
FROM offers o
LEFT JOIN click_logs cl ON cl.offer_id = o.id
WHERE o.vendor_id = ?
GROUP BY o.id, o.title, o.status
ORDER BY total_clicks DESC, o.title ASC`, since, vendorID).Scan(&rows).Error
	return rows, err
}
