package clicks

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

// ClaimResult tells the client where to send the shopper.
type ClaimResult struct {
	OfferID     uuid.UUID `json:"offer_id"`
	RedirectURL string    `json:"redirect_url"`
}

// OfferClickStats is one row of a vendor's click report.
type OfferClickStats struct {
	OfferID      uuid.UUID         `gorm:"column:offer_id" json:"offer_id"`
	Title        string            `gorm:"column:title" json:"title"`
	Status       enums.OfferStatus `gorm:"column:status" json:"status"`
	TotalClicks  int64             `gorm:"column:total_clicks" json:"total_clicks"`
	RecentClicks int64             `gorm:"column:recent_clicks" json:"recent_clicks"`
}

// VendorStats summarizes click-throughs across the vendor's offers.
type VendorStats struct {
	TotalClicks  int64             `json:"total_clicks"`
	RecentClicks int64             `json:"recent_clicks"`
	WindowDays   int               `json:"window_days"`
	Offers       []OfferClickStats `json:"offers"`
}
