package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

// Offer is a vendor-submitted deal. Only approved offers are public.
type Offer struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID        uuid.UUID            `gorm:"column:vendor_id;type:uuid;not null;index:offers_vendor_id_idx"`
	CategoryID      *uuid.UUID           `gorm:"column:category_id;type:uuid"`
	Title           string               `gorm:"column:title;not null"`
	Description     string               `gorm:"column:description;not null"`
	AgeRange        *enums.BabyAge       `gorm:"column:age_range;type:baby_age"`
	Brand           *string              `gorm:"column:brand"`
	AffiliateLink   string               `gorm:"column:affiliate_link;not null"`
	ImageURL        *string              `gorm:"column:image_url"`
	Price           decimal.NullDecimal  `gorm:"column:price;type:numeric(10,2)"`
	DiscountPercent *int                 `gorm:"column:discount_percent"`
	ExpiresAt       *time.Time           `gorm:"column:expires_at"`
	Status          enums.OfferStatus    `gorm:"column:status;type:offer_status;not null;default:pending"`
	IsFeatured      bool                 `gorm:"column:is_featured;not null;default:false"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
