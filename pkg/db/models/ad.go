package models

import (
	"time"

	"github.com/google/uuid"
)

// Ad is a homepage banner placement. StartDate and EndDate are calendar
// dates (UTC midnight) and both bounds are inclusive.
type Ad struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID        uuid.UUID  `gorm:"column:vendor_id;type:uuid;not null;index:ads_vendor_id_idx"`
	StartDate       time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate         time.Time  `gorm:"column:end_date;type:date;not null"`
	Headline        *string    `gorm:"column:headline"`
	ImageURL        *string    `gorm:"column:image_url"`
	LinkURL         *string    `gorm:"column:link_url"`
	AmountCents     int64      `gorm:"column:amount_cents;not null"`
	Currency        string     `gorm:"column:currency;not null;default:usd"`
	Paid            bool       `gorm:"column:paid;not null;default:false"`
	PaidAt          *time.Time `gorm:"column:paid_at"`
	StripeSessionID *string    `gorm:"column:stripe_session_id;uniqueIndex:ads_stripe_session_id_key"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
