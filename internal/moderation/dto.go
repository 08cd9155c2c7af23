package moderation

import (
	"github.com/angelmondragon/babydeals-backend/internal/offers"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
)

// QueueItem is an offer awaiting (or past) review with the vendor contact.
type QueueItem struct {
	offers.OfferDTO
	VendorEmail string `json:"vendor_email"`
}

// QueuePage is a cursor-paginated moderation queue.
type QueuePage struct {
	Items      []QueueItem `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

type FeaturedInput struct {
	Featured *bool `json:"featured" validate:"required"`
}

type queueRecord struct {
	models.Offer
	VendorName  string `gorm:"column:vendor_name"`
	VendorEmail string `gorm:"column:vendor_email"`
}

func (r queueRecord) toItem() QueueItem {
	dto := offers.FromModel(&r.Offer)
	dto.VendorName = r.VendorName
	return QueueItem{OfferDTO: dto, VendorEmail: r.VendorEmail}
}
