package payloads

import (
	"github.com/google/uuid"
)

// OfferSubmittedEvent is emitted when a vendor creates or resubmits an offer.
type OfferSubmittedEvent struct {
	OfferID     uuid.UUID `json:"offer_id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	VendorName  string    `json:"vendor_name"`
	VendorEmail string    `json:"vendor_email"`
	Title       string    `json:"title"`
}

// OfferApprovedEvent is emitted when moderation approves a pending offer.
type OfferApprovedEvent struct {
	OfferID     uuid.UUID `json:"offer_id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	VendorName  string    `json:"vendor_name"`
	VendorEmail string    `json:"vendor_email"`
	Title       string    `json:"title"`
}

// AdPaidEvent is emitted once per ad when its checkout is confirmed paid.
// Dates are formatted YYYY-MM-DD.
type AdPaidEvent struct {
	AdID        uuid.UUID `json:"ad_id"`
	VendorID    uuid.UUID `json:"vendor_id"`
	VendorName  string    `json:"vendor_name"`
	VendorEmail string    `json:"vendor_email"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
}
