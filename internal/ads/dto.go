package ads

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

// QuoteRequest asks for the price of a placement.
type QuoteRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// SetPaidInput is the admin override body.
type SetPaidInput struct {
	Paid *bool `json:"paid" validate:"required"`
}

// CreateAdInput describes a draft placement and its creative.
type CreateAdInput struct {
	StartDate string  `json:"start_date" validate:"required"`
	EndDate   string  `json:"end_date" validate:"required"`
	Headline  *string `json:"headline,omitempty" validate:"omitempty,max=120"`
	ImageURL  *string `json:"image_url,omitempty" validate:"omitempty,url"`
	LinkURL   *string `json:"link_url,omitempty" validate:"omitempty,url"`
}

// AdDTO is the vendor and admin view of an ad with its derived status.
type AdDTO struct {
	ID          uuid.UUID       `json:"id"`
	VendorID    uuid.UUID       `json:"vendor_id"`
	VendorName  string          `json:"vendor_name,omitempty"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Headline    *string         `json:"headline,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	LinkURL     *string         `json:"link_url,omitempty"`
	AmountCents int64           `json:"amount_cents"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Paid        bool            `json:"paid"`
	PaidAt      *time.Time      `json:"paid_at,omitempty"`
	Status      enums.AdStatus  `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PublicAdDTO is the homepage banner payload.
type PublicAdDTO struct {
	ID         uuid.UUID `json:"id"`
	VendorID   uuid.UUID `json:"vendor_id"`
	VendorName string    `json:"vendor_name"`
	Headline   *string   `json:"headline,omitempty"`
	ImageURL   *string   `json:"image_url,omitempty"`
	LinkURL    *string   `json:"link_url,omitempty"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
}

// CheckoutResponse carries the hosted checkout redirect.
type CheckoutResponse struct {
	AdID      uuid.UUID `json:"ad_id"`
	SessionID string    `json:"session_id"`
	URL       string    `json:"url"`
}

// VerifyRequest identifies the checkout session returned on the success URL.
type VerifyRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

// VerifyResponse reports the reconciled payment state.
type VerifyResponse struct {
	Paid bool       `json:"paid"`
	AdID *uuid.UUID `json:"ad_id,omitempty"`
	Ad   *AdDTO     `json:"ad,omitempty"`
}

type adRecord struct {
	models.Ad
	VendorName string `gorm:"column:vendor_name"`
}

// FromModel maps an ad row to its DTO, deriving status for today.
func FromModel(ad *models.Ad, vendorName string, today time.Time) AdDTO {
	return AdDTO{
		ID:          ad.ID,
		VendorID:    ad.VendorID,
		VendorName:  vendorName,
		StartDate:   ad.StartDate.Format(dateLayout),
		EndDate:     ad.EndDate.Format(dateLayout),
		Headline:    ad.Headline,
		ImageURL:    ad.ImageURL,
		LinkURL:     ad.LinkURL,
		AmountCents: ad.AmountCents,
		Amount:      decimal.NewFromInt(ad.AmountCents).Div(hundred).Round(2),
		Currency:    ad.Currency,
		Paid:        ad.Paid,
		PaidAt:      ad.PaidAt,
		Status:      StatusOf(ad.Paid, ad.StartDate, ad.EndDate, today),
		CreatedAt:   ad.CreatedAt,
	}
}

func (r adRecord) toPublic() PublicAdDTO {
	return PublicAdDTO{
		ID:         r.ID,
		VendorID:   r.VendorID,
		VendorName: r.VendorName,
		Headline:   r.Headline,
		ImageURL:   r.ImageURL,
		LinkURL:    r.LinkURL,
		StartDate:  r.StartDate.Format(dateLayout),
		EndDate:    r.EndDate.Format(dateLayout),
	}
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
