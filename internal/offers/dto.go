package offers

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

const cloneSuffix = " (Copy)"

// OfferDTO is the API view of an offer. ClickCount is only populated for
// trending listings.
type OfferDTO struct {
	ID              uuid.UUID         `json:"id"`
	VendorID        uuid.UUID         `json:"vendor_id"`
	VendorName      string            `json:"vendor_name,omitempty"`
	CategoryID      *uuid.UUID        `json:"category_id,omitempty"`
	CategorySlug    *string           `json:"category_slug,omitempty"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	AgeRange        *enums.BabyAge    `json:"age_range,omitempty"`
	Brand           *string           `json:"brand,omitempty"`
	AffiliateLink   string            `json:"affiliate_link"`
	ImageURL        *string           `json:"image_url,omitempty"`
	Price           *decimal.Decimal  `json:"price,omitempty"`
	DiscountPercent *int              `json:"discount_percent,omitempty"`
	ExpiresAt       *time.Time        `json:"expires_at,omitempty"`
	Status          enums.OfferStatus `json:"status"`
	IsFeatured      bool              `json:"is_featured"`
	ClickCount      *int64            `json:"click_count,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// OfferPage is a cursor-paginated slice of offers.
type OfferPage struct {
	Items      []OfferDTO `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// CatalogQuery filters the public catalog.
type CatalogQuery struct {
	CategorySlug string
	Search       string
	AgeRange     *enums.BabyAge
	FeaturedOnly bool
	Sort         enums.OfferSort
	Limit        int
	Cursor       string
}

// OfferInput is the vendor payload for creating an offer.
type OfferInput struct {
	CategoryID      *uuid.UUID       `json:"category_id,omitempty"`
	Title           string           `json:"title" validate:"required,min=3,max=160"`
	Description     string           `json:"description" validate:"required,max=4000"`
	AgeRange        *enums.BabyAge   `json:"age_range,omitempty"`
	Brand           *string          `json:"brand,omitempty" validate:"omitempty,max=120"`
	AffiliateLink   string           `json:"affiliate_link" validate:"required,url"`
	ImageURL        *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DiscountPercent *int             `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	ExpiresAt       *time.Time       `json:"expires_at,omitempty"`
}

// UpdateOfferInput carries the optional fields a vendor may change.
type UpdateOfferInput struct {
	CategoryID      *uuid.UUID       `json:"category_id,omitempty"`
	Title           *string          `json:"title,omitempty" validate:"omitempty,min=3,max=160"`
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=4000"`
	AgeRange        *enums.BabyAge   `json:"age_range,omitempty"`
	Brand           *string          `json:"brand,omitempty" validate:"omitempty,max=120"`
	AffiliateLink   *string          `json:"affiliate_link,omitempty" validate:"omitempty,url"`
	ImageURL        *string          `json:"image_url,omitempty" validate:"omitempty,url"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	DiscountPercent *int             `json:"discount_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	ExpiresAt       *time.Time       `json:"expires_at,omitempty"`
}

// FromModel maps a persisted offer into its API view.
func FromModel(o *models.Offer) OfferDTO {
	dto := OfferDTO{
		ID:              o.ID,
		VendorID:        o.VendorID,
		CategoryID:      o.CategoryID,
		Title:           o.Title,
		Description:     o.Description,
		AgeRange:        o.AgeRange,
		Brand:           o.Brand,
		AffiliateLink:   o.AffiliateLink,
		ImageURL:        o.ImageURL,
		DiscountPercent: o.DiscountPercent,
		ExpiresAt:       o.ExpiresAt,
		Status:          o.Status,
		IsFeatured:      o.IsFeatured,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.Price.Valid {
		price := o.Price.Decimal
		dto.Price = &price
	}
	return dto
}

// offerRecord is a catalog row: the offer plus its joined vendor, category
// and windowed click count.
type offerRecord struct {
	models.Offer
	VendorName   string  `gorm:"column:vendor_name"`
	CategorySlug *string `gorm:"column:category_slug"`
	ClickCount   *int64  `gorm:"column:click_count"`
}

func (r offerRecord) toDTO() OfferDTO {
	dto := FromModel(&r.Offer)
	dto.VendorName = r.VendorName
	dto.CategorySlug = r.CategorySlug
	dto.ClickCount = r.ClickCount
	return dto
}

func validateInput(in OfferInput) map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		problems["title"] = "required"
	}
	if strings.TrimSpace(in.Description) == "" {
		problems["description"] = "required"
	}
	if strings.TrimSpace(in.AffiliateLink) == "" {
		problems["affiliate_link"] = "required"
	}
	if in.AgeRange != nil && !in.AgeRange.IsValid() {
		problems["age_range"] = "invalid"
	}
	if in.Price != nil && in.Price.IsNegative() {
		problems["price"] = "must be non-negative"
	}
	return problems
}

func (in OfferInput) toModel(vendorID uuid.UUID) *models.Offer {
	offer := &models.Offer{
		VendorID:        vendorID,
		CategoryID:      in.CategoryID,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		AgeRange:        in.AgeRange,
		Brand:           in.Brand,
		AffiliateLink:   strings.TrimSpace(in.AffiliateLink),
		ImageURL:        in.ImageURL,
		DiscountPercent: in.DiscountPercent,
		ExpiresAt:       in.ExpiresAt,
		Status:          enums.OfferStatusPending,
		IsFeatured:      false,
	}
	if in.Price != nil {
		offer.Price = decimal.NewNullDecimal(in.Price.Round(2))
	}
	return offer
}

func (in UpdateOfferInput) updates() (map[string]any, map[string]string) {
	updates := map[string]any{}
	problems := map[string]string{}
	if in.CategoryID != nil {
		updates["category_id"] = *in.CategoryID
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			problems["title"] = "cannot be blank"
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			problems["description"] = "cannot be blank"
		}
		updates["description"] = strings.TrimSpace(*in.Description)
	}
	if in.AgeRange != nil {
		if !in.AgeRange.IsValid() {
			problems["age_range"] = "invalid"
		}
		updates["age_range"] = *in.AgeRange
	}
	if in.Brand != nil {
		updates["brand"] = *in.Brand
	}
	if in.AffiliateLink != nil {
		if strings.TrimSpace(*in.AffiliateLink) == "" {
			problems["affiliate_link"] = "cannot be blank"
		}
		updates["affiliate_link"] = strings.TrimSpace(*in.AffiliateLink)
	}
	if in.ImageURL != nil {
		updates["image_url"] = *in.ImageURL
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			problems["price"] = "must be non-negative"
		}
		updates["price"] = in.Price.Round(2)
	}
	if in.DiscountPercent != nil {
		updates["discount_percent"] = *in.DiscountPercent
	}
	if in.ExpiresAt != nil {
		updates["expires_at"] = *in.ExpiresAt
	}
	return updates, problems
}

// cloneOf copies the offer's content into a fresh pending, unfeatured draft.
func cloneOf(src *models.Offer) *models.Offer {
	return &models.Offer{
		VendorID:        src.VendorID,
		CategoryID:      src.CategoryID,
		Title:           src.Title + cloneSuffix,
		Description:     src.Description,
		AgeRange:        src.AgeRange,
		Brand:           src.Brand,
		AffiliateLink:   src.AffiliateLink,
		ImageURL:        src.ImageURL,
		Price:           src.Price,
		DiscountPercent: src.DiscountPercent,
		ExpiresAt:       src.ExpiresAt,
		Status:          enums.OfferStatusPending,
		IsFeatured:      false,
	}
}
