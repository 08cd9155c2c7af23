package vendors

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
)

type VendorDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Website   *string   `json:"website,omitempty"`
	Suspended bool      `json:"suspended"`
	Brand     *BrandDTO `json:"brand,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type BrandDTO struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	ImageURL *string   `json:"image_url,omitempty"`
}

// BrandInput replaces the vendor's brand when present.
type BrandInput struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	ImageURL *string `json:"image_url" validate:"omitempty,url"`
}

// VendorSummary is the admin console row with activity counts.
type VendorSummary struct {
	ID                 uuid.UUID `gorm:"column:id" json:"id"`
	Name               string    `gorm:"column:name" json:"name"`
	Email              string    `gorm:"column:email" json:"email"`
	Suspended          bool      `gorm:"column:suspended" json:"suspended"`
	BrandName          *string   `gorm:"column:brand_name" json:"brand_name,omitempty"`
	ApprovedOfferCount int64     `gorm:"column:approved_offer_count" json:"approved_offer_count"`
	PaidAdCount        int64     `gorm:"column:paid_ad_count" json:"paid_ad_count"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
}

// CreateVendorDTO holds the fields captured at vendor sign-up.
type CreateVendorDTO struct {
	UserID  uuid.UUID
	Name    string
	Email   string
	Phone   *string
	Address *string
	Website *string
}

// UpdateVendorInput carries the optional business details a vendor may edit.
type UpdateVendorInput struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=120"`
	Phone   *string `json:"phone" validate:"omitempty,max=40"`
	Address *string `json:"address" validate:"omitempty,max=255"`
	Website *string     `json:"website" validate:"omitempty,url"`
	Brand   *BrandInput `json:"brand"`
}

func FromModel(v *models.Vendor) *VendorDTO {
	if v == nil {
		return nil
	}
	return &VendorDTO{
		ID:        v.ID,
		UserID:    v.UserID,
		Name:      v.Name,
		Email:     v.Email,
		Phone:     v.Phone,
		Address:   v.Address,
		Website:   v.Website,
		Suspended: v.Suspended,
		CreatedAt: v.CreatedAt,
	}
}

func BrandFromModel(b *models.Brand) *BrandDTO {
	if b == nil {
		return nil
	}
	return &BrandDTO{ID: b.ID, Name: b.Name, ImageURL: b.ImageURL}
}

func (c CreateVendorDTO) ToModel() *models.Vendor {
	return &models.Vendor{
		UserID:  c.UserID,
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
		Website: c.Website,
	}
}

func (u UpdateVendorInput) updates() map[string]any {
	updates := map[string]any{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Phone != nil {
		updates["phone"] = *u.Phone
	}
	if u.Address != nil {
		updates["address"] = *u.Address
	}
	if u.Website != nil {
		updates["website"] = *u.Website
	}
	return updates
}
