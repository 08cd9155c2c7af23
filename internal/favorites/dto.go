package favorites

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/internal/offers"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
)

// FavoriteDTO is a saved offer with the time it was saved.
type FavoriteDTO struct {
	FavoritedAt time.Time       `json:"favorited_at"`
	Offer       offers.OfferDTO `json:"offer"`
}

type FavoritesPage struct {
	Items      []FavoriteDTO `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ToggleResult reports the membership after a toggle.
type ToggleResult struct {
	OfferID   uuid.UUID `json:"offer_id"`
	Favorited bool      `json:"favorited"`
}

type favoriteRecord struct {
	FavoriteID  uuid.UUID `gorm:"column:favorite_id"`
	FavoritedAt time.Time `gorm:"column:favorited_at"`
	models.Offer
	VendorName string `gorm:"column:vendor_name"`
}

func (r favoriteRecord) toDTO() FavoriteDTO {
	dto := offers.FromModel(&r.Offer)
	dto.VendorName = r.VendorName
	return FavoriteDTO{FavoritedAt: r.FavoritedAt, Offer: dto}
}
