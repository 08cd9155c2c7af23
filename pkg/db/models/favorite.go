package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite links a mother to a saved offer.
type Favorite struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:favorites_user_id_idx;uniqueIndex:favorites_user_offer_key"`
	OfferID   uuid.UUID `gorm:"column:offer_id;type:uuid;not null;uniqueIndex:favorites_user_offer_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
