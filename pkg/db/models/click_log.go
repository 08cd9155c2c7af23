package models

import (
	"time"

	"github.com/google/uuid"
)

// ClickLog is an append-only record of a claim click-through.
type ClickLog struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OfferID   uuid.UUID  `gorm:"column:offer_id;type:uuid;not null;index:click_logs_offer_clicked_idx,priority:1"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid"`
	ClickedAt time.Time  `gorm:"column:clicked_at;not null;index:click_logs_offer_clicked_idx,priority:2"`
}
