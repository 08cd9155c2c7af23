package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand is the label a vendor sells under. A vendor has at most one.
type Brand struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID  uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:brands_vendor_id_key"`
	Name      string    `gorm:"column:name;not null"`
	ImageURL  *string   `gorm:"column:image_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
