package models

import (
	"time"

	"github.com/google/uuid"
)

// Vendor is the business identity behind a vendor profile.
type Vendor struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:vendors_user_id_key"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Phone     *string   `gorm:"column:phone"`
	Address   *string   `gorm:"column:address"`
	Website   *string   `gorm:"column:website"`
	Suspended bool      `gorm:"column:suspended;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
