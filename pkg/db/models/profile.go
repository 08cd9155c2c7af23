package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

// Profile holds the marketplace role of a user. One per user.
type Profile struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex:profiles_user_id_key"`
	Role          enums.ProfileRole `gorm:"column:role;type:profile_role;not null"`
	FullName      *string           `gorm:"column:full_name"`
	BabyAge       *enums.BabyAge    `gorm:"column:baby_age;type:baby_age"`
	BabyBirthdate *time.Time        `gorm:"column:baby_birthdate;type:date"`
	IsActive      bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
