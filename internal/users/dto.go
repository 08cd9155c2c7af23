package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	SystemRole  *string    `json:"system_role,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ProfileDTO is the public view of a profile row.
type ProfileDTO struct {
	ID            uuid.UUID         `json:"id"`
	UserID        uuid.UUID         `json:"user_id"`
	Role          enums.ProfileRole `json:"role"`
	FullName      *string           `json:"full_name,omitempty"`
	BabyAge       *enums.BabyAge    `json:"baby_age,omitempty"`
	BabyBirthdate *string           `json:"baby_birthdate,omitempty"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// AccountRow joins a user with its profile for the admin console.
type AccountRow struct {
	UserID      uuid.UUID         `gorm:"column:user_id" json:"user_id"`
	Email       string            `gorm:"column:email" json:"email"`
	SystemRole  *string           `gorm:"column:system_role" json:"system_role,omitempty"`
	Role        enums.ProfileRole `gorm:"column:role" json:"role"`
	FullName    *string           `gorm:"column:full_name" json:"full_name,omitempty"`
	BabyAge     *enums.BabyAge    `gorm:"column:baby_age" json:"baby_age,omitempty"`
	IsActive    bool              `gorm:"column:is_active" json:"is_active"`
	LastLoginAt *time.Time        `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt   time.Time         `gorm:"column:created_at" json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	SystemRole   *string
}

// CreateProfileDTO holds the data required to persist a new profile.
type CreateProfileDTO struct {
	UserID   uuid.UUID
	Role     enums.ProfileRole
	FullName *string
}

const dateLayout = "2006-01-02"

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		SystemRole:  u.SystemRole,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

func ProfileFromModel(p *models.Profile) *ProfileDTO {
	if p == nil {
		return nil
	}
	dto := &ProfileDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Role:      p.Role,
		FullName:  p.FullName,
		BabyAge:   p.BabyAge,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.BabyBirthdate != nil {
		formatted := p.BabyBirthdate.Format(dateLayout)
		dto.BabyBirthdate = &formatted
	}
	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		SystemRole:   c.SystemRole,
	}
}

func (c CreateProfileDTO) ToModel() *models.Profile {
	return &models.Profile{
		UserID:   c.UserID,
		Role:     c.Role,
		FullName: c.FullName,
		IsActive: true,
	}
}
