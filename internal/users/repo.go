package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

// Repository exposes user and profile persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// CreateProfile inserts the marketplace profile for a user.
func (r *Repository) CreateProfile(ctx context.Context, dto CreateProfileDTO) (*models.Profile, error) {
	profile := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindProfileByUserID loads the profile tied to the user.
func (r *Repository) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile applies the provided column updates and returns the number
// of rows touched.
func (r *Repository) UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) (int64, error) {
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// ListAccounts pages through users joined with their profiles, newest first.
func (r *Repository) ListAccounts(ctx context.Context, role *enums.ProfileRole, limit int, cursor *pagination.Cursor) ([]AccountRow, error) {
	query := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id AS user_id, u.email, u.system_role, u.last_login_at, u.created_at,
			p.role, p.full_name, p.baby_age, p.is_active`).
		Joins("JOIN profiles p ON p.user_id = u.id")

	if role != nil {
		query = query.Where("p.role = ?", *role)
	}
	if cursor != nil {
		query = query.Where("(u.created_at < ?) OR (u.created_at = ? AND u.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []AccountRow
	err := query.
		Order("u.created_at DESC").
		Order("u.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CountProfiles returns the number of profiles, optionally filtered by role.
func (r *Repository) CountProfiles(ctx context.Context, role *enums.ProfileRole) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Profile{})
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// WithTx binds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindAccount loads one user joined with its profile.
func (r *Repository) FindAccount(ctx context.Context, userID uuid.UUID) (*AccountRow, error) {
	var rows []AccountRow
	err := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id AS user_id, u.email, u.system_role, u.last_login_at, u.created_at,
			p.role, p.full_name, p.baby_age, p.is_active`).
		Joins("JOIN profiles p ON p.user_id = u.id").
		Where("u.id = ?", userID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// ToggleActive flips the profile's active flag in place.
func (r *Repository) ToggleActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE profiles SET is_active = NOT is_active, updated_at = ? WHERE user_id = ?`,
		time.Now().UTC(), userID,
	)
	return res.RowsAffected, res.Error
}
