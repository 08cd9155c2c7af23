package favorites

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

// Repository encapsulates favorites persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add inserts the favorite and ignores duplicates.
func (r *Repository) Add(ctx context.Context, userID, offerID uuid.UUID) error {
	if userID == uuid.Nil || offerID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO favorites (user_id, offer_id) VALUES (?, ?) ON CONFLICT (user_id, offer_id) DO NOTHING`, userID, offerID).
		Error
}

// Remove deletes the favorite if it exists.
func (r *Repository) Remove(ctx context.Context, userID, offerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND offer_id = ?", userID, offerID).
		Delete(&models.Favorite{}).
		Error
}

func (r *Repository) Exists(ctx context.Context, userID, offerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND offer_id = ?", userID, offerID).
		Count(&count).Error
	return count > 0, err
}

// IsOfferApproved reports whether the offer exists and is publicly visible.
func (r *Repository) IsOfferApproved(ctx context.Context, offerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ? AND status = ?", offerID, enums.OfferStatusApproved).
		Count(&count).Error
	return count > 0, err
}

// List pages through the user's saved approved offers, most recently saved
// first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]favoriteRecord, error) {
	query := r.db.WithContext(ctx).
		Table("favorites f").
		Select("f.id AS favorite_id, f.created_at AS favorited_at, o.*, v.name AS vendor_name").
		Joins("JOIN offers o ON o.id = f.offer_id").
		Joins("JOIN vendors v ON v.id = o.vendor_id").
		Where("f.user_id = ?", userID).
		Where("o.status = ?", enums.OfferStatusApproved)
	if cursor != nil {
		query = query.Where("(f.created_at < ?) OR (f.created_at = ? AND f.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []favoriteRecord
	err := query.
		Order("f.created_at DESC").
		Order("f.id DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// OfferIDs returns every offer id the user saved.
func (r *Repository) OfferIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("offer_id", &ids).Error
	return ids, err
}
