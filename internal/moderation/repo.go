package moderation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// TransitionFromPending moves a pending offer to the target status. Only the
// status and updated_at columns are written.
func (r *Repository) TransitionFromPending(ctx context.Context, id uuid.UUID, to enums.OfferStatus, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE offers SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		to, at, id, enums.OfferStatusPending,
	)
	return res.RowsAffected, res.Error
}

// SetFeatured flips the featured flag on an approved offer.
func (r *Repository) SetFeatured(ctx context.Context, id uuid.UUID, featured bool, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE offers SET is_featured = ?, updated_at = ? WHERE id = ? AND status = ?`,
		featured, at, id, enums.OfferStatusApproved,
	)
	return res.RowsAffected, res.Error
}

// DeleteOffer removes an offer in any status. Favorites and click logs go
// with it through their foreign keys.
func (r *Repository) DeleteOffer(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Offer{})
	return res.RowsAffected, res.Error
}

func (r *Repository) FindOffer(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *Repository) FindVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

// ListQueue pages through offers in the given status, oldest first so the
// queue is worked in submission order.
func (r *Repository) ListQueue(ctx context.Context, status enums.OfferStatus, limit int, cursor *pagination.Cursor) ([]queueRecord, error) {
	query := r.db.WithContext(ctx).
		Table("offers o").
		Select("o.*, v.name AS vendor_name, v.email AS vendor_email").
		Joins("JOIN vendors v ON v.id = o.vendor_id").
		Where("o.status = ?", status)
	if cursor != nil {
		query = query.Where("(o.created_at > ?) OR (o.created_at = ? AND o.id > ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []queueRecord
	err := query.
		Order("o.created_at ASC").
		Order("o.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// RecentPending returns the newest pending submissions.
func (r *Repository) RecentPending(ctx context.Context, limit int) ([]queueRecord, error) {
	var rows []queueRecord
	err := r.db.WithContext(ctx).
		Table("offers o").
		Select("o.*, v.name AS vendor_name, v.email AS vendor_email").
		Joins("JOIN vendors v ON v.id = o.vendor_id").
		Where("o.status = ?", enums.OfferStatusPending).
		Order("o.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CountByStatus counts offers, optionally restricted to one status.
func (r *Repository) CountByStatus(ctx context.Context, status *enums.OfferStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Offer{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
