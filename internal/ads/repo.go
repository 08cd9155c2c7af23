package ads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
)

// Repository encapsulates ad persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, ad *models.Ad) error {
	return r.db.WithContext(ctx).Create(ad).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	var ad models.Ad
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

func (r *Repository) FindOwned(ctx context.Context, id, vendorID uuid.UUID) (*models.Ad, error) {
	var ad models.Ad
	if err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&ad).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// ListByVendor returns the vendor's ads, newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Ad, error) {
	var ads []models.Ad
	err := r.db.WithContext(ctx).
		Where("vendor_id = ?", vendorID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&ads).Error
	return ads, err
}

// ListAll returns every ad with its vendor name, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]adRecord, error) {
	var rows []adRecord
	err := r.db.WithContext(ctx).
		Table("ads a").
		Select("a.*, v.name AS vendor_name").
		Joins("JOIN vendors v ON v.id = a.vendor_id").
		Order("a.created_at DESC").
		Order("a.id DESC").
		Scan(&rows).Error
	return rows, err
}

// ListActive returns paid ads whose inclusive window covers the day.
func (r *Repository) ListActive(ctx context.Context, day time.Time) ([]adRecord, error) {
	var rows []adRecord
	err := r.db.WithContext(ctx).
		Table("ads a").
		Select("a.*, v.name AS vendor_name").
		Joins("JOIN vendors v ON v.id = a.vendor_id").
		Where("a.paid = ?", true).
		Where("a.start_date <= ? AND a.end_date >= ?", day, day).
		Order("a.created_at DESC").
		Order("a.id DESC").
		Scan(&rows).Error
	return rows, err
}

// SetSessionID stores the checkout session on an unpaid ad.
func (r *Repository) SetSessionID(ctx context.Context, id uuid.UUID, sessionID string, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Ad{}).
		Where("id = ? AND paid = ?", id, false).
		Updates(map[string]any{
			"stripe_session_id": sessionID,
			"updated_at":        now,
		})
	return res.RowsAffected, res.Error
}

// MarkPaid flips an unpaid ad to paid and stores the settling session. A nil
// sessionID keeps the stored one. Zero rows means the ad is missing or
// already paid.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, sessionID *string, amountCents int64, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE ads SET paid = true, paid_at = ?, amount_cents = ?, stripe_session_id = COALESCE(?, stripe_session_id), updated_at = ? WHERE id = ? AND paid = false`,
		now, amountCents, sessionID, now, id,
	)
	return res.RowsAffected, res.Error
}

// MarkUnpaid takes a paid ad off the homepage.
func (r *Repository) MarkUnpaid(ctx context.Context, id uuid.UUID, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE ads SET paid = false, paid_at = NULL, updated_at = ? WHERE id = ? AND paid = true`,
		now, id,
	)
	return res.RowsAffected, res.Error
}

func (r *Repository) CountPaid(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Ad{}).
		Where("paid = ?", true).
		Count(&count).Error
	return count, err
}
