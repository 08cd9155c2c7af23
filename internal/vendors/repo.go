package vendors

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, dto CreateVendorDTO) (*models.Vendor, error) {
	vendor := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(vendor).Error; err != nil {
		return nil, err
	}
	return vendor, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).First(&vendor, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&vendor).Error; err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (int64, error) {
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", id).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *Repository) FindBrand(ctx context.Context, vendorID uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).First(&brand).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// UpsertBrand creates the vendor's brand or replaces its name and image.
func (r *Repository) UpsertBrand(ctx context.Context, vendorID uuid.UUID, name string, imageURL *string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO brands (vendor_id, name, image_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?) `+
			`ON CONFLICT (vendor_id) DO UPDATE SET name = excluded.name, image_url = excluded.image_url, updated_at = excluded.updated_at`,
		vendorID, name, imageURL, now, now,
	).Error
}

// ListSummaries returns every vendor with approved-offer and paid-ad counts.
func (r *Repository) ListSummaries(ctx context.Context) ([]VendorSummary, error) {
	var rows []VendorSummary
	err := r.db.WithContext(ctx).Raw(`
SELECT v.id, v.name, v.email, v.suspended, v.created_at, b.name AS brand_name,
	(SELECT COUNT(*) FROM offers o WHERE o.vendor_id = v.id AND o.status = 'approved') AS approved_offer_count,
	(SELECT COUNT(*) FROM ads a WHERE a.vendor_id = v.id AND a.paid) AS paid_ad_count
FROM vendors v
LEFT JOIN brands b ON b.vendor_id = v.id
ORDER BY v.created_at DESC, v.id DESC`).Scan(&rows).Error
	return rows, err
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vendor{}).Count(&count).Error
	return count, err
}
