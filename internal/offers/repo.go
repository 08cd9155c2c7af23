package offers

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

// TrendingWindow is how far back claim clicks count towards trending.
const TrendingWindow = 7 * 24 * time.Hour

const catalogColumns = "o.*, v.name AS vendor_name, c.slug AS category_slug"

const trendingJoin = `LEFT JOIN (
  SELECT cl.offer_id, COUNT(*) AS click_count
  FROM click_logs cl
  WHERE cl.clicked_at >= ?
  GROUP BY cl.offer_id
) t ON t.offer_id = o.id`

// Repository encapsulates offer persistence and the catalog queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

type catalogFilter struct {
	CategorySlug string
	Search       string
	AgeRange     *enums.BabyAge
	FeaturedOnly bool
	Sort         enums.OfferSort
	Now          time.Time
	Limit        int
	Cursor       *pagination.Cursor
}

// ListCatalog returns approved, unexpired offers matching the filter. Limit
// is applied as given; callers pass the page size plus one.
func (r *Repository) ListCatalog(ctx context.Context, f catalogFilter) ([]offerRecord, error) {
	query := r.db.WithContext(ctx).
		Table("offers o").
		Joins("JOIN vendors v ON v.id = o.vendor_id").
		Joins("LEFT JOIN categories c ON c.id = o.category_id").
		Where("o.status = ?", enums.OfferStatusApproved).
		Where("(o.expires_at IS NULL OR o.expires_at >= ?)", f.Now)

	if slug := strings.TrimSpace(f.CategorySlug); slug != "" {
		query = query.Where("c.slug = ?", slug)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		// LOWER/LIKE runs on both postgres and sqlite, unlike ILIKE
		like := "%" + escapeLike(strings.ToLower(term)) + "%"
		query = query.Where(`(LOWER(o.title) LIKE ? ESCAPE '\' OR LOWER(o.description) LIKE ? ESCAPE '\' OR LOWER(o.brand) LIKE ? ESCAPE '\')`, like, like, like)
	}
	if f.AgeRange != nil {
		query = query.Where("o.age_range = ?", *f.AgeRange)
	}
	if f.FeaturedOnly {
		query = query.Where("o.is_featured = ?", true)
	}

	if f.Sort == enums.OfferSortTrending {
		query = query.
			Select(catalogColumns+", COALESCE(t.click_count, 0) AS click_count").
			Joins(trendingJoin, f.Now.Add(-TrendingWindow))
		if c := f.Cursor; c != nil {
			score := int64(0)
			if c.Score != nil {
				score = *c.Score
			}
			query = query.Where(`(COALESCE(t.click_count, 0) < ?)
  OR (COALESCE(t.click_count, 0) = ? AND o.created_at < ?)
  OR (COALESCE(t.click_count, 0) = ? AND o.created_at = ? AND o.id < ?)`,
				score, score, c.CreatedAt, score, c.CreatedAt, c.ID)
		}
		query = query.Order("click_count DESC")
	} else {
		query = query.Select(catalogColumns)
		if c := f.Cursor; c != nil {
			query = query.Where("(o.created_at < ?) OR (o.created_at = ? AND o.id < ?)", c.CreatedAt, c.CreatedAt, c.ID)
		}
	}

	var rows []offerRecord
	err := query.
		Order("o.created_at DESC").
		Order("o.id DESC").
		Limit(f.Limit).
		Scan(&rows).Error
	return rows, err
}

// FindApproved loads a publicly visible offer with its joined columns.
func (r *Repository) FindApproved(ctx context.Context, id uuid.UUID, now time.Time) (*offerRecord, error) {
	var row offerRecord
	err := r.db.WithContext(ctx).
		Table("offers o").
		Select(catalogColumns).
		Joins("JOIN vendors v ON v.id = o.vendor_id").
		Joins("LEFT JOIN categories c ON c.id = o.category_id").
		Where("o.id = ?", id).
		Where("o.status = ?", enums.OfferStatusApproved).
		Where("(o.expires_at IS NULL OR o.expires_at >= ?)", now).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).First(&offer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

// FindOwned loads an offer only when it belongs to the vendor.
func (r *Repository) FindOwned(ctx context.Context, id, vendorID uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		First(&offer).Error; err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *Repository) Create(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

// UpdateOwned applies the column updates to the vendor's offer.
func (r *Repository) UpdateOwned(ctx context.Context, id, vendorID uuid.UUID, updates map[string]any) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *Repository) DeleteOwned(ctx context.Context, id, vendorID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND vendor_id = ?", id, vendorID).
		Delete(&models.Offer{})
	return res.RowsAffected, res.Error
}

// ListByVendor pages through a vendor's offers of any status, newest first.
func (r *Repository) ListByVendor(ctx context.Context, vendorID uuid.UUID, status *enums.OfferStatus, limit int, cursor *pagination.Cursor) ([]models.Offer, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("vendor_id = ?", vendorID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Offer
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
