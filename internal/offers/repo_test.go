package offers

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/babydeals-backend/pkg/db/dbtest"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

func TestListCatalogNewestFiltersApproved(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	now := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT o\.\*, v\.name AS vendor_name, c\.slug AS category_slug FROM offers o JOIN vendors v .* WHERE o\.status = \$1 AND .*o\.expires_at IS NULL OR o\.expires_at >= \$2.* AND .*LOWER\(o\.title\) LIKE \$3 ESCAPE '\\' OR LOWER\(o\.description\) LIKE \$4 ESCAPE '\\' OR LOWER\(o\.brand\) LIKE \$5 ESCAPE '\\'.* ORDER BY o\.created_at DESC,o\.id DESC LIMIT \$6`).
		WithArgs(enums.OfferStatusApproved, now, "%stroller%", "%stroller%", "%stroller%", 26).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "vendor_name"}).
			AddRow(uuid.New(), "Stroller", "approved", "Tiny Toes"))

	rows, err := repo.ListCatalog(context.Background(), catalogFilter{
		Search: "Stroller",
		Sort:   enums.OfferSortNewest,
		Now:    now,
		Limit:  26,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Tiny Toes", rows[0].VendorName)
}

func TestListCatalogTrendingAggregatesSevenDayClicks(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	now := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT o\.\*, v\.name AS vendor_name, c\.slug AS category_slug, COALESCE\(t\.click_count, 0\) AS click_count FROM offers o .*COUNT\(\*\) AS click_count.*WHERE cl\.clicked_at >= \$1.*WHERE o\.status = \$2 .*ORDER BY click_count DESC,o\.created_at DESC,o\.id DESC LIMIT \$4`).
		WithArgs(now.Add(-TrendingWindow), enums.OfferStatusApproved, now, 11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "click_count"}).
			AddRow(uuid.New(), "Hot", 12))

	rows, err := repo.ListCatalog(context.Background(), catalogFilter{
		Sort:  enums.OfferSortTrending,
		Now:   now,
		Limit: 11,
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.EqualValues(t, 12, *rows[0].ClickCount)
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, `50\% off\_now`, escapeLike("50% off_now"))
}
