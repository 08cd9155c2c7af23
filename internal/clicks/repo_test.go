package clicks

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

func TestVendorStatsCountsRecentClicksPortably(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	vendorID := uuid.New()
	since := time.Date(2026, 9, 24, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT o\.id AS offer_id, o\.title, o\.status, COUNT\(cl\.id\) AS total_clicks, COALESCE\(SUM\(CASE WHEN cl\.clicked_at >= \$1 THEN 1 ELSE 0 END\), 0\) AS recent_clicks FROM offers o LEFT JOIN click_logs cl ON cl\.offer_id = o\.id WHERE o\.vendor_id = \$2 GROUP BY`).
		WithArgs(since, vendorID).
		WillReturnRows(sqlmock.NewRows([]string{"offer_id", "title", "status", "total_clicks", "recent_clicks"}).
			AddRow(uuid.New(), "Organic onesie 3-pack", "approved", 12, 4))

	rows, err := repo.VendorStats(context.Background(), vendorID, since)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, enums.OfferStatusApproved, rows[0].Status)
	require.EqualValues(t, 12, rows[0].TotalClicks)
	require.EqualValues(t, 4, rows[0].RecentClicks)
}
