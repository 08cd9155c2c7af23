package ads

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/babydeals-backend/pkg/db/dbtest"
)

func TestMarkPaidRecordsSettlingSession(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	id := uuid.New()
	at := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)

	session := "cs_test_1"

	mock.ExpectExec(`UPDATE ads SET paid = true, paid_at = \$1, amount_cents = \$2, stripe_session_id = COALESCE\(\$3, stripe_session_id\), updated_at = \$4 WHERE id = \$5 AND paid = false`).
		WithArgs(at, int64(3000), "cs_test_1", at, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.MarkPaid(context.Background(), id, &session, 3000, at)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
}

func TestMarkUnpaidOnlyTouchesPaidAds(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	id := uuid.New()
	at := time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE ads SET paid = false, paid_at = NULL, updated_at = \$1 WHERE id = \$2 AND paid = true`).
		WithArgs(at, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.MarkUnpaid(context.Background(), id, at)
	require.NoError(t, err)
	require.Zero(t, affected)
}

func TestListActiveFiltersPaidWindow(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	day := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "vendor_id", "start_date", "end_date", "paid", "vendor_name"}).
		AddRow(uuid.New(), uuid.New(), day, day, true, "Tiny Toes")
	mock.ExpectQuery(`SELECT a\.\*, v\.name AS vendor_name FROM ads a JOIN vendors v ON v\.id = a\.vendor_id WHERE a\.paid = \$1 AND .*a\.start_date <= \$2 AND a\.end_date >= \$3.* ORDER BY a\.created_at DESC,a\.id DESC`).
		WithArgs(true, day, day).
		WillReturnRows(rows)

	got, err := repo.ListActive(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Tiny Toes", got[0].VendorName)
	require.True(t, got[0].Paid)
}
