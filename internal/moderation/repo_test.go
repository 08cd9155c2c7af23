package moderation

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

func TestTransitionFromPendingIsConditional(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	id := uuid.New()
	at := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE offers SET status = \$1, updated_at = \$2 WHERE id = \$3 AND status = \$4`).
		WithArgs(enums.OfferStatusApproved, at, id, enums.OfferStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.TransitionFromPending(context.Background(), id, enums.OfferStatusApproved, at)
	require.NoError(t, err)
	require.Zero(t, affected)
}

func TestSetFeaturedTargetsApprovedOnly(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	id := uuid.New()
	at := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE offers SET is_featured = \$1, updated_at = \$2 WHERE id = \$3 AND status = \$4`).
		WithArgs(true, at, id, enums.OfferStatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.SetFeatured(context.Background(), id, true, at)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
}

func TestDeleteOfferByID(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM "offers" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DeleteOffer(context.Background(), id)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
}
