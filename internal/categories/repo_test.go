package categories

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/babydeals-backend/pkg/db/dbtest"
)

func TestRepositoryListOrdersByDisplayOrderThenName(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)

	rows := sqlmock.NewRows([]string{"id", "name", "slug", "display_order", "is_active"}).
		AddRow(uuid.New(), "Feeding", "feeding", 1, true).
		AddRow(uuid.New(), "Toys", "toys", 1, true)
	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE is_active = \$1 ORDER BY display_order ASC,name ASC`).
		WithArgs(true).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "feeding", got[0].Slug)
}

func TestRepositoryDeleteReportsRows(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	id := uuid.New()

	mock.ExpectExec(`DELETE FROM "categories" WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Delete(context.Background(), id)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
}
