package favorites

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/babydeals-backend/pkg/db/dbtest"
)

func TestAddIgnoresDuplicates(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	userID, offerID := uuid.New(), uuid.New()

	mock.ExpectExec(`INSERT INTO favorites \(user_id, offer_id\) VALUES \(\$1, \$2\) ON CONFLICT \(user_id, offer_id\) DO NOTHING`).
		WithArgs(userID, offerID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Add(context.Background(), userID, offerID))
}

func TestAddRejectsNilIDs(t *testing.T) {
	conn, _ := dbtest.New(t)
	repo := NewRepository(conn)
	require.Error(t, repo.Add(context.Background(), uuid.Nil, uuid.New()))
}
