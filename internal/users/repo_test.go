package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/pkg/db/dbtest"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

var accountColumns = []string{"user_id", "email", "system_role", "last_login_at", "created_at", "role", "full_name", "baby_age", "is_active"}

func TestFindAccountJoinsProfile(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	userID := uuid.New()
	created := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT u\.id AS user_id, u\.email, .* FROM users u JOIN profiles p ON p\.user_id = u\.id WHERE u\.id = \$1 LIMIT`).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(userID, "mom@example.com", "user", nil, created, "mother", "Ana", "0-3 months", true))

	row, err := repo.FindAccount(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, userID, row.UserID)
	require.Equal(t, enums.ProfileRoleMother, row.Role)
	require.True(t, row.IsActive)
}

func TestFindAccountMissing(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)

	mock.ExpectQuery(`FROM users u JOIN profiles p`).
		WillReturnRows(sqlmock.NewRows(accountColumns))

	_, err := repo.FindAccount(context.Background(), uuid.New())
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestToggleActiveFlipsFlag(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	userID := uuid.New()

	mock.ExpectExec(`UPDATE profiles SET is_active = NOT is_active, updated_at = \$1 WHERE user_id = \$2`).
		WithArgs(sqlmock.AnyArg(), userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.ToggleActive(context.Background(), userID)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)
}

func TestCountProfilesByRole(t *testing.T) {
	conn, mock := dbtest.New(t)
	repo := NewRepository(conn)
	role := enums.ProfileRoleVendor

	mock.ExpectQuery(`SELECT count\(\*\) FROM "profiles" WHERE role = \$1`).
		WithArgs(role).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := repo.CountProfiles(context.Background(), &role)
	require.NoError(t, err)
	require.EqualValues(t, 4, count)
}
