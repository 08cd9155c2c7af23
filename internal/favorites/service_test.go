package favorites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

type memRepo struct {
	approved map[uuid.UUID]bool
	saved    map[[2]uuid.UUID]bool
}

func newMemRepo(approved ...uuid.UUID) *memRepo {
	m := &memRepo{approved: map[uuid.UUID]bool{}, saved: map[[2]uuid.UUID]bool{}}
	for _, id := range approved {
		m.approved[id] = true
	}
	return m
}

func (m *memRepo) Add(ctx context.Context, userID, offerID uuid.UUID) error {
	m.saved[[2]uuid.UUID{userID, offerID}] = true
	return nil
}

func (m *memRepo) Remove(ctx context.Context, userID, offerID uuid.UUID) error {
	delete(m.saved, [2]uuid.UUID{userID, offerID})
	return nil
}

func (m *memRepo) Exists(ctx context.Context, userID, offerID uuid.UUID) (bool, error) {
	return m.saved[[2]uuid.UUID{userID, offerID}], nil
}

func (m *memRepo) IsOfferApproved(ctx context.Context, offerID uuid.UUID) (bool, error) {
	return m.approved[offerID], nil
}

func (m *memRepo) List(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]favoriteRecord, error) {
	return nil, nil
}

func (m *memRepo) OfferIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for key := range m.saved {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

func TestToggleTwiceRestoresMembership(t *testing.T) {
	offerID := uuid.New()
	repo := newMemRepo(offerID)
	svc, err := NewService(repo)
	require.NoError(t, err)
	mother := identity.Mother{UserID: uuid.New()}

	for _, initial := range []bool{false, true} {
		if initial {
			require.NoError(t, svc.Add(context.Background(), mother, offerID))
		}
		first, err := svc.Toggle(context.Background(), mother, offerID)
		require.NoError(t, err)
		require.Equal(t, !initial, first.Favorited)

		second, err := svc.Toggle(context.Background(), mother, offerID)
		require.NoError(t, err)
		require.Equal(t, initial, second.Favorited)

		exists, _ := repo.Exists(context.Background(), mother.UserID, offerID)
		require.Equal(t, initial, exists)
	}
}

func TestAddAndRemoveAreIdempotent(t *testing.T) {
	offerID := uuid.New()
	repo := newMemRepo(offerID)
	svc, _ := NewService(repo)
	mother := identity.Mother{UserID: uuid.New()}

	require.NoError(t, svc.Add(context.Background(), mother, offerID))
	require.NoError(t, svc.Add(context.Background(), mother, offerID))
	ids, err := svc.IDs(context.Background(), mother)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{offerID}, ids)

	require.NoError(t, svc.Remove(context.Background(), mother, offerID))
	require.NoError(t, svc.Remove(context.Background(), mother, offerID))
	ids, err = svc.IDs(context.Background(), mother)
	require.NoError(t, err)
	require.Empty(t, ids)
}

func TestAddUnapprovedOfferIsNotFound(t *testing.T) {
	svc, _ := NewService(newMemRepo())
	err := svc.Add(context.Background(), identity.Mother{UserID: uuid.New()}, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestOnlyMothersSave(t *testing.T) {
	offerID := uuid.New()
	svc, _ := NewService(newMemRepo(offerID))

	for _, p := range []identity.Principal{
		identity.Vendor{UserID: uuid.New(), VendorID: uuid.New()},
		identity.Admin{UserID: uuid.New()},
	} {
		_, err := svc.Toggle(context.Background(), p, offerID)
		require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	}
}
