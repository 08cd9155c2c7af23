package admin

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/ads"
	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/moderation"
	"github.com/angelmondragon/babydeals-backend/internal/offers"
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/internal/vendors"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOffers struct {
	total, pending int64
	recent         []moderation.QueueItem
	err            error
}

func (s stubOffers) Count(ctx context.Context, status *enums.OfferStatus) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if status != nil && *status == enums.OfferStatusPending {
		return s.pending, nil
	}
	return s.total, nil
}

func (s stubOffers) RecentPending(ctx context.Context, limit int) ([]moderation.QueueItem, error) {
	if limit != recentPendingLimit {
		return nil, errors.New("unexpected limit")
	}
	return s.recent, nil
}

type stubVendors struct {
	summaries []vendors.VendorSummary
	suspended map[uuid.UUID]bool
	count     int64
}

func (s *stubVendors) ListSummaries(ctx context.Context) ([]vendors.VendorSummary, error) {
	return s.summaries, nil
}

func (s *stubVendors) SetSuspended(ctx context.Context, vendorID uuid.UUID, suspended bool) (*vendors.VendorDTO, error) {
	s.suspended[vendorID] = suspended
	return &vendors.VendorDTO{ID: vendorID, Suspended: suspended}, nil
}

func (s *stubVendors) Count(ctx context.Context) (int64, error) {
	return s.count, nil
}

type stubAds struct {
	paid int64
	all  []ads.AdDTO
}

func (s stubAds) ListAll(ctx context.Context) ([]ads.AdDTO, error) { return s.all, nil }
func (s stubAds) CountPaid(ctx context.Context) (int64, error)     { return s.paid, nil }

type stubMessages struct{ unread int64 }

func (s stubMessages) CountUnread(ctx context.Context) (int64, error) { return s.unread, nil }

type memAccounts struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*users.AccountRow
}

func (m *memAccounts) ListAccounts(ctx context.Context, role *enums.ProfileRole, limit int, cursor *pagination.Cursor) ([]users.AccountRow, error) {
	var out []users.AccountRow
	for _, a := range m.accounts {
		if role == nil || a.Role == *role {
			out = append(out, *a)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memAccounts) CountProfiles(ctx context.Context, role *enums.ProfileRole) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.accounts)), nil
}

func (m *memAccounts) FindAccount(ctx context.Context, userID uuid.UUID) (*users.AccountRow, error) {
	a, ok := m.accounts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memAccounts) ToggleActive(ctx context.Context, userID uuid.UUID) (int64, error) {
	a, ok := m.accounts[userID]
	if !ok {
		return 0, nil
	}
	a.IsActive = !a.IsActive
	return 1, nil
}

func (m *memAccounts) UpdateProfile(ctx context.Context, userID uuid.UUID, updates map[string]any) (int64, error) {
	a, ok := m.accounts[userID]
	if !ok {
		return 0, nil
	}
	if role, ok := updates["role"].(enums.ProfileRole); ok {
		a.Role = role
	}
	return 1, nil
}

type memVendorRepo struct {
	byUser  map[uuid.UUID]*models.Vendor
	created []vendors.CreateVendorDTO
}

func (m *memVendorRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	v, ok := m.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return v, nil
}

func (m *memVendorRepo) Create(ctx context.Context, dto vendors.CreateVendorDTO) (*models.Vendor, error) {
	m.created = append(m.created, dto)
	v := dto.ToModel()
	v.ID = uuid.New()
	m.byUser[dto.UserID] = v
	return v, nil
}

type recordingRevoker struct {
	users []uuid.UUID
}

func (r *recordingRevoker) RevokeUser(ctx context.Context, userID uuid.UUID) (int, error) {
	r.users = append(r.users, userID)
	return 1, nil
}

type fixture struct {
	svc      Service
	accounts *memAccounts
	vendors  *stubVendors
	vendorDB *memVendorRepo
	sessions *recordingRevoker
	admin    identity.Admin
}

func newFixture(t *testing.T, offerStats stubOffers) fixture {
	t.Helper()
	accounts := &memAccounts{accounts: map[uuid.UUID]*users.AccountRow{}}
	vendorDir := &stubVendors{suspended: map[uuid.UUID]bool{}, count: 3}
	vendorDB := &memVendorRepo{byUser: map[uuid.UUID]*models.Vendor{}}
	sessions := &recordingRevoker{}
	svc, err := NewService(ServiceParams{
		DB:           stubTxRunner{},
		Offers:       offerStats,
		Vendors:      vendorDir,
		VendorCount:  vendorDir,
		Ads:          stubAds{paid: 2, all: []ads.AdDTO{{ID: uuid.New(), Status: enums.AdStatusActive}}},
		Messages:     stubMessages{unread: 4},
		Accounts:     accounts,
		AccountTxFn:  func(tx *gorm.DB) accountRepo { return accounts },
		VendorRepoFn: func(tx *gorm.DB) vendorRepo { return vendorDB },
		Sessions:     sessions,
	})
	require.NoError(t, err)
	return fixture{svc: svc, accounts: accounts, vendors: vendorDir, vendorDB: vendorDB, sessions: sessions, admin: identity.Admin{UserID: uuid.New()}}
}

func (f fixture) addAccount(role enums.ProfileRole, name string) uuid.UUID {
	id := uuid.New()
	f.accounts.accounts[id] = &users.AccountRow{UserID: id, Email: "jo@example.com", Role: role, FullName: &name, IsActive: true}
	return id
}

func TestDashboardAggregatesCounts(t *testing.T) {
	recent := []moderation.QueueItem{{OfferDTO: offers.OfferDTO{ID: uuid.New(), Title: "Stroller"}}}
	f := newFixture(t, stubOffers{total: 10, pending: 3, recent: recent})
	f.addAccount(enums.ProfileRoleMother, "Jo")

	dash, err := f.svc.Dashboard(context.Background(), f.admin)
	require.NoError(t, err)
	require.EqualValues(t, 10, dash.TotalOffers)
	require.EqualValues(t, 3, dash.PendingOffers)
	require.EqualValues(t, 3, dash.TotalVendors)
	require.EqualValues(t, 2, dash.PaidAds)
	require.EqualValues(t, 1, dash.TotalUsers)
	require.EqualValues(t, 4, dash.UnreadMessages)
	require.Len(t, dash.RecentPending, 1)
}

func TestDashboardFailsWhenAnyCounterFails(t *testing.T) {
	f := newFixture(t, stubOffers{err: errors.New("timeout")})
	_, err := f.svc.Dashboard(context.Background(), f.admin)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
}

func TestConsoleRequiresAdmin(t *testing.T) {
	f := newFixture(t, stubOffers{})
	vendor := identity.Vendor{UserID: uuid.New(), VendorID: uuid.New()}

	_, err := f.svc.Dashboard(context.Background(), vendor)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	_, err = f.svc.ListAds(context.Background(), identity.Mother{UserID: uuid.New()})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	_, err = f.svc.SetVendorSuspended(context.Background(), vendor, vendor.VendorID, true)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	require.Empty(t, f.vendors.suspended)
}

func TestToggleUserActive(t *testing.T) {
	f := newFixture(t, stubOffers{})
	id := f.addAccount(enums.ProfileRoleMother, "Jo")

	row, err := f.svc.ToggleUserActive(context.Background(), f.admin, id)
	require.NoError(t, err)
	require.False(t, row.IsActive)
	require.Equal(t, []uuid.UUID{id}, f.sessions.users)

	// reactivating leaves sessions alone
	row, err = f.svc.ToggleUserActive(context.Background(), f.admin, id)
	require.NoError(t, err)
	require.True(t, row.IsActive)
	require.Len(t, f.sessions.users, 1)

	_, err = f.svc.ToggleUserActive(context.Background(), f.admin, f.admin.UserID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))

	_, err = f.svc.ToggleUserActive(context.Background(), f.admin, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestChangeRoleToVendorCreatesVendorOnce(t *testing.T) {
	f := newFixture(t, stubOffers{})
	id := f.addAccount(enums.ProfileRoleMother, "Jo's Boutique")

	row, err := f.svc.ChangeUserRole(context.Background(), f.admin, id, ChangeRoleInput{Role: enums.ProfileRoleVendor})
	require.NoError(t, err)
	require.Equal(t, enums.ProfileRoleVendor, row.Role)
	require.Len(t, f.vendorDB.created, 1)
	require.Equal(t, "Jo's Boutique", f.vendorDB.created[0].Name)
	require.Equal(t, "jo@example.com", f.vendorDB.created[0].Email)
	require.Equal(t, []uuid.UUID{id}, f.sessions.users)

	// same role again is a no-op and keeps the sessions
	_, err = f.svc.ChangeUserRole(context.Background(), f.admin, id, ChangeRoleInput{Role: enums.ProfileRoleVendor})
	require.NoError(t, err)
	require.Len(t, f.sessions.users, 1)

	_, err = f.svc.ChangeUserRole(context.Background(), f.admin, id, ChangeRoleInput{Role: enums.ProfileRoleMother})
	require.NoError(t, err)
	_, err = f.svc.ChangeUserRole(context.Background(), f.admin, id, ChangeRoleInput{Role: enums.ProfileRoleVendor})
	require.NoError(t, err)
	require.Len(t, f.vendorDB.created, 1)
	require.Len(t, f.sessions.users, 3)
}

func TestChangeRoleValidation(t *testing.T) {
	f := newFixture(t, stubOffers{})
	_, err := f.svc.ChangeUserRole(context.Background(), f.admin, uuid.New(), ChangeRoleInput{Role: "admin"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.ChangeUserRole(context.Background(), f.admin, uuid.New(), ChangeRoleInput{Role: enums.ProfileRoleVendor})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListUsersFiltersByRoleAndPages(t *testing.T) {
	f := newFixture(t, stubOffers{})
	f.addAccount(enums.ProfileRoleMother, "A")
	f.addAccount(enums.ProfileRoleMother, "B")
	f.addAccount(enums.ProfileRoleVendor, "C")

	role := enums.ProfileRoleMother
	page, err := f.svc.ListUsers(context.Background(), f.admin, &role, 1, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotEmpty(t, page.NextCursor)

	bad := enums.ProfileRole("admin")
	_, err = f.svc.ListUsers(context.Background(), f.admin, &bad, 10, "")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSetVendorSuspended(t *testing.T) {
	f := newFixture(t, stubOffers{})
	id := uuid.New()
	dto, err := f.svc.SetVendorSuspended(context.Background(), f.admin, id, true)
	require.NoError(t, err)
	require.True(t, dto.Suspended)
	require.True(t, f.vendors.suspended[id])
}
