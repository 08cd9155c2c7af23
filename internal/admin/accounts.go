package admin

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/internal/vendors"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

func (s *service) ListUsers(ctx context.Context, actor identity.Principal, role *enums.ProfileRole, limit int, cursor string) (*UserPage, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if role != nil && !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	decoded, err := pagination.ParseSortedCursor(cursor, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	normalized := pagination.NormalizeLimit(limit)
	rows, err := s.accounts.ListAccounts(ctx, role, pagination.LimitWithBuffer(limit), decoded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}

	page := &UserPage{Items: rows}
	if len(rows) > normalized {
		page.Items = rows[:normalized]
		last := page.Items[len(page.Items)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.UserID})
	}
	if page.Items == nil {
		page.Items = []users.AccountRow{}
	}
	return page, nil
}

// ToggleUserActive flips the account's active flag. Admins cannot lock
// themselves out.
func (s *service) ToggleUserActive(ctx context.Context, actor identity.Principal, userID uuid.UUID) (*users.AccountRow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if actor.Subject() == userID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cannot deactivate your own account")
	}
	affected, err := s.accounts.ToggleActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle user active")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	account, err := s.loadAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		s.signOut(ctx, userID, "account deactivated")
	}
	return account, nil
}

// ChangeUserRole moves an account between mother and vendor. Promoting to
// vendor creates the vendor record when the user never had one; demoting
// keeps it so past offers and ads stay attributed.
func (s *service) ChangeUserRole(ctx context.Context, actor identity.Principal, userID uuid.UUID, input ChangeRoleInput) (*users.AccountRow, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be mother or vendor")
	}

	changed := false
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		accounts := s.accountTx(tx)
		account, err := accounts.FindAccount(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load account")
		}
		if account.Role == input.Role {
			return nil
		}
		if _, err := accounts.UpdateProfile(ctx, userID, map[string]any{"role": input.Role}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update role")
		}
		changed = true
		if input.Role != enums.ProfileRoleVendor {
			return nil
		}

		vendorsRepo := s.vendorRepo(tx)
		if _, err := vendorsRepo.FindByUserID(ctx, userID); err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vendor")
		}
		if _, err := vendorsRepo.Create(ctx, vendors.CreateVendorDTO{
			UserID: userID,
			Name:   defaultVendorName(account),
			Email:  account.Email,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create vendor")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "change role")
	}

	if !changed {
		return s.loadAccount(ctx, userID)
	}
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"user_id": userID.String(),
			"role":    input.Role.String(),
		})
		s.logg.Info(logCtx, "user role changed")
	}
	// tokens carry the principal kind, so old ones must not outlive the change
	s.signOut(ctx, userID, "role changed")
	return s.loadAccount(ctx, userID)
}

// signOut drops every session the account holds. Failures are logged; the
// account change has already committed and refresh re-resolves the principal.
func (s *service) signOut(ctx context.Context, userID uuid.UUID, reason string) {
	if s.sessions == nil {
		return
	}
	revoked, err := s.sessions.RevokeUser(ctx, userID)
	if s.logg == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"user_id": userID.String(),
		"reason":  reason,
		"revoked": revoked,
	})
	if err != nil {
		s.logg.Error(logCtx, "revoke user sessions", err)
		return
	}
	s.logg.Info(logCtx, "user sessions revoked")
}

func (s *service) loadAccount(ctx context.Context, userID uuid.UUID) (*users.AccountRow, error) {
	account, err := s.accounts.FindAccount(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load account")
	}
	return account, nil
}

func defaultVendorName(account *users.AccountRow) string {
	if account.FullName != nil && strings.TrimSpace(*account.FullName) != "" {
		return strings.TrimSpace(*account.FullName)
	}
	local, _, _ := strings.Cut(account.Email, "@")
	return local
}
