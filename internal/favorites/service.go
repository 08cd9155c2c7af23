package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

// Service exposes the saved-offers list of a mother.
type Service interface {
	Add(ctx context.Context, principal identity.Principal, offerID uuid.UUID) error
	Remove(ctx context.Context, principal identity.Principal, offerID uuid.UUID) error
	Toggle(ctx context.Context, principal identity.Principal, offerID uuid.UUID) (*ToggleResult, error)
	List(ctx context.Context, principal identity.Principal, limit int, cursor string) (*FavoritesPage, error)
	IDs(ctx context.Context, principal identity.Principal) ([]uuid.UUID, error)
}

type repository interface {
	Add(ctx context.Context, userID, offerID uuid.UUID) error
	Remove(ctx context.Context, userID, offerID uuid.UUID) error
	Exists(ctx context.Context, userID, offerID uuid.UUID) (bool, error)
	IsOfferApproved(ctx context.Context, offerID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]favoriteRecord, error)
	OfferIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	repo repository
}

func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("favorites repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Add(ctx context.Context, principal identity.Principal, offerID uuid.UUID) error {
	mother, err := requireMother(principal)
	if err != nil {
		return err
	}
	if err := s.ensureOffer(ctx, offerID); err != nil {
		return err
	}
	if err := s.repo.Add(ctx, mother.UserID, offerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

func (s *service) Remove(ctx context.Context, principal identity.Principal, offerID uuid.UUID) error {
	mother, err := requireMother(principal)
	if err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, mother.UserID, offerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}

// Toggle flips membership. Two toggles restore the original state.
func (s *service) Toggle(ctx context.Context, principal identity.Principal, offerID uuid.UUID) (*ToggleResult, error) {
	mother, err := requireMother(principal)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.Exists(ctx, mother.UserID, offerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	if exists {
		if err := s.Remove(ctx, principal, offerID); err != nil {
			return nil, err
		}
		return &ToggleResult{OfferID: offerID, Favorited: false}, nil
	}
	if err := s.Add(ctx, principal, offerID); err != nil {
		return nil, err
	}
	return &ToggleResult{OfferID: offerID, Favorited: true}, nil
}

func (s *service) List(ctx context.Context, principal identity.Principal, limit int, cursor string) (*FavoritesPage, error) {
	mother, err := requireMother(principal)
	if err != nil {
		return nil, err
	}
	decoded, err := pagination.ParseSortedCursor(cursor, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	normalized := pagination.NormalizeLimit(limit)
	rows, err := s.repo.List(ctx, mother.UserID, pagination.LimitWithBuffer(limit), decoded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}

	page := &FavoritesPage{Items: make([]FavoriteDTO, 0, len(rows))}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.FavoritedAt, ID: last.FavoriteID})
	}
	for _, row := range rows {
		page.Items = append(page.Items, row.toDTO())
	}
	return page, nil
}

func (s *service) IDs(ctx context.Context, principal identity.Principal) ([]uuid.UUID, error) {
	mother, err := requireMother(principal)
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.OfferIDs(ctx, mother.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorite ids")
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

func (s *service) ensureOffer(ctx context.Context, offerID uuid.UUID) error {
	if offerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "offer id is required")
	}
	ok, err := s.repo.IsOfferApproved(ctx, offerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	return nil
}

func requireMother(principal identity.Principal) (identity.Mother, error) {
	mother, ok := principal.(identity.Mother)
	if !ok {
		return identity.Mother{}, pkgerrors.New(pkgerrors.CodeForbidden, "only parents can save offers")
	}
	return mother, nil
}
