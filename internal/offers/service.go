package offers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

// Service exposes the public catalog and vendor offer management.
type Service interface {
	Catalog(ctx context.Context, q CatalogQuery) (*OfferPage, error)
	Get(ctx context.Context, id uuid.UUID) (*OfferDTO, error)
	Create(ctx context.Context, principal identity.Principal, input OfferInput) (*OfferDTO, error)
	ListMine(ctx context.Context, principal identity.Principal, status *enums.OfferStatus, limit int, cursor string) (*OfferPage, error)
	GetMine(ctx context.Context, principal identity.Principal, id uuid.UUID) (*OfferDTO, error)
	Update(ctx context.Context, principal identity.Principal, id uuid.UUID, input UpdateOfferInput) (*OfferDTO, error)
	Delete(ctx context.Context, principal identity.Principal, id uuid.UUID) error
	Clone(ctx context.Context, principal identity.Principal, id uuid.UUID) (*OfferDTO, error)
}

type offerRepository interface {
	ListCatalog(ctx context.Context, f catalogFilter) ([]offerRecord, error)
	FindApproved(ctx context.Context, id uuid.UUID, now time.Time) (*offerRecord, error)
	FindOwned(ctx context.Context, id, vendorID uuid.UUID) (*models.Offer, error)
	Create(ctx context.Context, offer *models.Offer) error
	UpdateOwned(ctx context.Context, id, vendorID uuid.UUID, updates map[string]any) (int64, error)
	DeleteOwned(ctx context.Context, id, vendorID uuid.UUID) (int64, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID, status *enums.OfferStatus, limit int, cursor *pagination.Cursor) ([]models.Offer, error)
}

type vendorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the offer service.
type ServiceParams struct {
	Repo    *Repository
	DB      txRunner
	Vendors vendorLoader
	Outbox  outbox.Emitter
}

type service struct {
	repo    offerRepository
	txRepo  func(tx *gorm.DB) offerRepository
	db      txRunner
	vendors vendorLoader
	outbox  outbox.Emitter
	now     func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Vendors == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	repo := params.Repo
	return &service{
		repo:    repo,
		txRepo:  func(tx *gorm.DB) offerRepository { return repo.WithTx(tx) },
		db:      params.DB,
		vendors: params.Vendors,
		outbox:  params.Outbox,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Catalog(ctx context.Context, q CatalogQuery) (*OfferPage, error) {
	sort := q.Sort
	if sort == "" {
		sort = enums.OfferSortNewest
	}
	cursor, err := pagination.ParseSortedCursor(q.Cursor, sort == enums.OfferSortTrending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	if q.AgeRange != nil && !q.AgeRange.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid age_range")
	}

	limit := pagination.NormalizeLimit(q.Limit)
	rows, err := s.repo.ListCatalog(ctx, catalogFilter{
		CategorySlug: q.CategorySlug,
		Search:       q.Search,
		AgeRange:     q.AgeRange,
		FeaturedOnly: q.FeaturedOnly,
		Sort:         sort,
		Now:          s.now(),
		Limit:        pagination.LimitWithBuffer(q.Limit),
		Cursor:       cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}

	page := &OfferPage{Items: make([]OfferDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next := pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
		if sort == enums.OfferSortTrending {
			score := int64(0)
			if last.ClickCount != nil {
				score = *last.ClickCount
			}
			next.Score = &score
		}
		page.NextCursor = pagination.EncodeCursor(next)
	}
	for _, row := range rows {
		page.Items = append(page.Items, row.toDTO())
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OfferDTO, error) {
	row, err := s.repo.FindApproved(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	dto := row.toDTO()
	return &dto, nil
}

func (s *service) Create(ctx context.Context, principal identity.Principal, input OfferInput) (*OfferDTO, error) {
	vendor, err := requireVendor(principal)
	if err != nil {
		return nil, err
	}
	if problems := validateInput(input); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid offer").WithDetails(problems)
	}
	return s.submit(ctx, vendor, input.toModel(vendor.VendorID))
}

func (s *service) Clone(ctx context.Context, principal identity.Principal, id uuid.UUID) (*OfferDTO, error) {
	vendor, err := requireVendor(principal)
	if err != nil {
		return nil, err
	}
	src, err := s.loadOwned(ctx, vendor, id)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, vendor, cloneOf(src))
}

// submit inserts a pending offer and queues the submission email in the
// same transaction.
func (s *service) submit(ctx context.Context, vendor identity.Vendor, offer *models.Offer) (*OfferDTO, error) {
	owner, err := s.vendors.FindByID(ctx, vendor.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor account not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.txRepo(tx).Create(ctx, offer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert offer")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventOfferSubmitted,
			AggregateType: enums.AggregateOffer,
			AggregateID:   offer.ID,
			Actor:         &outbox.ActorRef{UserID: vendor.UserID, Kind: enums.PrincipalVendor},
			Data: payloads.OfferSubmittedEvent{
				OfferID:     offer.ID,
				VendorID:    owner.ID,
				VendorName:  owner.Name,
				VendorEmail: owner.Email,
				Title:       offer.Title,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit offer submitted")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create offer")
	}

	dto := FromModel(offer)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, principal identity.Principal, status *enums.OfferStatus, limit int, cursor string) (*OfferPage, error) {
	vendor, err := requireVendor(principal)
	if err != nil {
		return nil, err
	}
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	decoded, err := pagination.ParseSortedCursor(cursor, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	normalized := pagination.NormalizeLimit(limit)
	rows, err := s.repo.ListByVendor(ctx, vendor.VendorID, status, pagination.LimitWithBuffer(limit), decoded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor offers")
	}

	page := &OfferPage{Items: make([]OfferDTO, 0, len(rows))}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		page.Items = append(page.Items, FromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) GetMine(ctx context.Context, principal identity.Principal, id uuid.UUID) (*OfferDTO, error) {
	vendor, err := requireVendor(principal)
	if err != nil {
		return nil, err
	}
	offer, err := s.loadOwned(ctx, vendor, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(offer)
	return &dto, nil
}

// Update edits the vendor's offer. Any edit to an approved or rejected offer
// sends it back to moderation and drops the featured flag.
func (s *service) Update(ctx context.Context, principal identity.Principal, id uuid.UUID, input UpdateOfferInput) (*OfferDTO, error) {
	vendor, err := requireVendor(principal)
	if err != nil {
		return nil, err
	}
	updates, problems := input.updates()
	if len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid offer").WithDetails(problems)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	current, err := s.loadOwned(ctx, vendor, id)
	if err != nil {
		return nil, err
	}
	if current.Status != enums.OfferStatusPending {
		updates["status"] = enums.OfferStatusPending
		updates["is_featured"] = false
	}
	updates["updated_at"] = s.now()

	affected, err := s.repo.UpdateOwned(ctx, id, vendor.VendorID, updates)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update offer")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	return s.GetMine(ctx, principal, id)
}

func (s *service) Delete(ctx context.Context, principal identity.Principal, id uuid.UUID) error {
	vendor, err := requireVendor(principal)
	if err != nil {
		return err
	}
	affected, err := s.repo.DeleteOwned(ctx, id, vendor.VendorID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete offer")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, vendor identity.Vendor, id uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.FindOwned(ctx, id, vendor.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	return offer, nil
}

func requireVendor(principal identity.Principal) (identity.Vendor, error) {
	vendor, ok := principal.(identity.Vendor)
	if !ok {
		return identity.Vendor{}, pkgerrors.New(pkgerrors.CodeForbidden, "vendor access required")
	}
	return vendor, nil
}
