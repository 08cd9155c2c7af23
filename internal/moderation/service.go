package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/offers"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/babydeals-backend/pkg/pagination"
)

// Service implements the admin review workflow for offers.
type Service interface {
	Approve(ctx context.Context, actor identity.Principal, id uuid.UUID) (*offers.OfferDTO, error)
	Reject(ctx context.Context, actor identity.Principal, id uuid.UUID) (*offers.OfferDTO, error)
	SetFeatured(ctx context.Context, actor identity.Principal, id uuid.UUID, featured bool) (*offers.OfferDTO, error)
	Delete(ctx context.Context, actor identity.Principal, id uuid.UUID) error
	Queue(ctx context.Context, status enums.OfferStatus, limit int, cursor string) (*QueuePage, error)
	RecentPending(ctx context.Context, limit int) ([]QueueItem, error)
	Count(ctx context.Context, status *enums.OfferStatus) (int64, error)
}

type repository interface {
	TransitionFromPending(ctx context.Context, id uuid.UUID, to enums.OfferStatus, at time.Time) (int64, error)
	SetFeatured(ctx context.Context, id uuid.UUID, featured bool, at time.Time) (int64, error)
	DeleteOffer(ctx context.Context, id uuid.UUID) (int64, error)
	FindOffer(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	FindVendor(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	ListQueue(ctx context.Context, status enums.OfferStatus, limit int, cursor *pagination.Cursor) ([]queueRecord, error)
	RecentPending(ctx context.Context, limit int) ([]queueRecord, error)
	CountByStatus(ctx context.Context, status *enums.OfferStatus) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo   repository
	txRepo func(tx *gorm.DB) repository
	db     txRunner
	outbox outbox.Emitter
	now    func() time.Time
}

func NewService(repo *Repository, db txRunner, emitter outbox.Emitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("moderation repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("db client required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	return &service{
		repo:   repo,
		txRepo: func(tx *gorm.DB) repository { return repo.WithTx(tx) },
		db:     db,
		outbox: emitter,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Approve(ctx context.Context, actor identity.Principal, id uuid.UUID) (*offers.OfferDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	var approved *models.Offer
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		if err := s.transition(ctx, repo, id, enums.OfferStatusApproved); err != nil {
			return err
		}
		offer, err := repo.FindOffer(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload offer")
		}
		vendor, err := repo.FindVendor(ctx, offer.VendorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventOfferApproved,
			AggregateType: enums.AggregateOffer,
			AggregateID:   offer.ID,
			Actor:         &outbox.ActorRef{UserID: actor.Subject(), Kind: actor.Kind()},
			Data: payloads.OfferApprovedEvent{
				OfferID:     offer.ID,
				VendorID:    vendor.ID,
				VendorName:  vendor.Name,
				VendorEmail: vendor.Email,
				Title:       offer.Title,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit offer approved")
		}
		approved = offer
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err, "approve offer")
	}
	dto := offers.FromModel(approved)
	return &dto, nil
}

func (s *service) Reject(ctx context.Context, actor identity.Principal, id uuid.UUID) (*offers.OfferDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, s.repo, id, enums.OfferStatusRejected); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// transition runs the conditional update and explains a zero-row result.
func (s *service) transition(ctx context.Context, repo repository, id uuid.UUID, to enums.OfferStatus) error {
	affected, err := repo.TransitionFromPending(ctx, id, to, s.now())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update offer status")
	}
	if affected == 1 {
		return nil
	}
	current, err := repo.FindOffer(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "offer is not pending review").
		WithDetails(map[string]any{"status": current.Status})
}

func (s *service) SetFeatured(ctx context.Context, actor identity.Principal, id uuid.UUID, featured bool) (*offers.OfferDTO, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	affected, err := s.repo.SetFeatured(ctx, id, featured, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update featured flag")
	}
	if affected == 0 {
		current, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only approved offers can be featured").
			WithDetails(map[string]any{"status": current.Status})
	}
	return s.load(ctx, id)
}

// Delete takes down an offer regardless of its moderation state.
func (s *service) Delete(ctx context.Context, actor identity.Principal, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	affected, err := s.repo.DeleteOffer(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete offer")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
	}
	return nil
}

func (s *service) Queue(ctx context.Context, status enums.OfferStatus, limit int, cursor string) (*QueuePage, error) {
	if status == "" {
		status = enums.OfferStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	decoded, err := pagination.ParseSortedCursor(cursor, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	normalized := pagination.NormalizeLimit(limit)
	rows, err := s.repo.ListQueue(ctx, status, pagination.LimitWithBuffer(limit), decoded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list moderation queue")
	}

	page := &QueuePage{Items: make([]QueueItem, 0, len(rows))}
	if len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for _, row := range rows {
		page.Items = append(page.Items, row.toItem())
	}
	return page, nil
}

func (s *service) RecentPending(ctx context.Context, limit int) ([]QueueItem, error) {
	rows, err := s.repo.RecentPending(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent pending")
	}
	items := make([]QueueItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toItem())
	}
	return items, nil
}

func (s *service) Count(ctx context.Context, status *enums.OfferStatus) (int64, error) {
	count, err := s.repo.CountByStatus(ctx, status)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count offers")
	}
	return count, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*offers.OfferDTO, error) {
	offer, err := s.repo.FindOffer(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offer")
	}
	dto := offers.FromModel(offer)
	return &dto, nil
}

func requireAdmin(actor identity.Principal) error {
	if _, ok := actor.(identity.Admin); !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	return nil
}

func wrapTxError(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
