package ads

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/pkg/db/models"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
	"github.com/angelmondragon/babydeals-backend/pkg/metrics"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox/payloads"
	pkgstripe "github.com/angelmondragon/babydeals-backend/pkg/stripe"
)

const (
	metadataAdID     = "ad_id"
	metadataVendorID = "vendor_id"

	sessionPlaceholder = "{CHECKOUT_SESSION_ID}"
)

// Service prices, sells and reconciles homepage ad placements.
type Service interface {
	Quote(ctx context.Context, req QuoteRequest) (*Quote, error)
	Create(ctx context.Context, principal identity.Principal, input CreateAdInput) (*AdDTO, error)
	ListMine(ctx context.Context, principal identity.Principal) ([]AdDTO, error)
	Checkout(ctx context.Context, principal identity.Principal, adID uuid.UUID) (*CheckoutResponse, error)
	Verify(ctx context.Context, principal identity.Principal, sessionID string) (*VerifyResponse, error)
	Reconcile(ctx context.Context, session *stripe.CheckoutSession, source string) (*VerifyResponse, error)
	SetPaid(ctx context.Context, actor identity.Principal, adID uuid.UUID, paid bool) (*AdDTO, error)
	ListActive(ctx context.Context) ([]PublicAdDTO, error)
	ListAll(ctx context.Context) ([]AdDTO, error)
	CountPaid(ctx context.Context) (int64, error)
}

type adRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ad, error)
	FindOwned(ctx context.Context, id, vendorID uuid.UUID) (*models.Ad, error)
	ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]models.Ad, error)
	ListAll(ctx context.Context) ([]adRecord, error)
	ListActive(ctx context.Context, day time.Time) ([]adRecord, error)
	SetSessionID(ctx context.Context, id uuid.UUID, sessionID string, now time.Time) (int64, error)
	MarkPaid(ctx context.Context, id uuid.UUID, sessionID *string, amountCents int64, now time.Time) (int64, error)
	MarkUnpaid(ctx context.Context, id uuid.UUID, now time.Time) (int64, error)
	CountPaid(ctx context.Context) (int64, error)
}

type vendorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentRecorder interface {
	IncConfirmed(source, currency string, amountCents int64)
}

// CheckoutURLs are the hosted checkout return pages.
type CheckoutURLs struct {
	SuccessURL string
	CancelURL  string
}

// ServiceParams groups dependencies for the ad service.
type ServiceParams struct {
	Repo     *Repository
	DB       txRunner
	Vendors  vendorLoader
	Outbox   outbox.Emitter
	Sessions pkgstripe.CheckoutSessions
	URLs     CheckoutURLs
	Pricing  Pricing
	Metrics  paymentRecorder
	Logger   *logger.Logger
}

type service struct {
	repo     adRepository
	txRepo   func(tx *gorm.DB) adRepository
	db       txRunner
	vendors  vendorLoader
	outbox   outbox.Emitter
	sessions pkgstripe.CheckoutSessions
	urls     CheckoutURLs
	pricing  Pricing
	metrics  paymentRecorder
	logg     *logger.Logger
	now      func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("ad repository required")
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
	if params.Sessions == nil {
		return nil, fmt.Errorf("checkout sessions required")
	}
	if params.URLs.SuccessURL == "" || params.URLs.CancelURL == "" {
		return nil, fmt.Errorf("checkout success and cancel urls required")
	}
	if params.Pricing.DayRateCents <= 0 {
		return nil, fmt.Errorf("ad day rate must be positive")
	}
	pricing := params.Pricing
	if pricing.Currency == "" {
		pricing.Currency = "usd"
	}
	repo := params.Repo
	return &service{
		repo:     repo,
		txRepo:   func(tx *gorm.DB) adRepository { return repo.WithTx(tx) },
		db:       params.DB,
		vendors:  params.Vendors,
		outbox:   params.Outbox,
		sessions: params.Sessions,
		urls:     params.URLs,
		pricing:  pricing,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	return s.pricing.Quote(req.StartDate, req.EndDate, s.now())
}

// Create stores an unpaid draft priced at the current day rate.
func (s *service) Create(ctx context.Context, principal identity.Principal, input CreateAdInput) (*AdDTO, error) {
	vendor, err := requireVendor(principal)
	if err != nil {
		return nil, err
	}
	now := s.now()
	start, end, err := s.pricing.validateRange(input.StartDate, input.EndDate, now)
	if err != nil {
		return nil, err
	}
	cents, _ := s.pricing.Price(start, end)

	ad := &models.Ad{
		VendorID:    vendor.VendorID,
		StartDate:   start,
		EndDate:     end,
		Headline:    trimmed(input.Headline),
		ImageURL:    trimmed(input.ImageURL),
		LinkURL:     trimmed(input.LinkURL),
		AmountCents: cents,
		Currency:    s.pricing.Currency,
	}
	if err := s.repo.Create(ctx, ad); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ad")
	}
	dto := FromModel(ad, "", now)
	return &dto, nil
}

func (s *service) ListMine(ctx context.Context, principal identity.Principal) ([]AdDTO, error) {
	vendor, err := requireVendor(principal)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByVendor(ctx, vendor.VendorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor ads")
	}
	today := s.now()
	out := make([]AdDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i], "", today))
	}
	return out, nil
}

// Checkout opens a hosted payment page for an unpaid ad and binds the
// session to it.
func (s *service) Checkout(ctx context.Context, principal identity.Principal, adID uuid.UUID) (*CheckoutResponse, error) {
	vendor, err := requireVendor(principal)
	if err != nil {
		return nil, err
	}
	ad, err := s.repo.FindOwned(ctx, adID, vendor.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ad not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ad")
	}
	if ad.Paid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ad already paid")
	}
	now := s.now()
	if Day(ad.EndDate).Before(Day(now)) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ad window has already ended")
	}

	params := s.checkoutParams(ad)
	session, err := s.sessions.Create(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "create checkout session")
	}
	if session == nil || session.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodePayment, "checkout session missing id")
	}

	affected, err := s.repo.SetSessionID(ctx, ad.ID, session.ID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store checkout session")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ad already paid")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"ad_id":      ad.ID.String(),
			"session_id": session.ID,
		})
		s.logg.Info(logCtx, "checkout session created")
	}
	return &CheckoutResponse{AdID: ad.ID, SessionID: session.ID, URL: session.URL}, nil
}

func (s *service) checkoutParams(ad *models.Ad) *stripe.CheckoutSessionParams {
	days := DaysInclusive(ad.StartDate, ad.EndDate)
	name := fmt.Sprintf("Homepage ad %s to %s", ad.StartDate.Format(dateLayout), ad.EndDate.Format(dateLayout))
	description := fmt.Sprintf("%d day banner placement", days)
	return &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(withSessionPlaceholder(s.urls.SuccessURL)),
		CancelURL:         stripe.String(s.urls.CancelURL),
		ClientReferenceID: stripe.String(ad.ID.String()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(ad.Currency),
					UnitAmount: stripe.Int64(ad.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(name),
						Description: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			metadataAdID:     ad.ID.String(),
			metadataVendorID: ad.VendorID.String(),
		},
	}
}

// Verify re-reads the session from Stripe on the vendor's return and runs
// the shared reconciliation.
func (s *service) Verify(ctx context.Context, principal identity.Principal, sessionID string) (*VerifyResponse, error) {
	vendor, err := requireVendor(principal)
	if err != nil {
		return nil, err
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session_id is required")
	}
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePayment, err, "fetch checkout session")
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
	}
	if session.Metadata[metadataVendorID] != vendor.VendorID.String() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "checkout session belongs to another vendor")
	}
	return s.Reconcile(ctx, session, metrics.SourceVerify)
}

// Reconcile flips the ad named in the session metadata to paid and records
// the session that settled it. It is safe to call repeatedly: only the first
// confirmation writes and emits ad.paid.
func (s *service) Reconcile(ctx context.Context, session *stripe.CheckoutSession, source string) (*VerifyResponse, error) {
	if session == nil || session.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout session required")
	}
	if session.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return &VerifyResponse{Paid: false}, nil
	}
	adID, err := uuid.Parse(session.Metadata[metadataAdID])
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout session missing ad_id metadata")
	}

	amount := int64(0)
	if session.AmountTotal > 0 {
		amount = session.AmountTotal
	}
	sessionID := session.ID
	checkOwner := func(ad *models.Ad) error {
		// any session opened for this ad may settle it, not only the latest
		if session.Metadata[metadataVendorID] != ad.VendorID.String() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "checkout session vendor does not own ad").
				WithDetails(map[string]any{"ad_id": ad.ID.String()})
		}
		return nil
	}
	paidAd, newlyPaid, err := s.settle(ctx, adID, &sessionID, amount, nil, checkOwner)
	if err != nil {
		return nil, err
	}
	if newlyPaid {
		s.recordPayment(ctx, paidAd, source, map[string]any{"session_id": session.ID})
	}
	dto := FromModel(paidAd, "", s.now())
	return &VerifyResponse{Paid: true, AdID: &paidAd.ID, Ad: &dto}, nil
}

// SetPaid lets an operator settle an ad paid outside Stripe, or pull a paid
// ad off the homepage. Settling shares the reconciliation write and emits
// ad.paid once.
func (s *service) SetPaid(ctx context.Context, actor identity.Principal, adID uuid.UUID, paid bool) (*AdDTO, error) {
	admin, ok := actor.(identity.Admin)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required")
	}
	now := s.now()
	if !paid {
		affected, err := s.repo.MarkUnpaid(ctx, adID, now)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark ad unpaid")
		}
		ad, err := s.load(ctx, adID)
		if err != nil {
			return nil, err
		}
		if affected > 0 && s.logg != nil {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"ad_id":    ad.ID.String(),
				"admin_id": admin.UserID.String(),
			}), "ad deactivated by admin")
		}
		dto := FromModel(ad, "", now)
		return &dto, nil
	}

	actorRef := &outbox.ActorRef{UserID: admin.UserID, Kind: enums.PrincipalAdmin}
	paidAd, newlyPaid, err := s.settle(ctx, adID, nil, 0, actorRef, nil)
	if err != nil {
		return nil, err
	}
	if newlyPaid {
		s.recordPayment(ctx, paidAd, metrics.SourceAdmin, map[string]any{"admin_id": admin.UserID.String()})
	}
	dto := FromModel(paidAd, "", now)
	return &dto, nil
}

// settle is the single write path that marks an ad paid. A nil sessionID
// keeps whatever session is stored; amount zero keeps the quoted price.
func (s *service) settle(ctx context.Context, adID uuid.UUID, sessionID *string, amount int64, actor *outbox.ActorRef, check func(*models.Ad) error) (*models.Ad, bool, error) {
	now := s.now()
	var (
		paidAd    *models.Ad
		newlyPaid bool
	)
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.txRepo(tx)
		ad, err := repo.FindByID(ctx, adID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "ad not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load ad")
		}
		if ad.Paid {
			paidAd = ad
			return nil
		}
		if check != nil {
			if err := check(ad); err != nil {
				return err
			}
		}

		if amount <= 0 {
			amount = ad.AmountCents
		}
		affected, err := repo.MarkPaid(ctx, ad.ID, sessionID, amount, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark ad paid")
		}
		if affected == 0 {
			// lost the race to a concurrent confirmation
			paidAd = ad
			paidAd.Paid = true
			return nil
		}
		ad.Paid = true
		ad.PaidAt = &now
		ad.AmountCents = amount
		if sessionID != nil {
			ad.StripeSessionID = sessionID
		}
		paidAd = ad
		newlyPaid = true

		vendor, err := s.vendors.FindByID(ctx, ad.VendorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load vendor")
		}
		if actor == nil {
			actor = &outbox.ActorRef{UserID: vendor.UserID, Kind: enums.PrincipalVendor}
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventAdPaid,
			AggregateType: enums.AggregateAd,
			AggregateID:   ad.ID,
			Actor:         actor,
			Data: payloads.AdPaidEvent{
				AdID:        ad.ID,
				VendorID:    vendor.ID,
				VendorName:  vendor.Name,
				VendorEmail: vendor.Email,
				StartDate:   ad.StartDate.Format(dateLayout),
				EndDate:     ad.EndDate.Format(dateLayout),
				AmountCents: amount,
				Currency:    ad.Currency,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit ad paid")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, false, err
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reconcile ad payment")
	}
	return paidAd, newlyPaid, nil
}

func (s *service) recordPayment(ctx context.Context, ad *models.Ad, source string, fields map[string]any) {
	if s.metrics != nil {
		s.metrics.IncConfirmed(source, ad.Currency, ad.AmountCents)
	}
	if s.logg == nil {
		return
	}
	fields["ad_id"] = ad.ID.String()
	fields["source"] = source
	s.logg.Info(s.logg.WithFields(ctx, fields), "ad payment confirmed")
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ad not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ad")
	}
	return ad, nil
}

// ListActive returns the banners showing today.
func (s *service) ListActive(ctx context.Context) ([]PublicAdDTO, error) {
	rows, err := s.repo.ListActive(ctx, Day(s.now()))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active ads")
	}
	out := make([]PublicAdDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toPublic())
	}
	return out, nil
}

func (s *service) ListAll(ctx context.Context) ([]AdDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ads")
	}
	today := s.now()
	out := make([]AdDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i].Ad, rows[i].VendorName, today))
	}
	return out, nil
}

func (s *service) CountPaid(ctx context.Context) (int64, error) {
	count, err := s.repo.CountPaid(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count paid ads")
	}
	return count, nil
}

func withSessionPlaceholder(raw string) string {
	if strings.Contains(raw, sessionPlaceholder) {
		return raw
	}
	sep := "?"
	if strings.Contains(raw, "?") {
		sep = "&"
	}
	return raw + sep + "session_id=" + sessionPlaceholder
}

func requireVendor(principal identity.Principal) (identity.Vendor, error) {
	vendor, ok := principal.(identity.Vendor)
	if !ok {
		return identity.Vendor{}, pkgerrors.New(pkgerrors.CodeForbidden, "vendor access required")
	}
	return vendor, nil
}
