package stripewebhook

import (
	"context"
	"encoding/json"

	"github.com/stripe/stripe-go/v84"

	"github.com/angelmondragon/babydeals-backend/internal/ads"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
	"github.com/angelmondragon/babydeals-backend/pkg/metrics"
)

type adReconciler interface {
	Reconcile(ctx context.Context, session *stripe.CheckoutSession, source string) (*ads.VerifyResponse, error)
}

type ServiceParams struct {
	Ads    adReconciler
	Logger *logger.Logger
}

// Service routes Stripe checkout events into ad reconciliation.
type Service struct {
	ads  adReconciler
	logg *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Ads == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "ads service required")
	}
	return &Service{ads: params.Ads, logg: params.Logger}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout session event")
		}
		if session.Metadata["ad_id"] == "" {
			// not an ad checkout
			s.debug(ctx, event, "checkout session without ad_id ignored")
			return nil
		}
		result, err := s.ads.Reconcile(ctx, &session, metrics.SourceWebhook)
		if err != nil {
			if permanent(err) {
				// a retry cannot change the outcome; ack so Stripe stops resending
				s.warn(ctx, event, &session, err)
				return nil
			}
			return err
		}
		if !result.Paid {
			s.debug(ctx, event, "checkout session not paid yet")
		}
		return nil
	default:
		return nil
	}
}

// permanent reports reconcile failures that depend only on the event payload.
func permanent(err error) bool {
	return pkgerrors.IsCode(err, pkgerrors.CodeValidation) ||
		pkgerrors.IsCode(err, pkgerrors.CodeNotFound) ||
		pkgerrors.IsCode(err, pkgerrors.CodeForbidden)
}

func (s *Service) warn(ctx context.Context, event *stripe.Event, session *stripe.CheckoutSession, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"event_id":   event.ID,
		"event_type": string(event.Type),
		"session_id": session.ID,
		"ad_id":      session.Metadata["ad_id"],
		"error":      err.Error(),
	}), "stripe checkout event not reconcilable")
}

func (s *Service) debug(ctx context.Context, event *stripe.Event, msg string) {
	if s.logg == nil {
		return
	}
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"event_id":   event.ID,
		"event_type": string(event.Type),
	}), msg)
}
