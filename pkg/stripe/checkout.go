package stripe

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/checkout/session"
)

// CheckoutSessions is the subset of Stripe Checkout used for ad payments.
type CheckoutSessions interface {
	Create(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(ctx context.Context, id string) (*stripe.CheckoutSession, error)
}

type checkoutSessions struct{}

// NewCheckoutSessions returns the Checkout session API bound to the
// initialized client.
func NewCheckoutSessions(client *Client) (CheckoutSessions, error) {
	if client == nil {
		return nil, errors.New("stripe client is required")
	}
	return &checkoutSessions{}, nil
}

func (c *checkoutSessions) Create(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params == nil {
		return nil, errors.New("checkout session params required")
	}
	params.Context = ctx
	return session.New(params)
}

func (c *checkoutSessions) Get(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	return session.Get(id, params)
}
