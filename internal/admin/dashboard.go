package admin

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/moderation"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
)

// Dashboard gathers the console counters concurrently. The first failing
// query cancels the rest.
func (s *service) Dashboard(ctx context.Context, actor identity.Principal) (*Dashboard, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var out Dashboard
	pending := enums.OfferStatusPending
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		out.TotalOffers, err = s.offers.Count(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		out.PendingOffers, err = s.offers.Count(gctx, &pending)
		return err
	})
	g.Go(func() error {
		var err error
		out.TotalVendors, err = s.vendorCount.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.PaidAds, err = s.ads.CountPaid(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.TotalUsers, err = s.accounts.CountProfiles(gctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		out.UnreadMessages, err = s.messages.CountUnread(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentPending, err = s.offers.RecentPending(gctx, recentPendingLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard")
	}
	if out.RecentPending == nil {
		out.RecentPending = []moderation.QueueItem{}
	}
	return &out, nil
}
