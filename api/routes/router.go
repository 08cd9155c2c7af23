package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/babydeals-backend/api/controllers"
	webhookcontrollers "github.com/angelmondragon/babydeals-backend/api/controllers/webhooks"
	"github.com/angelmondragon/babydeals-backend/api/middleware"
	"github.com/angelmondragon/babydeals-backend/internal/admin"
	"github.com/angelmondragon/babydeals-backend/internal/ads"
	"github.com/angelmondragon/babydeals-backend/internal/auth"
	"github.com/angelmondragon/babydeals-backend/internal/categories"
	"github.com/angelmondragon/babydeals-backend/internal/clicks"
	"github.com/angelmondragon/babydeals-backend/internal/contact"
	"github.com/angelmondragon/babydeals-backend/internal/favorites"
	"github.com/angelmondragon/babydeals-backend/internal/moderation"
	"github.com/angelmondragon/babydeals-backend/internal/offers"
	"github.com/angelmondragon/babydeals-backend/internal/profiles"
	"github.com/angelmondragon/babydeals-backend/pkg/auth/session"
	"github.com/angelmondragon/babydeals-backend/pkg/config"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
	"github.com/angelmondragon/babydeals-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/babydeals-backend/pkg/redis"
)

// Cache is the slice of the redis client the HTTP layer needs.
type Cache interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Ping(ctx context.Context) error
}

type stripeSigner interface {
	SigningSecret() string
}

type webhookGuard interface {
	CheckAndMark(ctx context.Context, eventID string) (bool, error)
	Delete(ctx context.Context, eventID string) error
}

// Dependencies carries everything NewRouter wires into handlers. Nil
// services make their endpoints answer INTERNAL_ERROR.
type Dependencies struct {
	Config        *config.Config
	Logger        *logger.Logger
	DB            controllers.Pinger
	Cache         Cache
	Sessions      session.AccessSessionChecker
	Principals    middleware.PrincipalResolver
	HTTPMetrics   *metrics.HTTPMetrics
	Gatherer      prometheus.Gatherer
	PublicLimiter *middleware.IPRateLimiter

	Auth       auth.Service
	Register   auth.RegisterService
	Profiles   profiles.Service
	Categories categories.Service
	Offers     offers.Service
	Moderation moderation.Service
	Favorites  favorites.Service
	Clicks     clicks.Service
	Ads        ads.Service
	Contact    contact.Service
	Admin      admin.Service

	StripeWebhook      webhookcontrollers.StripeWebhookService
	StripeClient       stripeSigner
	StripeWebhookGuard webhookGuard
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	var rateStore interface {
		IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	}
	var idempotencyStore pkgredis.IdempotencyStore
	var cachePinger controllers.Pinger
	if deps.Cache != nil {
		rateStore = deps.Cache
		idempotencyStore = deps.Cache
		cachePinger = deps.Cache
	}

	loginPolicy := middleware.NewFormThrottlePolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewFormThrottlePolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	contactPolicy := middleware.NewFormThrottlePolicy(
		"contact",
		cfg.AuthRateLimit.ContactWindow,
		cfg.AuthRateLimit.ContactIPLimit,
		cfg.AuthRateLimit.ContactEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, cachePinger))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.PublicLimiter, logg))
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, deps.Principals, logg))

		r.Get("/categories", controllers.PublicCategories(deps.Categories, logg))
		r.Get("/offers", controllers.PublicCatalog(deps.Offers, logg))
		r.Get("/offers/{offerId}", controllers.PublicOfferDetail(deps.Offers, logg))
		r.Get("/offers/{offerId}/claim", controllers.ClaimRedirect(deps.Clicks, logg))
		r.Post("/offers/{offerId}/claim", controllers.ClaimOffer(deps.Clicks, logg))
		r.Get("/ads", controllers.PublicActiveAds(deps.Ads, logg))
		r.Post("/ads/quote", controllers.AdQuote(deps.Ads, logg))
		r.With(middleware.FormThrottle(contactPolicy, rateStore, logg)).Post("/contact", controllers.SubmitContact(deps.Contact, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(deps.StripeWebhook, deps.StripeClient, deps.StripeWebhookGuard, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.FormThrottle(loginPolicy, rateStore, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.FormThrottle(registerPolicy, rateStore, logg)).Post("/register", controllers.AuthRegister(deps.Register, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, deps.Principals, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Get("/me", controllers.Me(deps.Profiles, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireKind(logg, enums.PrincipalMother))
			r.Post("/me/onboarding", controllers.CompleteOnboarding(deps.Profiles, logg))

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.ListFavorites(deps.Favorites, logg))
				r.Get("/ids", controllers.FavoriteIDs(deps.Favorites, logg))
				r.Post("/{offerId}", controllers.AddFavorite(deps.Favorites, logg))
				r.Delete("/{offerId}", controllers.RemoveFavorite(deps.Favorites, logg))
				r.Post("/{offerId}/toggle", controllers.ToggleFavorite(deps.Favorites, logg))
			})
		})

		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.RequireKind(logg, enums.PrincipalVendor))

			r.Patch("/profile", controllers.VendorUpdateProfile(deps.Profiles, logg))
			r.Get("/stats", controllers.VendorClickStats(deps.Clicks, logg))

			r.Route("/offers", func(r chi.Router) {
				r.Get("/", controllers.VendorListOffers(deps.Offers, logg))
				r.Post("/", controllers.VendorCreateOffer(deps.Offers, logg))
				r.Get("/{offerId}", controllers.VendorGetOffer(deps.Offers, logg))
				r.Patch("/{offerId}", controllers.VendorUpdateOffer(deps.Offers, logg))
				r.Delete("/{offerId}", controllers.VendorDeleteOffer(deps.Offers, logg))
				r.Post("/{offerId}/clone", controllers.VendorCloneOffer(deps.Offers, logg))
			})

			r.Route("/ads", func(r chi.Router) {
				r.Get("/", controllers.VendorListAds(deps.Ads, logg))
				r.Post("/", controllers.VendorCreateAd(deps.Ads, logg))
				r.Post("/verify", controllers.VendorVerifyPayment(deps.Ads, logg))
				r.Post("/{adId}/checkout", controllers.VendorCheckoutAd(deps.Ads, logg))
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, deps.Principals, logg))
		r.Use(middleware.RequireAdmin(logg))

		r.Get("/dashboard", controllers.AdminDashboard(deps.Admin, logg))

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", controllers.AdminModerationQueue(deps.Moderation, logg))
			r.Post("/{offerId}/approve", controllers.AdminApproveOffer(deps.Moderation, logg))
			r.Post("/{offerId}/reject", controllers.AdminRejectOffer(deps.Moderation, logg))
			r.Patch("/{offerId}/featured", controllers.AdminSetFeatured(deps.Moderation, logg))
			r.Delete("/{offerId}", controllers.AdminDeleteOffer(deps.Moderation, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(deps.Admin, logg))
			r.Post("/{userId}/toggle-active", controllers.AdminToggleUserActive(deps.Admin, logg))
			r.Patch("/{userId}/role", controllers.AdminChangeUserRole(deps.Admin, logg))
		})

		r.Route("/vendors", func(r chi.Router) {
			r.Get("/", controllers.AdminListVendors(deps.Admin, logg))
			r.Patch("/{vendorId}/suspension", controllers.AdminSetVendorSuspended(deps.Admin, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.AdminListCategories(deps.Categories, logg))
			r.Post("/", controllers.AdminCreateCategory(deps.Categories, logg))
			r.Patch("/{categoryId}", controllers.AdminUpdateCategory(deps.Categories, logg))
			r.Delete("/{categoryId}", controllers.AdminDeleteCategory(deps.Categories, logg))
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", controllers.AdminListMessages(deps.Contact, logg))
			r.Post("/{messageId}/toggle-read", controllers.AdminToggleMessageRead(deps.Contact, logg))
			r.Delete("/{messageId}", controllers.AdminDeleteMessage(deps.Contact, logg))
		})

		r.Route("/ads", func(r chi.Router) {
			r.Get("/", controllers.AdminListAds(deps.Admin, logg))
			r.Patch("/{adId}/paid", controllers.AdminSetAdPaid(deps.Ads, logg))
		})
	})

	return r
}
