package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/babydeals-backend/api/middleware"
	"github.com/angelmondragon/babydeals-backend/api/routes"
	"github.com/angelmondragon/babydeals-backend/internal/admin"
	"github.com/angelmondragon/babydeals-backend/internal/ads"
	"github.com/angelmondragon/babydeals-backend/internal/auth"
	"github.com/angelmondragon/babydeals-backend/internal/categories"
	"github.com/angelmondragon/babydeals-backend/internal/clicks"
	"github.com/angelmondragon/babydeals-backend/internal/contact"
	"github.com/angelmondragon/babydeals-backend/internal/favorites"
	"github.com/angelmondragon/babydeals-backend/internal/identity"
	"github.com/angelmondragon/babydeals-backend/internal/moderation"
	"github.com/angelmondragon/babydeals-backend/internal/offers"
	"github.com/angelmondragon/babydeals-backend/internal/profiles"
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/internal/vendors"
	stripewebhook "github.com/angelmondragon/babydeals-backend/internal/webhooks/stripe"
	"github.com/angelmondragon/babydeals-backend/pkg/auth/session"
	"github.com/angelmondragon/babydeals-backend/pkg/config"
	"github.com/angelmondragon/babydeals-backend/pkg/db"
	"github.com/angelmondragon/babydeals-backend/pkg/env"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
	"github.com/angelmondragon/babydeals-backend/pkg/metrics"
	"github.com/angelmondragon/babydeals-backend/pkg/migrate"
	"github.com/angelmondragon/babydeals-backend/pkg/outbox"
	"github.com/angelmondragon/babydeals-backend/pkg/redis"
	pkgstripe "github.com/angelmondragon/babydeals-backend/pkg/stripe"
)

const (
	stripeEventTTL  = 7 * 24 * time.Hour
	shutdownTimeout = 10 * time.Second
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	stripeClient, err := pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}
	checkoutSessions, err := pkgstripe.NewCheckoutSessions(stripeClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout sessions client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps, err := buildDependencies(cfg, logg, dbClient, redisClient, stripeClient, checkoutSessions, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"instance":   env.InstanceID(),
		"stripe_env": stripeClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx, server, redisClient, dbClient); err != nil {
			logg.Error(shutdownCtx, "api server shutdown failed", err)
		}
		logg.Info(shutdownCtx, "api server stopped")
	}
}

// shutdown drains the server first, then closes backing clients in order.
func shutdown(ctx context.Context, server *http.Server, closers ...io.Closer) error {
	err := server.Shutdown(ctx)
	for _, c := range closers {
		err = multierr.Append(err, c.Close())
	}
	return err
}

func buildDependencies(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	stripeClient *pkgstripe.Client,
	checkoutSessions pkgstripe.CheckoutSessions,
	registry *prometheus.Registry,
) (routes.Dependencies, error) {
	gdb := dbClient.DB()
	userRepo := users.NewRepository(gdb)
	vendorRepo := vendors.NewRepository(gdb)
	emitter := outbox.NewService(outbox.NewRepository(gdb), logg)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return routes.Dependencies{}, err
	}

	resolver, err := identity.NewResolver(userRepo, vendorRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		Resolver:       resolver,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		Issuer:         authService,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	vendorService, err := vendors.NewService(vendorRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}

	profileService, err := profiles.NewService(userRepo, vendorService)
	if err != nil {
		return routes.Dependencies{}, err
	}

	categoryService, err := categories.NewService(categories.NewRepository(gdb))
	if err != nil {
		return routes.Dependencies{}, err
	}

	offerService, err := offers.NewService(offers.ServiceParams{
		Repo:    offers.NewRepository(gdb),
		DB:      dbClient,
		Vendors: vendorRepo,
		Outbox:  emitter,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	moderationService, err := moderation.NewService(moderation.NewRepository(gdb), dbClient, emitter)
	if err != nil {
		return routes.Dependencies{}, err
	}

	favoriteService, err := favorites.NewService(favorites.NewRepository(gdb))
	if err != nil {
		return routes.Dependencies{}, err
	}

	clickService, err := clicks.NewService(clicks.NewRepository(gdb), logg)
	if err != nil {
		return routes.Dependencies{}, err
	}

	adService, err := ads.NewService(ads.ServiceParams{
		Repo:     ads.NewRepository(gdb),
		DB:       dbClient,
		Vendors:  vendorRepo,
		Outbox:   emitter,
		Sessions: checkoutSessions,
		URLs: ads.CheckoutURLs{
			SuccessURL: stripeClient.SuccessURL(),
			CancelURL:  stripeClient.CancelURL(),
		},
		Pricing: ads.Pricing{
			DayRateCents: cfg.Ads.DayRateCents,
			MaxDays:      cfg.Ads.MaxDays,
			Currency:     stripeClient.Currency(),
		},
		Metrics: metrics.NewPaymentMetrics(registry),
		Logger:  logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	contactService, err := contact.NewService(contact.NewRepository(gdb))
	if err != nil {
		return routes.Dependencies{}, err
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		DB:          dbClient,
		Offers:      moderationService,
		Vendors:     vendorService,
		VendorCount: vendorRepo,
		Ads:         adService,
		Messages:    contactService,
		Accounts:    userRepo,
		Sessions:    sessionManager,
		Logger:      logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{Ads: adService, Logger: logg})
	if err != nil {
		return routes.Dependencies{}, err
	}
	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, stripeEventTTL, stripewebhook.DefaultScope)
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Cache:         redisClient,
		Sessions:      sessionManager,
		Principals:    resolver,
		HTTPMetrics:   metrics.NewHTTPMetrics(registry),
		Gatherer:      registry,
		PublicLimiter: middleware.NewIPRateLimiter(cfg.RateLimit.PublicRPS, cfg.RateLimit.PublicBurst, cfg.RateLimit.IdleTTL),

		Auth:       authService,
		Register:   registerService,
		Profiles:   profileService,
		Categories: categoryService,
		Offers:     offerService,
		Moderation: moderationService,
		Favorites:  favoriteService,
		Clicks:     clickService,
		Ads:        adService,
		Contact:    contactService,
		Admin:      adminService,

		StripeWebhook:      webhookService,
		StripeClient:       stripeClient,
		StripeWebhookGuard: webhookGuard,
	}, nil
}
