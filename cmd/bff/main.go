package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/homenest/homenest-bff-go/internal/config"
	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/handler"
	"github.com/homenest/homenest-bff-go/internal/infra/backend"
	"github.com/homenest/homenest-bff-go/internal/infra/cache"
	"github.com/homenest/homenest-bff-go/internal/infra/identity"
	"github.com/homenest/homenest-bff-go/internal/infra/observability"
	"github.com/homenest/homenest-bff-go/internal/infra/payment"
	"github.com/homenest/homenest-bff-go/internal/infra/resilience"
	"github.com/homenest/homenest-bff-go/internal/infra/store"
	"github.com/homenest/homenest-bff-go/internal/service"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = godotenv.Load()

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("backend_api_url", cfg.BackendAPIURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("reconcile_timeout", cfg.ReconcileTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "homenest-bff")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Session store ---
	sessions, err := store.Open(cfg.SessionDBPath)
	if err != nil {
		logger.Fatal("failed to open session store", zap.Error(err))
	}
	defer sessions.Close()

	// --- Cache ---
	propertyCache := cache.New[[]domain.Property](cfg.CacheTTL)

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	backendCB := resilience.NewCircuitBreaker("marketplace-backend")
	identityCB := resilience.NewCircuitBreaker("identity-provider")
	processorCB := resilience.NewCircuitBreaker("payment-processor")

	// --- Clients ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	identityClient := identity.NewClient(httpClient, cfg.IdentityAPIURL, cfg.IdentityAPIKey, identityCB, resilienceCfg)
	backendClient := backend.NewClient(httpClient, cfg.BackendAPIURL, sessions, backendCB, resilienceCfg, logger)
	processorClient := payment.NewClient(httpClient, cfg.ProcessorAPIURL, cfg.ProcessorAPIKey, processorCB, logger)

	// --- Auth-state stream ---
	events := identity.NewStream()
	defer events.Close()

	// --- Services ---
	sessionMgr := service.NewSessionManager(identityClient, backendClient, sessions, metrics, logger, cfg.ReconcileTimeout)
	tokens := service.NewSessionTokens(cfg.JWTSecret, cfg.SessionTTL)
	propertySvc := service.NewPropertyService(backendClient, sessions, propertyCache, metrics, logger)
	offerSvc := service.NewOfferService(backendClient, backendClient, backendClient, processorClient, sessions, metrics, logger)
	wishlistSvc := service.NewWishlistService(backendClient, sessions)
	userSvc := service.NewUserAdminService(backendClient, sessions, logger)
	reviewSvc := service.NewReviewService(backendClient, sessions)

	// --- Session manager loop ---
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	eventCh, unsubscribe := events.Subscribe()
	defer unsubscribe()
	go sessionMgr.Run(runCtx, eventCh)

	// --- Expired session sweeper ---
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				n, err := sessions.PurgeOlderThan(runCtx, time.Now().Add(-cfg.SessionTTL))
				if err != nil {
					logger.Error("session purge failed", zap.Error(err))
				} else if n > 0 {
					logger.Info("purged expired sessions", zap.Int64("count", n))
				}
			}
		}
	}()

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Sessions:   sessionMgr,
		Tokens:     tokens,
		Provider:   identityClient,
		Events:     events,
		Properties: propertySvc,
		Offers:     offerSvc,
		Wishlist:   wishlistSvc,
		Users:      userSvc,
		Reviews:    reviewSvc,
		Metrics:    metrics,
		Logger:     logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
