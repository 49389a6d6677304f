package handler

import (
	"net/http"
	"time"

	"github.com/homenest/homenest-bff-go/internal/infra/observability"
	"github.com/homenest/homenest-bff-go/internal/port"
	"github.com/homenest/homenest-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Deps bundles everything the router needs.
type Deps struct {
	Sessions   *service.SessionManager
	Tokens     *service.SessionTokens
	Provider   port.IdentityProvider
	Events     IdentityPublisher
	Properties *service.PropertyService
	Offers     *service.OfferService
	Wishlist   *service.WishlistService
	Users      *service.UserAdminService
	Reviews    *service.ReviewService
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	logger := d.Logger

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(d.Properties, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// Session (sign-in is the only public route)
		// =============================================
		r.Post("/session", createSessionHandler(d.Provider, d.Events, d.Tokens, logger))

		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(d.Tokens, logger))
			r.Get("/session", getSessionHandler(d.Sessions, logger))
			r.Post("/session/refresh", refreshSessionHandler(d.Sessions, logger))
			r.Delete("/session", deleteSessionHandler(d.Events, logger))
		})

		// =============================================
		// Properties (public browse + search)
		// =============================================
		r.Get("/properties", listPropertiesHandler(d.Properties, logger))
		r.Get("/properties/search", searchPropertiesHandler(d.Properties, logger))

		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(d.Tokens, logger))
			r.Get("/properties/all", allPropertiesHandler(d.Properties, logger))
			r.Get("/properties/{propertyId}", getPropertyHandler(d.Properties, logger))
			r.Post("/properties", createPropertyHandler(d.Properties, logger))
			r.Patch("/properties/{propertyId}", updatePropertyHandler(d.Properties, logger))
			r.Delete("/properties/{propertyId}", deletePropertyHandler(d.Properties, logger))
			r.Patch("/properties/{propertyId}/verify", verifyPropertyHandler(d.Properties, logger))
			r.Patch("/properties/{propertyId}/advertise", advertisePropertyHandler(d.Properties, logger))
		})

		// =============================================
		// Wishlist (buyer)
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(d.Tokens, logger))
			r.Get("/wishlist", listWishlistHandler(d.Wishlist, logger))
			r.Post("/wishlist", addWishlistHandler(d.Wishlist, logger))
			r.Delete("/wishlist/{itemId}", removeWishlistHandler(d.Wishlist, logger))
		})

		// =============================================
		// Offers (buyer + agent)
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(d.Tokens, logger))
			r.Post("/offers", createOfferHandler(d.Offers, logger))
			r.Get("/offers/mine", myOffersHandler(d.Offers, logger))
			r.Get("/offers/requested", requestedOffersHandler(d.Offers, logger))
			r.Get("/offers/sold", soldOffersHandler(d.Offers, logger))
			r.Get("/offers/dashboard", agentDashboardHandler(d.Offers, logger))
			r.Delete("/offers/{offerId}", deleteOfferHandler(d.Offers, logger))
			r.Post("/offers/{offerId}/pay", payOfferHandler(d.Offers, logger))
			r.Patch("/offers/{offerId}/accept", acceptOfferHandler(d.Offers, logger))
			r.Patch("/offers/{offerId}/reject", rejectOfferHandler(d.Offers, logger))
		})

		// =============================================
		// Users (admin)
		// =============================================
		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(d.Tokens, logger))
			r.Get("/users", listUsersHandler(d.Users, logger))
			r.Patch("/users/{userId}/make-admin", makeAdminHandler(d.Users, logger))
			r.Patch("/users/{userId}/make-agent", makeAgentHandler(d.Users, logger))
			r.Patch("/users/{userId}/mark-fraud", markFraudHandler(d.Users, logger))
			r.Delete("/users/{userId}", deleteUserHandler(d.Users, logger))
		})

		// =============================================
		// Reviews (property view is public)
		// =============================================
		r.Get("/reviews/property/{propertyId}", propertyReviewsHandler(d.Reviews, logger))

		r.Group(func(r chi.Router) {
			r.Use(SessionAuthMiddleware(d.Tokens, logger))
			r.Post("/reviews", createReviewHandler(d.Reviews, logger))
			r.Get("/reviews/mine", myReviewsHandler(d.Reviews, logger))
			r.Delete("/reviews/{reviewId}", deleteReviewHandler(d.Reviews, logger))
		})
	})

	return r
}

// ============================================================
// Health
// ============================================================

func healthzHandler(props *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		status := "healthy"
		start := time.Now()
		if _, err := props.Public(ctx); err != nil {
			status = "degraded"
			logger.Warn("healthz: backend check failed", zap.Error(err))
		}
		latency := time.Since(start).Milliseconds()

		writeJSON(w, http.StatusOK, map[string]any{
			"status": status,
			"services": []map[string]any{
				{"name": "marketplace-backend", "status": status, "latencyMs": latency, "lastChecked": now},
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
