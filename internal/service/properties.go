package service

import (
	"context"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/infra/observability"
	"github.com/homenest/homenest-bff-go/internal/port"

	"go.uber.org/zap"
)

const publicListingsKey = "public"

// PropertyService serves listings. The public home-page listing is cached;
// everything else is passed through with role guards.
type PropertyService struct {
	api     port.PropertyAPI
	store   port.SessionStore
	cache   port.Cache[[]domain.Property]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewPropertyService creates a property service.
func NewPropertyService(api port.PropertyAPI, store port.SessionStore, cache port.Cache[[]domain.Property], metrics *observability.Metrics, logger *zap.Logger) *PropertyService {
	return &PropertyService{
		api:     api,
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// Public returns the verified, advertised listings, cached briefly since
// every anonymous visitor hits this view.
func (s *PropertyService) Public(ctx context.Context) ([]domain.Property, error) {
	if cached, ok := s.cache.Get(publicListingsKey); ok {
		s.metrics.IncrCacheHit("properties")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("properties")

	props, err := s.api.PublicProperties(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(publicListingsKey, props)
	return props, nil
}

// Search filters public listings by location. Uncached; search terms are
// too varied to be worth keeping.
func (s *PropertyService) Search(ctx context.Context, location string) ([]domain.Property, error) {
	return s.api.SearchProperties(ctx, location)
}

// Get fetches one listing.
func (s *PropertyService) Get(ctx context.Context, sessionID, propertyID string) (*domain.Property, error) {
	return s.api.GetProperty(ctx, sessionID, propertyID)
}

// All returns every listing for the admin verification queue.
func (s *PropertyService) All(ctx context.Context, sessionID string) ([]domain.Property, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleAdmin, "list all properties"); err != nil {
		return nil, err
	}
	return s.api.AllProperties(ctx, sessionID)
}

// Create adds a listing for the signed-in agent. Flagged agents are
// stopped here; the backend double-checks.
func (s *PropertyService) Create(ctx context.Context, sessionID string, req *domain.CreatePropertyRequest) (*domain.Property, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleAgent, "create properties"); err != nil {
		return nil, err
	}
	if sess.Identity.Flagged {
		return nil, &domain.ErrForbidden{Action: "flagged agents cannot create properties"}
	}
	if req.Title == "" {
		return nil, &domain.ErrValidation{Field: "title", Message: "required"}
	}
	if req.Location == "" {
		return nil, &domain.ErrValidation{Field: "location", Message: "required"}
	}
	if req.MinPrice > 0 && req.MaxPrice > 0 && req.MinPrice > req.MaxPrice {
		return nil, &domain.ErrValidation{Field: "minPrice", Message: "must not exceed maxPrice"}
	}

	return s.api.CreateProperty(ctx, sessionID, req)
}

// Update edits an owned listing.
func (s *PropertyService) Update(ctx context.Context, sessionID, propertyID string, req *domain.UpdatePropertyRequest) (*domain.Property, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleAgent, "update properties"); err != nil {
		return nil, err
	}
	return s.api.UpdateProperty(ctx, sessionID, propertyID, req)
}

// Delete removes a listing. Agents drop their own; admins drop any through
// the management console. A deleted listing may still sit in the public
// cache, so that is invalidated too.
func (s *PropertyService) Delete(ctx context.Context, sessionID, propertyID string) error {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return err
	}
	if err := requireAnyRole(sess, "delete properties", domain.RoleAgent, domain.RoleAdmin); err != nil {
		return err
	}

	if err := s.api.DeleteProperty(ctx, sessionID, propertyID); err != nil {
		return err
	}
	s.cache.Delete(publicListingsKey)
	return nil
}

// Verify records the admin verification decision and drops the public
// cache so the decision shows up promptly.
func (s *PropertyService) Verify(ctx context.Context, sessionID, propertyID string, status domain.VerificationStatus) error {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return err
	}
	if err := requireRole(sess, domain.RoleAdmin, "verify properties"); err != nil {
		return err
	}
	if status != domain.VerificationVerified && status != domain.VerificationRejected {
		return &domain.ErrValidation{Field: "status", Message: "must be verified or rejected"}
	}

	if err := s.api.VerifyProperty(ctx, sessionID, propertyID, status); err != nil {
		return err
	}
	s.cache.Delete(publicListingsKey)
	return nil
}

// Advertise toggles a verified listing's home-page slot.
func (s *PropertyService) Advertise(ctx context.Context, sessionID, propertyID string, advertised bool) error {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return err
	}
	if err := requireRole(sess, domain.RoleAdmin, "advertise properties"); err != nil {
		return err
	}

	if err := s.api.AdvertiseProperty(ctx, sessionID, propertyID, advertised); err != nil {
		return err
	}
	s.cache.Delete(publicListingsKey)
	return nil
}
