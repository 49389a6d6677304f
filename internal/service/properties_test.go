package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/infra/observability"
	"github.com/homenest/homenest-bff-go/internal/service"

	"go.uber.org/zap"
)

type memCache struct {
	entries map[string][]domain.Property
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]domain.Property)}
}

func (c *memCache) Get(key string) ([]domain.Property, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *memCache) Set(key string, value []domain.Property) {
	c.entries[key] = value
}

func (c *memCache) Delete(key string) {
	delete(c.entries, key)
}

func newPropertyService(api *mockPropertyAPI, store *memStore, cache *memCache) *service.PropertyService {
	return service.NewPropertyService(api, store, cache, observability.NewMetrics(), zap.NewNop())
}

func TestDeleteProperty_AgentAllowed(t *testing.T) {
	api := &mockPropertyAPI{}
	cache := newMemCache()
	svc := newPropertyService(api, buyerStore(domain.RoleAgent), cache)

	if err := svc.Delete(context.Background(), "s1", "prop-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if api.deleteCalls != 1 {
		t.Error("expected the backend delete to run")
	}
}

func TestDeleteProperty_AdminAllowed(t *testing.T) {
	api := &mockPropertyAPI{}
	cache := newMemCache()
	cache.Set("public", []domain.Property{{ID: "prop-1"}})
	svc := newPropertyService(api, buyerStore(domain.RoleAdmin), cache)

	if err := svc.Delete(context.Background(), "s1", "prop-1"); err != nil {
		t.Fatalf("expected admin delete to pass the guard, got %v", err)
	}
	if api.deleteCalls != 1 {
		t.Error("expected the backend delete to run")
	}
	if _, ok := cache.Get("public"); ok {
		t.Error("expected the public listing cache invalidated after delete")
	}
}

func TestDeleteProperty_BuyerRejected(t *testing.T) {
	api := &mockPropertyAPI{}
	svc := newPropertyService(api, buyerStore(domain.RoleBuyer), newMemCache())

	err := svc.Delete(context.Background(), "s1", "prop-1")
	var role *domain.ErrRole
	if !errors.As(err, &role) {
		t.Fatalf("expected ErrRole, got %v", err)
	}
	if api.deleteCalls != 0 {
		t.Error("expected the role guard to run before any network call")
	}
}
