package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/handler"
	"github.com/homenest/homenest-bff-go/internal/infra/cache"
	"github.com/homenest/homenest-bff-go/internal/infra/identity"
	"github.com/homenest/homenest-bff-go/internal/infra/observability"
	"github.com/homenest/homenest-bff-go/internal/port"
	"github.com/homenest/homenest-bff-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Stubs
// ============================================================

type memStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]domain.Session)}
}

func (s *memStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	cp := sess
	return &cp, nil
}

func (s *memStore) Put(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *memStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *memStore) Pair(_ context.Context, sessionID string) (domain.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[sessionID].Tokens, nil
}

type stubProvider struct{}

func (stubProvider) Lookup(_ context.Context, idToken string) (*domain.ProviderIdentity, error) {
	return &domain.ProviderIdentity{
		ProviderID:  "uid-1",
		Email:       "buyer@example.com",
		DisplayName: "Jordan",
		IDToken:     idToken,
	}, nil
}

func (stubProvider) Token(context.Context, string, bool) (string, error) {
	return "prov-token", nil
}

// stubMarketplace answers every upstream call with canned data.
type stubMarketplace struct{}

func (stubMarketplace) Login(context.Context, string) (*port.LoginResult, error) {
	return &port.LoginResult{
		Identity: domain.Identity{
			ProviderID:  "uid-1",
			Email:       "buyer@example.com",
			DisplayName: "Jordan",
			Role:        domain.RoleBuyer,
			Verified:    true,
		},
		BackendToken: "back-token",
	}, nil
}

func (stubMarketplace) PublicProperties(context.Context) ([]domain.Property, error) {
	return []domain.Property{{ID: "prop-1", Title: "Lakeside Villa"}}, nil
}
func (stubMarketplace) SearchProperties(context.Context, string) ([]domain.Property, error) {
	return nil, nil
}
func (stubMarketplace) GetProperty(_ context.Context, _, propertyID string) (*domain.Property, error) {
	return &domain.Property{ID: propertyID}, nil
}
func (stubMarketplace) AllProperties(context.Context, string) ([]domain.Property, error) {
	return nil, nil
}
func (stubMarketplace) CreateProperty(context.Context, string, *domain.CreatePropertyRequest) (*domain.Property, error) {
	return &domain.Property{ID: "prop-new"}, nil
}
func (stubMarketplace) UpdateProperty(context.Context, string, string, *domain.UpdatePropertyRequest) (*domain.Property, error) {
	return &domain.Property{}, nil
}
func (stubMarketplace) DeleteProperty(context.Context, string, string) error { return nil }
func (stubMarketplace) VerifyProperty(context.Context, string, string, domain.VerificationStatus) error {
	return nil
}
func (stubMarketplace) AdvertiseProperty(context.Context, string, string, bool) error { return nil }

func (stubMarketplace) CreateOffer(_ context.Context, _ string, offer *domain.Offer) (*domain.Offer, error) {
	created := *offer
	created.ID = "offer-1"
	created.Status = domain.OfferPending
	return &created, nil
}
func (stubMarketplace) MyOffers(context.Context, string) ([]domain.Offer, error) { return nil, nil }
func (stubMarketplace) AcceptOffer(_ context.Context, _, offerID string) (*domain.Offer, error) {
	return &domain.Offer{ID: offerID, Status: domain.OfferAccepted}, nil
}
func (stubMarketplace) RejectOffer(_ context.Context, _, offerID string) (*domain.Offer, error) {
	return &domain.Offer{ID: offerID, Status: domain.OfferRejected}, nil
}
func (stubMarketplace) DeleteOffer(context.Context, string, string) error { return nil }
func (stubMarketplace) RequestedProperties(context.Context, string) ([]domain.Offer, error) {
	return nil, nil
}
func (stubMarketplace) SoldProperties(context.Context, string) ([]domain.Offer, error) {
	return nil, nil
}

func (stubMarketplace) Wishlist(context.Context, string) ([]domain.WishlistItem, error) {
	return nil, nil
}
func (stubMarketplace) AddToWishlist(context.Context, string, string) (*domain.WishlistItem, error) {
	return &domain.WishlistItem{}, nil
}
func (stubMarketplace) RemoveFromWishlist(context.Context, string, string) error { return nil }

func (stubMarketplace) CreatePaymentIntent(context.Context, string, float64, string) (*domain.PaymentIntent, error) {
	return &domain.PaymentIntent{ClientSecret: "pi_1_secret_x"}, nil
}
func (stubMarketplace) ConfirmPayment(_ context.Context, _, _, offerID string) (*domain.Offer, error) {
	return &domain.Offer{ID: offerID, Status: domain.OfferBought}, nil
}

func (stubMarketplace) ListUsers(context.Context, string) ([]domain.UserAccount, error) {
	return nil, nil
}
func (stubMarketplace) MakeAdmin(context.Context, string, string) error { return nil }
func (stubMarketplace) MakeAgent(context.Context, string, string) error { return nil }
func (stubMarketplace) MarkFraud(context.Context, string, string) error { return nil }
func (stubMarketplace) DeleteUser(context.Context, string, string) error {
	return nil
}

func (stubMarketplace) CreateReview(_ context.Context, _ string, review *domain.Review) (*domain.Review, error) {
	return review, nil
}
func (stubMarketplace) MyReviews(context.Context, string) ([]domain.Review, error) { return nil, nil }
func (stubMarketplace) PropertyReviews(context.Context, string) ([]domain.Review, error) {
	return nil, nil
}
func (stubMarketplace) DeleteReview(context.Context, string, string) error { return nil }

type stubProcessor struct{}

func (stubProcessor) ConfirmPayment(context.Context, string, string) (string, error) {
	return "pi_1", nil
}

// ============================================================
// Harness
// ============================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	store := newMemStore()
	api := stubMarketplace{}

	stream := identity.NewStream()
	mgr := service.NewSessionManager(stubProvider{}, api, store, metrics, logger, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	events, unsubscribe := stream.Subscribe()
	go mgr.Run(ctx, events)
	t.Cleanup(func() {
		cancel()
		unsubscribe()
	})

	srv := httptest.NewServer(handler.NewRouter(handler.Deps{
		Sessions:   mgr,
		Tokens:     service.NewSessionTokens("test-secret", time.Hour),
		Provider:   stubProvider{},
		Events:     stream,
		Properties: service.NewPropertyService(api, store, cache.New[[]domain.Property](time.Minute), metrics, logger),
		Offers:     service.NewOfferService(api, api, api, stubProcessor{}, store, metrics, logger),
		Wishlist:   service.NewWishlistService(api, store),
		Users:      service.NewUserAdminService(api, store, logger),
		Reviews:    service.NewReviewService(api, store),
		Metrics:    metrics,
		Logger:     logger,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// ============================================================
// Tests
// ============================================================

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics", "/ping"} {
		resp := get(t, srv.URL+path, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestPublicProperties_NoAuthRequired(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/v1/properties", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var props []domain.Property
	if err := json.NewDecoder(resp.Body).Decode(&props); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(props) != 1 || props[0].ID != "prop-1" {
		t.Errorf("unexpected listings %+v", props)
	}
}

func TestProtectedRoutes_RejectMissingToken(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/v1/session", "/v1/offers/mine", "/v1/wishlist", "/v1/users"} {
		resp := get(t, srv.URL+path, "")
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func TestProtectedRoutes_RejectBogusToken(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, srv.URL+"/v1/session", "not-a-jwt")
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for a bogus token, got %d", resp.StatusCode)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Sign in.
	body, _ := json.Marshal(map[string]string{"idToken": "provider-id-token"})
	resp, err := http.Post(srv.URL+"/v1/session", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("sign-in request: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		SessionToken string          `json:"sessionToken"`
		User         domain.Identity `json:"user"`
		Phase        string          `json:"phase"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode sign-in response: %v", err)
	}
	resp.Body.Close()

	if created.SessionToken == "" {
		t.Fatal("expected a session token")
	}
	if created.User.Email != "buyer@example.com" || created.User.Role != domain.RoleBuyer {
		t.Errorf("unexpected identity %+v", created.User)
	}
	if created.Phase != string(domain.PhaseReconciled) {
		t.Errorf("expected reconciled phase with a healthy backend, got %q", created.Phase)
	}

	// Read it back.
	resp = get(t, srv.URL+"/v1/session", created.SessionToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 reading the session, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Sign out.
	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/v1/session", nil)
	req.Header.Set("Authorization", "Bearer "+created.SessionToken)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("sign-out request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}

	// The token is still valid JWT-wise but the session is gone.
	resp = get(t, srv.URL+"/v1/session", created.SessionToken)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 after sign-out, got %d", resp.StatusCode)
	}
}
