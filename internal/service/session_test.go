package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/infra/observability"
	"github.com/homenest/homenest-bff-go/internal/port"
	"github.com/homenest/homenest-bff-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type memStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[string]*domain.Session)}
}

func (s *memStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *sess
	return &cp, nil
}

func (s *memStore) Put(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memStore) Pair(_ context.Context, id string) (domain.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.Tokens, nil
	}
	return domain.TokenPair{}, nil
}

type mockProvider struct {
	mu       sync.Mutex
	token    string
	tokenErr error
	forced   []bool
}

func (m *mockProvider) Lookup(_ context.Context, idToken string) (*domain.ProviderIdentity, error) {
	return &domain.ProviderIdentity{ProviderID: "uid-1", Email: "buyer@example.com", IDToken: idToken}, nil
}

func (m *mockProvider) Token(_ context.Context, _ string, force bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.forced = append(m.forced, force)
	return m.token, m.tokenErr
}

type mockAuth struct {
	fn func(ctx context.Context, providerToken string) (*port.LoginResult, error)
}

func (m *mockAuth) Login(ctx context.Context, providerToken string) (*port.LoginResult, error) {
	return m.fn(ctx, providerToken)
}

func newManager(provider *mockProvider, auth *mockAuth, store *memStore, timeout time.Duration) *service.SessionManager {
	return service.NewSessionManager(provider, auth, store, observability.NewMetrics(), zap.NewNop(), timeout)
}

// --- Tests ---

func TestSignIn_Reconciled(t *testing.T) {
	store := newMemStore()
	provider := &mockProvider{token: "prov-token"}
	auth := &mockAuth{fn: func(_ context.Context, providerToken string) (*port.LoginResult, error) {
		if providerToken != "prov-token" {
			t.Errorf("expected login with minted provider token, got %q", providerToken)
		}
		return &port.LoginResult{
			Identity:     domain.Identity{Email: "buyer@example.com", DisplayName: "Jordan Smith", Role: domain.RoleAgent, Verified: true},
			BackendToken: "back-token",
		}, nil
	}}
	mgr := newManager(provider, auth, store, time.Second)

	events := make(chan port.IdentityEvent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx, events)

	reply := make(chan *domain.Session, 1)
	events <- port.IdentityEvent{
		SessionID: "s1",
		Identity:  &domain.ProviderIdentity{ProviderID: "uid-1", Email: "buyer@example.com", IDToken: "id-token", RefreshToken: "refresh"},
		Reply:     reply,
	}
	sess := <-reply

	if sess.Phase != domain.PhaseReconciled {
		t.Fatalf("expected reconciled phase, got %s", sess.Phase)
	}
	if sess.Identity.Role != domain.RoleAgent {
		t.Errorf("expected backend role agent, got %s", sess.Identity.Role)
	}
	if sess.Tokens.BackendToken != "back-token" {
		t.Errorf("expected backend token persisted, got %q", sess.Tokens.BackendToken)
	}

	stored, _ := store.Get(context.Background(), "s1")
	if stored == nil || stored.Tokens.BackendToken != "back-token" {
		t.Error("expected reconciled session in the store")
	}
}

func TestSignIn_BackendDown_StaysOptimistic(t *testing.T) {
	store := newMemStore()
	provider := &mockProvider{token: "prov-token"}
	auth := &mockAuth{fn: func(context.Context, string) (*port.LoginResult, error) {
		return nil, errors.New("connection refused")
	}}
	metrics := observability.NewMetrics()
	mgr := service.NewSessionManager(provider, auth, store, metrics, zap.NewNop(), time.Second)

	events := make(chan port.IdentityEvent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx, events)

	reply := make(chan *domain.Session, 1)
	events <- port.IdentityEvent{
		SessionID: "s1",
		Identity:  &domain.ProviderIdentity{ProviderID: "uid-1", Email: "buyer@example.com", IDToken: "id-token"},
		Reply:     reply,
	}
	sess := <-reply

	if sess.Phase != domain.PhaseOptimistic {
		t.Fatalf("expected optimistic phase, got %s", sess.Phase)
	}
	if sess.Identity.Role != domain.RoleBuyer {
		t.Errorf("expected provisional role buyer, got %s", sess.Identity.Role)
	}
	if sess.Tokens.BackendToken != "" {
		t.Error("expected no backend token on failed reconciliation")
	}
	if sess.Tokens.ProviderToken == "" {
		t.Error("expected provider token despite backend failure")
	}

	stored, _ := store.Get(context.Background(), "s1")
	if stored == nil {
		t.Fatal("expected optimistic session persisted")
	}
	if got := metrics.SignInCount(string(domain.PhaseOptimistic)); got != 1 {
		t.Errorf("expected one degraded sign-in counted, got %v", got)
	}
}

func TestSignIn_SlowBackend_BoundedBySignInDeadline(t *testing.T) {
	store := newMemStore()
	provider := &mockProvider{token: "prov-token"}
	auth := &mockAuth{fn: func(ctx context.Context, _ string) (*port.LoginResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	mgr := newManager(provider, auth, store, 50*time.Millisecond)

	events := make(chan port.IdentityEvent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx, events)

	reply := make(chan *domain.Session, 1)
	start := time.Now()
	events <- port.IdentityEvent{
		SessionID: "s1",
		Identity:  &domain.ProviderIdentity{ProviderID: "uid-1", Email: "buyer@example.com", IDToken: "id-token"},
		Reply:     reply,
	}
	sess := <-reply

	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("sign-in took %v, expected it bounded by the reconcile deadline", elapsed)
	}
	if sess.Phase != domain.PhaseOptimistic {
		t.Fatalf("expected optimistic phase after deadline, got %s", sess.Phase)
	}
}

func TestSignIn_DegradesToSuppliedTokenWhenMintFails(t *testing.T) {
	store := newMemStore()
	provider := &mockProvider{tokenErr: errors.New("identity unavailable")}
	auth := &mockAuth{fn: func(_ context.Context, providerToken string) (*port.LoginResult, error) {
		if providerToken != "id-token" {
			t.Errorf("expected fallback to supplied token, got %q", providerToken)
		}
		return &port.LoginResult{Identity: domain.Identity{Role: domain.RoleBuyer}, BackendToken: "back"}, nil
	}}
	mgr := newManager(provider, auth, store, time.Second)

	events := make(chan port.IdentityEvent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx, events)

	reply := make(chan *domain.Session, 1)
	events <- port.IdentityEvent{
		SessionID: "s1",
		Identity:  &domain.ProviderIdentity{ProviderID: "uid-1", IDToken: "id-token", RefreshToken: "refresh"},
		Reply:     reply,
	}
	if sess := <-reply; sess.Phase != domain.PhaseReconciled {
		t.Fatalf("expected reconciled phase, got %s", sess.Phase)
	}
}

func TestSignOut_ClearsStoredSession(t *testing.T) {
	store := newMemStore()
	store.Put(context.Background(), &domain.Session{
		ID:     "s1",
		Tokens: domain.TokenPair{ProviderToken: "p", BackendToken: "b"},
	})
	mgr := newManager(&mockProvider{}, &mockAuth{fn: func(context.Context, string) (*port.LoginResult, error) {
		return nil, errors.New("unused")
	}}, store, time.Second)

	events := make(chan port.IdentityEvent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx, events)

	reply := make(chan *domain.Session, 1)
	events <- port.IdentityEvent{SessionID: "s1", Identity: nil, Reply: reply}
	if sess := <-reply; sess != nil {
		t.Error("expected nil session on sign-out")
	}

	if stored, _ := store.Get(context.Background(), "s1"); stored != nil {
		t.Error("expected session removed from store")
	}
	if pair, _ := store.Pair(context.Background(), "s1"); pair.Bearer() != "" {
		t.Error("expected both tokens cleared with the session")
	}
}

func TestReload_PrefersStoredIdentity(t *testing.T) {
	store := newMemStore()
	store.Put(context.Background(), &domain.Session{
		ID:       "s1",
		Identity: domain.Identity{ProviderID: "uid-1", DisplayName: "Jordan Smith", Role: domain.RoleAgent, Verified: true},
		Phase:    domain.PhaseReconciled,
	})
	provider := &mockProvider{token: "prov-token"}
	auth := &mockAuth{fn: func(context.Context, string) (*port.LoginResult, error) {
		return nil, errors.New("backend down")
	}}
	mgr := newManager(provider, auth, store, time.Second)

	events := make(chan port.IdentityEvent)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx, events)

	reply := make(chan *domain.Session, 1)
	events <- port.IdentityEvent{
		SessionID: "s1",
		Identity:  &domain.ProviderIdentity{ProviderID: "uid-1", Email: "jordan@example.com", IDToken: "id-token"},
		Reply:     reply,
	}
	sess := <-reply

	if sess.Identity.DisplayName != "Jordan Smith" || sess.Identity.Role != domain.RoleAgent {
		t.Errorf("expected stored identity preserved on reload, got %+v", sess.Identity)
	}
	if sess.Phase != domain.PhaseOptimistic {
		t.Errorf("expected phase optimistic until backend confirms, got %s", sess.Phase)
	}
}

func TestCurrent_NoSession(t *testing.T) {
	mgr := newManager(&mockProvider{}, &mockAuth{fn: func(context.Context, string) (*port.LoginResult, error) {
		return nil, nil
	}}, newMemStore(), time.Second)

	_, err := mgr.Current(context.Background(), "missing")
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRefresh_ForcesProviderMint(t *testing.T) {
	store := newMemStore()
	store.Put(context.Background(), &domain.Session{
		ID:           "s1",
		Identity:     domain.Identity{Role: domain.RoleBuyer},
		Phase:        domain.PhaseReconciled,
		Tokens:       domain.TokenPair{ProviderToken: "old", BackendToken: "back"},
		RefreshToken: "refresh",
	})
	provider := &mockProvider{token: "fresh"}
	auth := &mockAuth{fn: func(_ context.Context, providerToken string) (*port.LoginResult, error) {
		if providerToken != "fresh" {
			t.Errorf("expected login with freshly minted token, got %q", providerToken)
		}
		return &port.LoginResult{Identity: domain.Identity{Role: domain.RoleBuyer}, BackendToken: "back-2"}, nil
	}}
	mgr := newManager(provider, auth, store, time.Second)

	sess, err := mgr.Refresh(context.Background(), "s1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(provider.forced) != 1 || !provider.forced[0] {
		t.Error("expected a forced provider token mint")
	}
	if sess.Tokens.BackendToken != "back-2" {
		t.Errorf("expected rotated backend token, got %q", sess.Tokens.BackendToken)
	}
}

func TestRefresh_FailureKeepsPreviousSession(t *testing.T) {
	store := newMemStore()
	store.Put(context.Background(), &domain.Session{
		ID:           "s1",
		Identity:     domain.Identity{DisplayName: "Jordan", Role: domain.RoleBuyer},
		Phase:        domain.PhaseReconciled,
		Tokens:       domain.TokenPair{ProviderToken: "old", BackendToken: "back"},
		RefreshToken: "refresh",
	})
	provider := &mockProvider{token: "fresh"}
	auth := &mockAuth{fn: func(context.Context, string) (*port.LoginResult, error) {
		return nil, errors.New("backend down")
	}}
	mgr := newManager(provider, auth, store, time.Second)

	sess, err := mgr.Refresh(context.Background(), "s1")
	if err != nil {
		t.Fatalf("expected refresh to degrade, not fail, got %v", err)
	}
	if sess.Tokens.BackendToken != "back" {
		t.Errorf("expected previous backend token kept, got %q", sess.Tokens.BackendToken)
	}
	if sess.Identity.DisplayName != "Jordan" {
		t.Errorf("expected previous identity kept, got %+v", sess.Identity)
	}
}
