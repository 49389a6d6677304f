package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/infra/store"
)

func openTestStore(t *testing.T) *store.SessionStore {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSession() *domain.Session {
	return &domain.Session{
		ID: "s1",
		Identity: domain.Identity{
			ProviderID:  "uid-1",
			Email:       "buyer@example.com",
			DisplayName: "Jordan",
			Role:        domain.RoleBuyer,
			Verified:    true,
		},
		Phase:        domain.PhaseReconciled,
		Tokens:       domain.TokenPair{ProviderToken: "prov", BackendToken: "back"},
		RefreshToken: "refresh",
	}
}

func TestSessionStore_PutGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, sampleSession()); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.Identity.Email != "buyer@example.com" || got.Identity.Role != domain.RoleBuyer {
		t.Errorf("unexpected identity %+v", got.Identity)
	}
	if got.Tokens.ProviderToken != "prov" || got.Tokens.BackendToken != "back" {
		t.Errorf("unexpected tokens %+v", got.Tokens)
	}
	if got.RefreshToken != "refresh" {
		t.Errorf("expected refresh token persisted, got %q", got.RefreshToken)
	}
	if got.Phase != domain.PhaseReconciled {
		t.Errorf("expected reconciled phase, got %s", got.Phase)
	}
}

func TestSessionStore_GetMissing(t *testing.T) {
	s := openTestStore(t)

	got, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("expected nil for a missing session")
	}
}

func TestSessionStore_PutOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sess := sampleSession()
	if err := s.Put(ctx, sess); err != nil {
		t.Fatalf("put: %v", err)
	}

	sess.Tokens.BackendToken = "rotated"
	sess.Identity.Role = domain.RoleAgent
	if err := s.Put(ctx, sess); err != nil {
		t.Fatalf("put again: %v", err)
	}

	got, _ := s.Get(ctx, "s1")
	if got.Tokens.BackendToken != "rotated" || got.Identity.Role != domain.RoleAgent {
		t.Errorf("expected upsert to replace the row, got %+v", got)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.Put(ctx, sampleSession())
	if err := s.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got, _ := s.Get(ctx, "s1"); got != nil {
		t.Error("expected session gone after delete")
	}
	if pair, _ := s.Pair(ctx, "s1"); pair.Bearer() != "" {
		t.Error("expected tokens gone with the session")
	}
}

func TestSessionStore_Pair(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if pair, err := s.Pair(ctx, "missing"); err != nil || pair.Bearer() != "" {
		t.Errorf("expected empty pair for a missing session, got %+v err=%v", pair, err)
	}

	s.Put(ctx, sampleSession())
	pair, err := s.Pair(ctx, "s1")
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	if pair.Bearer() != "back" {
		t.Errorf("expected backend token precedence, got %q", pair.Bearer())
	}
}

func TestSessionStore_PurgeOlderThan(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.Put(ctx, sampleSession())

	n, err := s.PurgeOlderThan(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 0 {
		t.Errorf("expected fresh session untouched, purged %d", n)
	}

	n, err = s.PurgeOlderThan(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Errorf("expected stale session purged, got %d", n)
	}
}
