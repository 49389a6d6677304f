// Package service implements the gateway's use cases on top of the ports.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/infra/observability"
	"github.com/homenest/homenest-bff-go/internal/port"

	"go.uber.org/zap"
)

// SessionManager reconciles provider sign-in state with the application
// backend and owns the durable session records. Sign-in is fail-open: a
// provider-authenticated user gets an optimistic session immediately and
// the backend answer upgrades it when it arrives.
type SessionManager struct {
	provider port.IdentityProvider
	backend  port.AuthAPI
	store    port.SessionStore
	metrics  *observability.Metrics
	logger   *zap.Logger

	// reconcileTimeout bounds the backend login during sign-in so a slow
	// backend cannot stall the session. Refresh reconciles unbounded.
	reconcileTimeout time.Duration
}

// NewSessionManager creates a session manager.
func NewSessionManager(provider port.IdentityProvider, backend port.AuthAPI, store port.SessionStore, metrics *observability.Metrics, logger *zap.Logger, reconcileTimeout time.Duration) *SessionManager {
	return &SessionManager{
		provider:         provider,
		backend:          backend,
		store:            store,
		metrics:          metrics,
		logger:           logger,
		reconcileTimeout: reconcileTimeout,
	}
}

// Run consumes the auth-state stream until the context is cancelled or the
// stream closes. Each event is handled to completion before the next; the
// reply channel, when set, receives the resulting session.
func (m *SessionManager) Run(ctx context.Context, events <-chan port.IdentityEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			var sess *domain.Session
			if ev.Identity == nil {
				m.signOut(ctx, ev.SessionID)
			} else {
				sess = m.signIn(ctx, ev.SessionID, ev.Identity)
			}
			if ev.Reply != nil {
				ev.Reply <- sess
			}
		}
	}
}

// signIn establishes a session for a provider-authenticated user. The
// optimistic session is persisted before reconciliation starts, so state
// survives a crash mid-handshake.
func (m *SessionManager) signIn(ctx context.Context, sessionID string, p *domain.ProviderIdentity) *domain.Session {
	token := p.IDToken
	if p.RefreshToken != "" {
		minted, err := m.provider.Token(ctx, p.RefreshToken, false)
		if err != nil {
			m.logger.Warn("provider token mint failed, using supplied token",
				zap.String("sessionId", sessionID),
				zap.Error(err),
			)
		} else {
			token = minted
		}
	}

	identity := domain.ProvisionalIdentity(p)
	if prev, err := m.store.Get(ctx, sessionID); err == nil && prev != nil {
		// A reload with stored state keeps the last known profile instead
		// of dropping back to provisional defaults.
		identity = prev.Identity
	}

	sess := &domain.Session{
		ID:           sessionID,
		Identity:     identity,
		Phase:        domain.PhaseOptimistic,
		Tokens:       domain.TokenPair{ProviderToken: token},
		RefreshToken: p.RefreshToken,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := m.store.Put(ctx, sess); err != nil {
		m.logger.Error("persist optimistic session", zap.String("sessionId", sessionID), zap.Error(err))
	}

	reconciled, err := m.reconcile(ctx, sess, m.reconcileTimeout)
	if err != nil {
		m.logger.Warn("backend reconciliation failed, session stays optimistic",
			zap.String("sessionId", sessionID),
			zap.Error(err),
		)
		m.metrics.IncrUpstreamError("marketplace-backend")
		m.metrics.IncrSignIn(string(domain.PhaseOptimistic))
		return sess
	}

	m.metrics.IncrSignIn(string(domain.PhaseReconciled))
	return reconciled
}

// reconcile runs the backend login and, on success, persists the merged
// identity together with the backend token.
func (m *SessionManager) reconcile(ctx context.Context, sess *domain.Session, timeout time.Duration) (*domain.Session, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := m.backend.Login(ctx, sess.Tokens.ProviderToken)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &domain.ErrTimeout{Operation: "backend login"}
		}
		return nil, err
	}

	upgraded := *sess
	upgraded.Identity = sess.Identity.Merge(result.Identity)
	upgraded.Tokens.BackendToken = result.BackendToken
	upgraded.Phase = domain.PhaseReconciled
	upgraded.UpdatedAt = time.Now().UTC()

	if err := m.store.Put(ctx, &upgraded); err != nil {
		return nil, err
	}
	return &upgraded, nil
}

// signOut removes the session record: identity and both tokens go at once.
func (m *SessionManager) signOut(ctx context.Context, sessionID string) {
	if err := m.store.Delete(ctx, sessionID); err != nil {
		m.logger.Error("delete session", zap.String("sessionId", sessionID), zap.Error(err))
	}
}

// Current returns the stored session, whatever its phase. A reload served
// from here needs no network round trip.
func (m *SessionManager) Current(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, &domain.ErrUnauthorized{Message: "no active session"}
	}
	return sess, nil
}

// Refresh force-mints a provider token and re-runs reconciliation without
// the sign-in deadline. On failure the previous session is returned
// unchanged; refresh never downgrades an established session.
func (m *SessionManager) Refresh(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, &domain.ErrUnauthorized{Message: "no active session"}
	}

	if sess.RefreshToken != "" {
		minted, err := m.provider.Token(ctx, sess.RefreshToken, true)
		if err != nil {
			m.logger.Warn("forced provider token mint failed",
				zap.String("sessionId", sessionID),
				zap.Error(err),
			)
		} else {
			sess.Tokens.ProviderToken = minted
			if err := m.store.Put(ctx, sess); err != nil {
				return nil, err
			}
		}
	}

	reconciled, err := m.reconcile(ctx, sess, 0)
	if err != nil {
		m.logger.Warn("refresh reconciliation failed, keeping previous session",
			zap.String("sessionId", sessionID),
			zap.Error(err),
		)
		return sess, nil
	}
	return reconciled, nil
}
