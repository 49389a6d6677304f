// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/homenest/homenest-bff-go/internal/domain"
)

// IdentityProvider is the external identity service (sign-in authority).
// It knows nothing about marketplace roles.
type IdentityProvider interface {
	// Lookup validates a provider ID token and returns the identity it
	// asserts.
	Lookup(ctx context.Context, idToken string) (*domain.ProviderIdentity, error)
	// Token obtains a provider token for the session. With force set it
	// bypasses any provider-side cache and mints a fresh one.
	Token(ctx context.Context, refreshToken string, force bool) (string, error)
}

// IdentityEvent is one observed change of provider sign-in state.
// A nil Identity means signed out. Reply, when non-nil, receives the
// resulting session (nil on sign-out).
type IdentityEvent struct {
	SessionID string
	Identity  *domain.ProviderIdentity
	Reply     chan<- *domain.Session
}

// IdentityEvents is the subscription side of the auth-state stream.
// Subscribe returns the event channel and an unsubscribe func; callers
// must unsubscribe on teardown.
type IdentityEvents interface {
	Subscribe() (<-chan IdentityEvent, func())
}

// SessionStore persists session state (identity + token pair) durably so
// a reload does not force re-authentication. Identity and tokens are
// written as a unit; Delete clears everything for the session.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Put(ctx context.Context, sess *domain.Session) error
	Delete(ctx context.Context, sessionID string) error
	// Pair reads the token pair only. Pure read, used per outbound request.
	Pair(ctx context.Context, sessionID string) (domain.TokenPair, error)
}

// PaymentProcessor performs the client-side confirmation step of a
// payment, exchanging a client secret for a completed charge.
type PaymentProcessor interface {
	ConfirmPayment(ctx context.Context, clientSecret, paymentMethod string) (paymentIntentID string, err error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
