package service

import (
	"context"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/port"
)

// requireSession loads the session or fails with an unauthorized error.
func requireSession(ctx context.Context, store port.SessionStore, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, &domain.ErrUnauthorized{Message: "no active session"}
	}
	sess, err := store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, &domain.ErrUnauthorized{Message: "no active session"}
	}
	return sess, nil
}

// requireRole enforces a role guard before any network call is made.
func requireRole(sess *domain.Session, role domain.Role, action string) error {
	if sess.Identity.Role != role {
		return &domain.ErrRole{Role: sess.Identity.Role, Action: action}
	}
	return nil
}

// requireAnyRole passes when the session holds one of the given roles.
func requireAnyRole(sess *domain.Session, action string, roles ...domain.Role) error {
	for _, role := range roles {
		if sess.Identity.Role == role {
			return nil
		}
	}
	return &domain.ErrRole{Role: sess.Identity.Role, Action: action}
}
