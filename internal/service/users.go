package service

import (
	"context"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/port"

	"go.uber.org/zap"
)

// UserAdminService covers the admin console's user management.
type UserAdminService struct {
	api    port.UserAdminAPI
	store  port.SessionStore
	logger *zap.Logger
}

// NewUserAdminService creates a user admin service.
func NewUserAdminService(api port.UserAdminAPI, store port.SessionStore, logger *zap.Logger) *UserAdminService {
	return &UserAdminService{api: api, store: store, logger: logger}
}

func (s *UserAdminService) admin(ctx context.Context, sessionID, action string) (*domain.Session, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleAdmin, action); err != nil {
		return nil, err
	}
	return sess, nil
}

// List returns all user accounts.
func (s *UserAdminService) List(ctx context.Context, sessionID string) ([]domain.UserAccount, error) {
	if _, err := s.admin(ctx, sessionID, "list users"); err != nil {
		return nil, err
	}
	return s.api.ListUsers(ctx, sessionID)
}

// MakeAdmin promotes a user to admin.
func (s *UserAdminService) MakeAdmin(ctx context.Context, sessionID, userID string) error {
	if _, err := s.admin(ctx, sessionID, "promote users"); err != nil {
		return err
	}
	return s.api.MakeAdmin(ctx, sessionID, userID)
}

// MakeAgent promotes a user to agent.
func (s *UserAdminService) MakeAgent(ctx context.Context, sessionID, userID string) error {
	if _, err := s.admin(ctx, sessionID, "promote users"); err != nil {
		return err
	}
	return s.api.MakeAgent(ctx, sessionID, userID)
}

// MarkFraud flags an agent. The backend hides the agent's listings as a
// side effect.
func (s *UserAdminService) MarkFraud(ctx context.Context, sessionID, userID string) error {
	sess, err := s.admin(ctx, sessionID, "flag agents")
	if err != nil {
		return err
	}
	s.logger.Info("agent flagged as fraudulent",
		zap.String("adminEmail", sess.Identity.Email),
		zap.String("userId", userID),
	)
	return s.api.MarkFraud(ctx, sessionID, userID)
}

// Delete removes a user account.
func (s *UserAdminService) Delete(ctx context.Context, sessionID, userID string) error {
	if _, err := s.admin(ctx, sessionID, "delete users"); err != nil {
		return err
	}
	return s.api.DeleteUser(ctx, sessionID, userID)
}
