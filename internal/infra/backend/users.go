package backend

import (
	"context"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
)

// ListUsers fetches all user accounts. Admin only.
func (c *Client) ListUsers(ctx context.Context, sessionID string) ([]domain.UserAccount, error) {
	ctx, span := tracer.Start(ctx, "Backend.ListUsers")
	defer span.End()

	var users []domain.UserAccount
	if err := c.getJSON(ctx, sessionID, "/users", "users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// MakeAdmin promotes a user to admin.
func (c *Client) MakeAdmin(ctx context.Context, sessionID, userID string) error {
	ctx, span := tracer.Start(ctx, "Backend.MakeAdmin")
	defer span.End()

	return c.mutate(ctx, sessionID, http.MethodPatch, "/users/make-admin/"+userID, nil, "user", userID, nil)
}

// MakeAgent promotes a user to agent.
func (c *Client) MakeAgent(ctx context.Context, sessionID, userID string) error {
	ctx, span := tracer.Start(ctx, "Backend.MakeAgent")
	defer span.End()

	return c.mutate(ctx, sessionID, http.MethodPatch, "/users/make-agent/"+userID, nil, "user", userID, nil)
}

// MarkFraud flags an agent as fraudulent; the backend hides their listings.
func (c *Client) MarkFraud(ctx context.Context, sessionID, userID string) error {
	ctx, span := tracer.Start(ctx, "Backend.MarkFraud")
	defer span.End()

	return c.mutate(ctx, sessionID, http.MethodPatch, "/users/mark-fraud/"+userID, nil, "user", userID, nil)
}

// DeleteUser removes a user account.
func (c *Client) DeleteUser(ctx context.Context, sessionID, userID string) error {
	ctx, span := tracer.Start(ctx, "Backend.DeleteUser")
	defer span.End()

	return c.mutate(ctx, sessionID, http.MethodDelete, "/users/"+userID, nil, "user", userID, nil)
}
