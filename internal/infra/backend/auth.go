package backend

import (
	"context"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/port"
)

type loginRequest struct {
	IDToken string `json:"idToken"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		UID         string `json:"uid"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoURL"`
		Role        string `json:"role"`
		Verified    bool   `json:"verified"`
		IsFraud     bool   `json:"isFraud"`
	} `json:"user"`
}

// Login exchanges a provider token for the backend's view of the user
// plus a backend session token. Sent unauthenticated apart from the
// token in the body; the session has no backend token yet.
func (c *Client) Login(ctx context.Context, providerToken string) (*port.LoginResult, error) {
	ctx, span := tracer.Start(ctx, "Backend.Login")
	defer span.End()

	var resp loginResponse
	err := c.mutate(ctx, "", http.MethodPost, "/auth/login",
		loginRequest{IDToken: providerToken}, "login", "", &resp)
	if err != nil {
		return nil, err
	}

	return &port.LoginResult{
		Identity: domain.Identity{
			ProviderID:  resp.User.UID,
			Email:       resp.User.Email,
			DisplayName: resp.User.DisplayName,
			PhotoURL:    resp.User.PhotoURL,
			Role:        domain.NormalizeRole(resp.User.Role),
			Verified:    resp.User.Verified,
			Flagged:     resp.User.IsFraud,
		},
		BackendToken: resp.Token,
	}, nil
}
