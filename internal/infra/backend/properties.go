package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/homenest/homenest-bff-go/internal/domain"
)

// PublicProperties fetches the verified, advertised listings shown to
// anonymous visitors.
func (c *Client) PublicProperties(ctx context.Context) ([]domain.Property, error) {
	ctx, span := tracer.Start(ctx, "Backend.PublicProperties")
	defer span.End()

	var props []domain.Property
	if err := c.getJSON(ctx, "", "/properties/public", "properties", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// SearchProperties filters public listings by location.
func (c *Client) SearchProperties(ctx context.Context, location string) ([]domain.Property, error) {
	ctx, span := tracer.Start(ctx, "Backend.SearchProperties")
	defer span.End()

	path := "/properties/search?location=" + url.QueryEscape(location)
	var props []domain.Property
	if err := c.getJSON(ctx, "", path, "properties", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// GetProperty fetches one listing by ID.
func (c *Client) GetProperty(ctx context.Context, sessionID, propertyID string) (*domain.Property, error) {
	ctx, span := tracer.Start(ctx, "Backend.GetProperty")
	defer span.End()

	var prop domain.Property
	if err := c.getJSON(ctx, sessionID, "/properties/"+propertyID, "property", &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

// AllProperties fetches every listing regardless of verification state.
// Admin only; the backend enforces the role.
func (c *Client) AllProperties(ctx context.Context, sessionID string) ([]domain.Property, error) {
	ctx, span := tracer.Start(ctx, "Backend.AllProperties")
	defer span.End()

	var props []domain.Property
	if err := c.getJSON(ctx, sessionID, "/properties/admin/all", "properties", &props); err != nil {
		return nil, err
	}
	return props, nil
}

// CreateProperty submits a new listing for the signed-in agent.
func (c *Client) CreateProperty(ctx context.Context, sessionID string, req *domain.CreatePropertyRequest) (*domain.Property, error) {
	ctx, span := tracer.Start(ctx, "Backend.CreateProperty")
	defer span.End()

	var prop domain.Property
	if err := c.mutate(ctx, sessionID, http.MethodPost, "/properties", req, "property", "", &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

// UpdateProperty applies a partial update to an owned listing.
func (c *Client) UpdateProperty(ctx context.Context, sessionID, propertyID string, req *domain.UpdatePropertyRequest) (*domain.Property, error) {
	ctx, span := tracer.Start(ctx, "Backend.UpdateProperty")
	defer span.End()

	var prop domain.Property
	if err := c.mutate(ctx, sessionID, http.MethodPatch, "/properties/"+propertyID, req, "property", propertyID, &prop); err != nil {
		return nil, err
	}
	return &prop, nil
}

// DeleteProperty removes an owned listing.
func (c *Client) DeleteProperty(ctx context.Context, sessionID, propertyID string) error {
	ctx, span := tracer.Start(ctx, "Backend.DeleteProperty")
	defer span.End()

	return c.mutate(ctx, sessionID, http.MethodDelete, "/properties/"+propertyID, nil, "property", propertyID, nil)
}

// VerifyProperty records the admin verification decision.
func (c *Client) VerifyProperty(ctx context.Context, sessionID, propertyID string, status domain.VerificationStatus) error {
	ctx, span := tracer.Start(ctx, "Backend.VerifyProperty")
	defer span.End()

	body := domain.VerifyPropertyRequest{Status: status}
	return c.mutate(ctx, sessionID, http.MethodPatch, "/properties/verify/"+propertyID, body, "property", propertyID, nil)
}

// AdvertiseProperty toggles a verified listing's advertisement slot.
func (c *Client) AdvertiseProperty(ctx context.Context, sessionID, propertyID string, advertised bool) error {
	ctx, span := tracer.Start(ctx, "Backend.AdvertiseProperty")
	defer span.End()

	body := domain.AdvertisePropertyRequest{IsAdvertised: advertised}
	return c.mutate(ctx, sessionID, http.MethodPatch, "/properties/advertise/"+propertyID, body, "property", propertyID, nil)
}
