package backend

import (
	"context"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
)

// duplicateOfferCode marks the backend's refusal of a second active offer
// on the same property by the same buyer.
const duplicateOfferCode = "DUPLICATE_OFFER"

// CreateOffer submits a new offer. A 409 carrying the duplicate code comes
// back as *domain.ErrDuplicateOffer.
func (c *Client) CreateOffer(ctx context.Context, sessionID string, offer *domain.Offer) (*domain.Offer, error) {
	ctx, span := tracer.Start(ctx, "Backend.CreateOffer")
	defer span.End()

	var created domain.Offer
	if err := c.mutate(ctx, sessionID, http.MethodPost, "/offers", offer, "offer", offer.PropertyID, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// MyOffers lists the signed-in buyer's offers.
func (c *Client) MyOffers(ctx context.Context, sessionID string) ([]domain.Offer, error) {
	ctx, span := tracer.Start(ctx, "Backend.MyOffers")
	defer span.End()

	var offers []domain.Offer
	if err := c.getJSON(ctx, sessionID, "/offers/my-offers", "offers", &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// AcceptOffer asks the backend to accept a pending offer. The backend also
// rejects the property's sibling pendings; callers refetch to observe that.
func (c *Client) AcceptOffer(ctx context.Context, sessionID, offerID string) (*domain.Offer, error) {
	ctx, span := tracer.Start(ctx, "Backend.AcceptOffer")
	defer span.End()

	var offer domain.Offer
	if err := c.mutate(ctx, sessionID, http.MethodPatch, "/offers/agent/accept/"+offerID, nil, "offer", offerID, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// RejectOffer asks the backend to reject a pending offer.
func (c *Client) RejectOffer(ctx context.Context, sessionID, offerID string) (*domain.Offer, error) {
	ctx, span := tracer.Start(ctx, "Backend.RejectOffer")
	defer span.End()

	var offer domain.Offer
	if err := c.mutate(ctx, sessionID, http.MethodPatch, "/offers/agent/reject/"+offerID, nil, "offer", offerID, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// DeleteOffer withdraws the buyer's own offer.
func (c *Client) DeleteOffer(ctx context.Context, sessionID, offerID string) error {
	ctx, span := tracer.Start(ctx, "Backend.DeleteOffer")
	defer span.End()

	return c.mutate(ctx, sessionID, http.MethodDelete, "/offers/"+offerID, nil, "offer", offerID, nil)
}

// RequestedProperties lists offers targeting the signed-in agent's listings.
func (c *Client) RequestedProperties(ctx context.Context, sessionID string) ([]domain.Offer, error) {
	ctx, span := tracer.Start(ctx, "Backend.RequestedProperties")
	defer span.End()

	var offers []domain.Offer
	if err := c.getJSON(ctx, sessionID, "/offers/agent/requested-properties", "offers", &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// SoldProperties lists the agent's bought offers.
func (c *Client) SoldProperties(ctx context.Context, sessionID string) ([]domain.Offer, error) {
	ctx, span := tracer.Start(ctx, "Backend.SoldProperties")
	defer span.End()

	var offers []domain.Offer
	if err := c.getJSON(ctx, sessionID, "/offers/agent/sold-properties", "offers", &offers); err != nil {
		return nil, err
	}
	return offers, nil
}
