package backend

import (
	"context"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
)

// Wishlist lists the signed-in buyer's saved properties.
func (c *Client) Wishlist(ctx context.Context, sessionID string) ([]domain.WishlistItem, error) {
	ctx, span := tracer.Start(ctx, "Backend.Wishlist")
	defer span.End()

	var items []domain.WishlistItem
	if err := c.getJSON(ctx, sessionID, "/wishlist", "wishlist", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddToWishlist saves a property for the signed-in buyer.
func (c *Client) AddToWishlist(ctx context.Context, sessionID, propertyID string) (*domain.WishlistItem, error) {
	ctx, span := tracer.Start(ctx, "Backend.AddToWishlist")
	defer span.End()

	var item domain.WishlistItem
	body := domain.AddWishlistRequest{PropertyID: propertyID}
	if err := c.mutate(ctx, sessionID, http.MethodPost, "/wishlist", body, "wishlist", propertyID, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveFromWishlist deletes a saved item.
func (c *Client) RemoveFromWishlist(ctx context.Context, sessionID, itemID string) error {
	ctx, span := tracer.Start(ctx, "Backend.RemoveFromWishlist")
	defer span.End()

	return c.mutate(ctx, sessionID, http.MethodDelete, "/wishlist/"+itemID, nil, "wishlist", itemID, nil)
}
