package service

import (
	"context"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/port"
)

// WishlistService manages the buyer's saved properties.
type WishlistService struct {
	api   port.WishlistAPI
	store port.SessionStore
}

// NewWishlistService creates a wishlist service.
func NewWishlistService(api port.WishlistAPI, store port.SessionStore) *WishlistService {
	return &WishlistService{api: api, store: store}
}

// List returns the buyer's wishlist.
func (s *WishlistService) List(ctx context.Context, sessionID string) ([]domain.WishlistItem, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleBuyer, "view the wishlist"); err != nil {
		return nil, err
	}
	return s.api.Wishlist(ctx, sessionID)
}

// Add saves a property to the wishlist.
func (s *WishlistService) Add(ctx context.Context, sessionID, propertyID string) (*domain.WishlistItem, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleBuyer, "save properties"); err != nil {
		return nil, err
	}
	if propertyID == "" {
		return nil, &domain.ErrValidation{Field: "propertyId", Message: "required"}
	}
	return s.api.AddToWishlist(ctx, sessionID, propertyID)
}

// Remove deletes a saved item.
func (s *WishlistService) Remove(ctx context.Context, sessionID, itemID string) error {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return err
	}
	if err := requireRole(sess, domain.RoleBuyer, "edit the wishlist"); err != nil {
		return err
	}
	return s.api.RemoveFromWishlist(ctx, sessionID, itemID)
}
