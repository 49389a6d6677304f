package domain

import "time"

// WishlistItem is a property saved by a buyer. The backend scopes the
// list to the authenticated user.
type WishlistItem struct {
	ID               string    `json:"id"`
	PropertyID       string    `json:"propertyId"`
	PropertyTitle    string    `json:"propertyTitle"`
	PropertyLocation string    `json:"propertyLocation"`
	PropertyImage    string    `json:"propertyImage,omitempty"`
	PriceRange       string    `json:"priceRange,omitempty"`
	AgentName        string    `json:"agentName"`
	AddedAt          time.Time `json:"addedAt,omitempty"`
}

// AddWishlistRequest is the body for POST /v1/wishlist.
type AddWishlistRequest struct {
	PropertyID string `json:"propertyId"`
}
