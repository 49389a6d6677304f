package port

import (
	"context"

	"github.com/homenest/homenest-bff-go/internal/domain"
)

// LoginResult is the backend's answer to a provider-token exchange.
type LoginResult struct {
	Identity     domain.Identity
	BackendToken string
}

// AuthAPI exchanges provider credentials for a backend session.
type AuthAPI interface {
	// Login posts the provider token to the backend and returns the
	// authoritative identity plus a backend token.
	Login(ctx context.Context, providerToken string) (*LoginResult, error)
}

// PropertyAPI covers the listing endpoints of the application backend.
// sessionID selects the credentials attached to the request; an empty
// sessionID sends the request unauthenticated.
type PropertyAPI interface {
	PublicProperties(ctx context.Context) ([]domain.Property, error)
	SearchProperties(ctx context.Context, location string) ([]domain.Property, error)
	GetProperty(ctx context.Context, sessionID, propertyID string) (*domain.Property, error)
	AllProperties(ctx context.Context, sessionID string) ([]domain.Property, error)
	CreateProperty(ctx context.Context, sessionID string, req *domain.CreatePropertyRequest) (*domain.Property, error)
	UpdateProperty(ctx context.Context, sessionID, propertyID string, req *domain.UpdatePropertyRequest) (*domain.Property, error)
	DeleteProperty(ctx context.Context, sessionID, propertyID string) error
	VerifyProperty(ctx context.Context, sessionID, propertyID string, status domain.VerificationStatus) error
	AdvertiseProperty(ctx context.Context, sessionID, propertyID string, advertised bool) error
}

// OfferAPI covers offer submission and the agent/buyer offer views.
// The backend owns the state machine; these calls submit and observe.
type OfferAPI interface {
	CreateOffer(ctx context.Context, sessionID string, offer *domain.Offer) (*domain.Offer, error)
	MyOffers(ctx context.Context, sessionID string) ([]domain.Offer, error)
	AcceptOffer(ctx context.Context, sessionID, offerID string) (*domain.Offer, error)
	RejectOffer(ctx context.Context, sessionID, offerID string) (*domain.Offer, error)
	DeleteOffer(ctx context.Context, sessionID, offerID string) error
	RequestedProperties(ctx context.Context, sessionID string) ([]domain.Offer, error)
	SoldProperties(ctx context.Context, sessionID string) ([]domain.Offer, error)
}

// WishlistAPI covers the buyer wishlist endpoints.
type WishlistAPI interface {
	Wishlist(ctx context.Context, sessionID string) ([]domain.WishlistItem, error)
	AddToWishlist(ctx context.Context, sessionID, propertyID string) (*domain.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, sessionID, itemID string) error
}

// PaymentAPI covers the backend half of the two-phase payment.
type PaymentAPI interface {
	CreatePaymentIntent(ctx context.Context, sessionID string, amount float64, offerID string) (*domain.PaymentIntent, error)
	ConfirmPayment(ctx context.Context, sessionID, paymentIntentID, offerID string) (*domain.Offer, error)
}

// UserAdminAPI covers the admin user-management endpoints.
type UserAdminAPI interface {
	ListUsers(ctx context.Context, sessionID string) ([]domain.UserAccount, error)
	MakeAdmin(ctx context.Context, sessionID, userID string) error
	MakeAgent(ctx context.Context, sessionID, userID string) error
	MarkFraud(ctx context.Context, sessionID, userID string) error
	DeleteUser(ctx context.Context, sessionID, userID string) error
}

// ReviewAPI covers property reviews.
type ReviewAPI interface {
	CreateReview(ctx context.Context, sessionID string, review *domain.Review) (*domain.Review, error)
	MyReviews(ctx context.Context, sessionID string) ([]domain.Review, error)
	PropertyReviews(ctx context.Context, propertyID string) ([]domain.Review, error)
	DeleteReview(ctx context.Context, sessionID, reviewID string) error
}

// MarketplaceAPI is the full upstream backend surface the gateway consumes.
type MarketplaceAPI interface {
	AuthAPI
	PropertyAPI
	OfferAPI
	WishlistAPI
	PaymentAPI
	UserAdminAPI
	ReviewAPI
}
