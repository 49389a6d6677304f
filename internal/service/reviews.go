package service

import (
	"context"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/port"
)

// ReviewService manages property reviews.
type ReviewService struct {
	api   port.ReviewAPI
	store port.SessionStore
}

// NewReviewService creates a review service.
func NewReviewService(api port.ReviewAPI, store port.SessionStore) *ReviewService {
	return &ReviewService{api: api, store: store}
}

// Create posts a review for a property by the signed-in user.
func (s *ReviewService) Create(ctx context.Context, sessionID string, req *domain.CreateReviewRequest) (*domain.Review, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if req.PropertyID == "" {
		return nil, &domain.ErrValidation{Field: "propertyId", Message: "required"}
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &domain.ErrValidation{Field: "rating", Message: "must be between 1 and 5"}
	}

	review := &domain.Review{
		PropertyID:    req.PropertyID,
		ReviewerName:  sess.Identity.DisplayName,
		ReviewerEmail: sess.Identity.Email,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	return s.api.CreateReview(ctx, sessionID, review)
}

// Mine lists the signed-in user's reviews.
func (s *ReviewService) Mine(ctx context.Context, sessionID string) ([]domain.Review, error) {
	if _, err := requireSession(ctx, s.store, sessionID); err != nil {
		return nil, err
	}
	return s.api.MyReviews(ctx, sessionID)
}

// ForProperty lists all reviews on a property. Public.
func (s *ReviewService) ForProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	return s.api.PropertyReviews(ctx, propertyID)
}

// Delete removes the signed-in user's review.
func (s *ReviewService) Delete(ctx context.Context, sessionID, reviewID string) error {
	if _, err := requireSession(ctx, s.store, sessionID); err != nil {
		return err
	}
	return s.api.DeleteReview(ctx, sessionID, reviewID)
}
