package backend

import (
	"context"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
)

// CreateReview posts a review for a property.
func (c *Client) CreateReview(ctx context.Context, sessionID string, review *domain.Review) (*domain.Review, error) {
	ctx, span := tracer.Start(ctx, "Backend.CreateReview")
	defer span.End()

	var created domain.Review
	if err := c.mutate(ctx, sessionID, http.MethodPost, "/reviews", review, "review", review.PropertyID, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// MyReviews lists the signed-in user's reviews.
func (c *Client) MyReviews(ctx context.Context, sessionID string) ([]domain.Review, error) {
	ctx, span := tracer.Start(ctx, "Backend.MyReviews")
	defer span.End()

	var reviews []domain.Review
	if err := c.getJSON(ctx, sessionID, "/reviews/my-reviews", "reviews", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// PropertyReviews lists all reviews for a property. Public.
func (c *Client) PropertyReviews(ctx context.Context, propertyID string) ([]domain.Review, error) {
	ctx, span := tracer.Start(ctx, "Backend.PropertyReviews")
	defer span.End()

	var reviews []domain.Review
	if err := c.getJSON(ctx, "", "/reviews/property/"+propertyID, "reviews", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// DeleteReview removes the signed-in user's review.
func (c *Client) DeleteReview(ctx context.Context, sessionID, reviewID string) error {
	ctx, span := tracer.Start(ctx, "Backend.DeleteReview")
	defer span.End()

	return c.mutate(ctx, sessionID, http.MethodDelete, "/reviews/"+reviewID, nil, "review", reviewID, nil)
}
