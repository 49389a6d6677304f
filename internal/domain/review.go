package domain

import "time"

// Review is a buyer's review of a property.
type Review struct {
	ID            string    `json:"id"`
	PropertyID    string    `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle,omitempty"`
	ReviewerName  string    `json:"reviewerName"`
	ReviewerEmail string    `json:"reviewerEmail"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
}

// CreateReviewRequest is the body for POST /v1/reviews.
type CreateReviewRequest struct {
	PropertyID string `json:"propertyId"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}
