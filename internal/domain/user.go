package domain

import "time"

// UserAccount is a backend user record as seen by the admin console.
type UserAccount struct {
	ID          string    `json:"id"`
	ProviderID  string    `json:"providerId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	Verified    bool      `json:"verified"`
	Flagged     bool      `json:"isFraud"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// SuccessResponse is a plain message envelope for mutations without a body.
type SuccessResponse struct {
	Message string `json:"message"`
}
