package domain

import (
	"fmt"
	"time"
)

// VerificationStatus is the admin review state of a listing.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// SaleStatus tracks whether a property is still on the market.
type SaleStatus string

const (
	SaleListed SaleStatus = "listed"
	SaleSold   SaleStatus = "sold"
)

// Property is a listing as served by the application backend.
type Property struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Location           string             `json:"location"`
	Description        string             `json:"description,omitempty"`
	MinPrice           float64            `json:"minPrice"`
	MaxPrice           float64            `json:"maxPrice"`
	Images             []string           `json:"images,omitempty"`
	AgentID            string             `json:"agentId"`
	AgentName          string             `json:"agentName"`
	AgentEmail         string             `json:"agentEmail"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	IsAdvertised       bool               `json:"isAdvertised"`
	SaleStatus         SaleStatus         `json:"saleStatus"`
	CreatedAt          time.Time          `json:"createdAt,omitempty"`
	UpdatedAt          time.Time          `json:"updatedAt,omitempty"`
}

// PriceRange is the display string derived from the price bounds.
func (p *Property) PriceRange() string {
	switch {
	case p.MinPrice > 0 && p.MaxPrice > 0:
		return fmt.Sprintf("$%.0f - $%.0f", p.MinPrice, p.MaxPrice)
	case p.MinPrice > 0:
		return fmt.Sprintf("from $%.0f", p.MinPrice)
	case p.MaxPrice > 0:
		return fmt.Sprintf("up to $%.0f", p.MaxPrice)
	default:
		return "price on request"
	}
}

// AcceptsOffers reports whether new offers may target this property:
// only verified, still-listed properties qualify.
func (p *Property) AcceptsOffers() bool {
	return p.VerificationStatus == VerificationVerified && p.SaleStatus != SaleSold
}

// InPriceBounds checks an offer amount against the listing bounds.
// A zero bound is treated as unbounded on that side.
func (p *Property) InPriceBounds(amount float64) bool {
	if p.MinPrice > 0 && amount < p.MinPrice {
		return false
	}
	if p.MaxPrice > 0 && amount > p.MaxPrice {
		return false
	}
	return true
}

// CreatePropertyRequest is the body for POST /v1/properties (agent).
type CreatePropertyRequest struct {
	Title       string   `json:"title"`
	Location    string   `json:"location"`
	Description string   `json:"description,omitempty"`
	MinPrice    float64  `json:"minPrice"`
	MaxPrice    float64  `json:"maxPrice"`
	Images      []string `json:"images,omitempty"`
}

// UpdatePropertyRequest is the body for PATCH /v1/properties/{id}.
type UpdatePropertyRequest struct {
	Title       string   `json:"title,omitempty"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description,omitempty"`
	MinPrice    *float64 `json:"minPrice,omitempty"`
	MaxPrice    *float64 `json:"maxPrice,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// VerifyPropertyRequest is the admin verification decision.
type VerifyPropertyRequest struct {
	Status VerificationStatus `json:"status"`
}

// AdvertisePropertyRequest toggles the home-page advertisement slot.
type AdvertisePropertyRequest struct {
	IsAdvertised bool `json:"isAdvertised"`
}
