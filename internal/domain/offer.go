package domain

import "time"

// OfferStatus is the lifecycle state of a purchase offer.
//
//	pending -> accepted   (agent action; backend rejects sibling pendings)
//	pending -> rejected   (agent action)
//	pending -> (deleted)  (buyer cancellation)
//	accepted -> bought    (successful payment confirmation)
//
// rejected and bought are terminal.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
	OfferBought   OfferStatus = "bought"
)

// Terminal reports whether no transition may leave this status.
func (s OfferStatus) Terminal() bool {
	return s == OfferRejected || s == OfferBought
}

// CanTransitionTo reports whether the lifecycle permits s -> next.
// Cancellation is a deletion, not a transition, and is guarded separately.
func (s OfferStatus) CanTransitionTo(next OfferStatus) bool {
	switch s {
	case OfferPending:
		return next == OfferAccepted || next == OfferRejected
	case OfferAccepted:
		return next == OfferBought
	default:
		return false
	}
}

// Cancellable reports whether a buyer may still withdraw the offer.
func (s OfferStatus) Cancellable() bool {
	return s == OfferPending
}

// Payable reports whether the offer is in the payment window.
func (s OfferStatus) Payable() bool {
	return s == OfferAccepted
}

// Offer is a buyer's proposal to purchase a property. The backend is the
// authority over transitions; this gateway guards before submitting and
// observes the result.
type Offer struct {
	ID               string      `json:"id"`
	PropertyID       string      `json:"propertyId"`
	PropertyTitle    string      `json:"propertyTitle"`
	PropertyLocation string      `json:"propertyLocation"`
	PropertyImage    string      `json:"propertyImage,omitempty"`
	AgentName        string      `json:"agentName"`
	AgentEmail       string      `json:"agentEmail"`
	BuyerName        string      `json:"buyerName"`
	BuyerEmail       string      `json:"buyerEmail"`
	OfferedAmount    float64     `json:"offeredAmount"`
	BuyingDate       time.Time   `json:"buyingDate"`
	Status           OfferStatus `json:"status"`
	TransactionID    string      `json:"transactionId,omitempty"`
	CreatedAt        time.Time   `json:"createdAt,omitempty"`
	UpdatedAt        time.Time   `json:"updatedAt,omitempty"`
}

// CreateOfferRequest is the buyer-facing body for POST /v1/offers.
type CreateOfferRequest struct {
	PropertyID    string    `json:"propertyId"`
	OfferedAmount float64   `json:"offeredAmount"`
	BuyingDate    time.Time `json:"buyingDate"`
}

// AgentDashboard aggregates the two agent offer views.
type AgentDashboard struct {
	Requested []Offer `json:"requested"`
	Sold      []Offer `json:"sold"`
}
