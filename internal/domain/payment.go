package domain

// PaymentIntent is the backend's answer to create-payment-intent. The
// client secret is handed to the processor's confirmation step.
type PaymentIntent struct {
	ClientSecret string `json:"clientSecret"`
}

// CreatePaymentIntentRequest is the body for POST /payment/create-payment-intent.
type CreatePaymentIntentRequest struct {
	Amount  float64 `json:"amount"`
	OfferID string  `json:"offerId"`
}

// ConfirmPaymentRequest notifies the backend of a confirmed charge so it
// can move the offer to bought and the property to sold.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	OfferID         string `json:"offerId"`
}

// PayOfferRequest is the gateway-facing body for POST /v1/offers/{id}/pay.
type PayOfferRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// PaymentReceipt is returned once the two-phase payment completed.
type PaymentReceipt struct {
	OfferID       string      `json:"offerId"`
	TransactionID string      `json:"transactionId"`
	Amount        float64     `json:"amount"`
	Status        OfferStatus `json:"status"`
}
