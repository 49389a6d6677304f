package backend

import (
	"context"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
)

// CreatePaymentIntent opens the payment on the backend and returns the
// client secret the processor confirmation needs.
func (c *Client) CreatePaymentIntent(ctx context.Context, sessionID string, amount float64, offerID string) (*domain.PaymentIntent, error) {
	ctx, span := tracer.Start(ctx, "Backend.CreatePaymentIntent")
	defer span.End()

	body := domain.CreatePaymentIntentRequest{Amount: amount, OfferID: offerID}
	var intent domain.PaymentIntent
	if err := c.mutate(ctx, sessionID, http.MethodPost, "/payment/create-payment-intent", body, "payment", offerID, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// ConfirmPayment reports the confirmed charge so the backend finalizes the
// offer as bought and the property as sold.
func (c *Client) ConfirmPayment(ctx context.Context, sessionID, paymentIntentID, offerID string) (*domain.Offer, error) {
	ctx, span := tracer.Start(ctx, "Backend.ConfirmPayment")
	defer span.End()

	body := domain.ConfirmPaymentRequest{PaymentIntentID: paymentIntentID, OfferID: offerID}
	var offer domain.Offer
	if err := c.mutate(ctx, sessionID, http.MethodPost, "/payment/confirm-payment", body, "payment", offerID, &offer); err != nil {
		return nil, err
	}
	return &offer, nil
}
