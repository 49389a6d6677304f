package service

import (
	"context"
	"fmt"
	"time"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/infra/observability"
	"github.com/homenest/homenest-bff-go/internal/port"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OfferService drives the offer lifecycle. The backend owns the state
// machine; this service guards locally before submitting so obviously
// invalid requests never hit the network, and refetches after agent
// decisions so cascade effects become visible.
type OfferService struct {
	offers     port.OfferAPI
	properties port.PropertyAPI
	payments   port.PaymentAPI
	processor  port.PaymentProcessor
	store      port.SessionStore
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewOfferService creates an offer service.
func NewOfferService(offers port.OfferAPI, properties port.PropertyAPI, payments port.PaymentAPI, processor port.PaymentProcessor, store port.SessionStore, metrics *observability.Metrics, logger *zap.Logger) *OfferService {
	return &OfferService{
		offers:     offers,
		properties: properties,
		payments:   payments,
		processor:  processor,
		store:      store,
		metrics:    metrics,
		logger:     logger,
	}
}

// Create submits a new offer for the signed-in buyer. All guards run
// before the backend call: role, buying date, amount and property state.
func (s *OfferService) Create(ctx context.Context, sessionID string, req *domain.CreateOfferRequest) (*domain.Offer, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleBuyer, "make offers"); err != nil {
		return nil, err
	}

	if req.PropertyID == "" {
		return nil, &domain.ErrValidation{Field: "propertyId", Message: "required"}
	}
	if req.BuyingDate.IsZero() {
		return nil, &domain.ErrValidation{Field: "buyingDate", Message: "required"}
	}
	if req.OfferedAmount <= 0 {
		return nil, &domain.ErrValidation{Field: "offeredAmount", Message: "must be positive"}
	}

	prop, err := s.properties.GetProperty(ctx, sessionID, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if !prop.AcceptsOffers() {
		return nil, &domain.ErrValidation{Field: "propertyId", Message: "property is not open to offers"}
	}
	if !prop.InPriceBounds(req.OfferedAmount) {
		return nil, &domain.ErrValidation{
			Field:   "offeredAmount",
			Message: fmt.Sprintf("amount must be within the listed range (%s)", prop.PriceRange()),
		}
	}

	offer := &domain.Offer{
		PropertyID:       prop.ID,
		PropertyTitle:    prop.Title,
		PropertyLocation: prop.Location,
		AgentName:        prop.AgentName,
		AgentEmail:       prop.AgentEmail,
		BuyerName:        sess.Identity.DisplayName,
		BuyerEmail:       sess.Identity.Email,
		OfferedAmount:    req.OfferedAmount,
		BuyingDate:       req.BuyingDate,
		Status:           domain.OfferPending,
	}
	if len(prop.Images) > 0 {
		offer.PropertyImage = prop.Images[0]
	}

	created, err := s.offers.CreateOffer(ctx, sessionID, offer)
	if err != nil {
		return nil, err
	}

	s.metrics.IncrOfferTransition(string(domain.OfferPending))
	return created, nil
}

// MyOffers lists the buyer's offers.
func (s *OfferService) MyOffers(ctx context.Context, sessionID string) ([]domain.Offer, error) {
	if _, err := requireSession(ctx, s.store, sessionID); err != nil {
		return nil, err
	}
	return s.offers.MyOffers(ctx, sessionID)
}

// Accept lets the agent accept a pending offer. The backend rejects the
// property's other pending offers as part of the same decision, so the
// requested-properties view is refetched and returned alongside.
func (s *OfferService) Accept(ctx context.Context, sessionID, offerID string) (*domain.Offer, []domain.Offer, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := requireRole(sess, domain.RoleAgent, "accept offers"); err != nil {
		return nil, nil, err
	}

	offer, err := s.offers.AcceptOffer(ctx, sessionID, offerID)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.IncrOfferTransition(string(domain.OfferAccepted))

	requested, err := s.offers.RequestedProperties(ctx, sessionID)
	if err != nil {
		// The decision stuck; only the refreshed view is missing.
		s.logger.Warn("refetch after accept failed", zap.String("offerId", offerID), zap.Error(err))
		return offer, nil, nil
	}
	return offer, requested, nil
}

// Reject lets the agent reject a pending offer.
func (s *OfferService) Reject(ctx context.Context, sessionID, offerID string) (*domain.Offer, []domain.Offer, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if err := requireRole(sess, domain.RoleAgent, "reject offers"); err != nil {
		return nil, nil, err
	}

	offer, err := s.offers.RejectOffer(ctx, sessionID, offerID)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.IncrOfferTransition(string(domain.OfferRejected))

	requested, err := s.offers.RequestedProperties(ctx, sessionID)
	if err != nil {
		s.logger.Warn("refetch after reject failed", zap.String("offerId", offerID), zap.Error(err))
		return offer, nil, nil
	}
	return offer, requested, nil
}

// Cancel withdraws the buyer's own offer. Only pending offers can go;
// decided offers stay on the record.
func (s *OfferService) Cancel(ctx context.Context, sessionID, offerID string) error {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return err
	}
	if err := requireRole(sess, domain.RoleBuyer, "withdraw offers"); err != nil {
		return err
	}

	offer, err := s.findOwnOffer(ctx, sessionID, offerID)
	if err != nil {
		return err
	}
	if !offer.Status.Cancellable() {
		return &domain.ErrConflict{Message: fmt.Sprintf("a %s offer cannot be withdrawn", offer.Status)}
	}

	return s.offers.DeleteOffer(ctx, sessionID, offerID)
}

// Pay runs the two-phase payment for an accepted offer: open the intent on
// the backend, confirm the charge with the processor, then report the
// confirmed charge back. A processor failure leaves the offer accepted and
// payable again.
func (s *OfferService) Pay(ctx context.Context, sessionID, offerID string, req *domain.PayOfferRequest) (*domain.PaymentReceipt, error) {
	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("offer_payment", time.Since(start)) }()

	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleBuyer, "pay for offers"); err != nil {
		return nil, err
	}
	if req.PaymentMethod == "" {
		return nil, &domain.ErrValidation{Field: "paymentMethod", Message: "required"}
	}

	offer, err := s.findOwnOffer(ctx, sessionID, offerID)
	if err != nil {
		return nil, err
	}
	if !offer.Status.Payable() {
		return nil, &domain.ErrConflict{Message: fmt.Sprintf("a %s offer cannot be paid", offer.Status)}
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, sessionID, offer.OfferedAmount, offerID)
	if err != nil {
		return nil, err
	}

	paymentIntentID, err := s.processor.ConfirmPayment(ctx, intent.ClientSecret, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	updated, err := s.payments.ConfirmPayment(ctx, sessionID, paymentIntentID, offerID)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrOfferTransition(string(domain.OfferBought))

	transactionID := updated.TransactionID
	if transactionID == "" {
		transactionID = paymentIntentID
	}
	return &domain.PaymentReceipt{
		OfferID:       offerID,
		TransactionID: transactionID,
		Amount:        offer.OfferedAmount,
		Status:        updated.Status,
	}, nil
}

// Requested lists the offers made against the agent's listings.
func (s *OfferService) Requested(ctx context.Context, sessionID string) ([]domain.Offer, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleAgent, "view requested offers"); err != nil {
		return nil, err
	}
	return s.offers.RequestedProperties(ctx, sessionID)
}

// Sold lists the agent's completed sales.
func (s *OfferService) Sold(ctx context.Context, sessionID string) ([]domain.Offer, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleAgent, "view sold listings"); err != nil {
		return nil, err
	}
	return s.offers.SoldProperties(ctx, sessionID)
}

// Dashboard aggregates the agent's requested and sold views with one
// concurrent fan-out.
func (s *OfferService) Dashboard(ctx context.Context, sessionID string) (*domain.AgentDashboard, error) {
	sess, err := requireSession(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireRole(sess, domain.RoleAgent, "view the agent dashboard"); err != nil {
		return nil, err
	}

	var dash domain.AgentDashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		requested, err := s.offers.RequestedProperties(gctx, sessionID)
		if err != nil {
			return err
		}
		dash.Requested = requested
		return nil
	})
	g.Go(func() error {
		sold, err := s.offers.SoldProperties(gctx, sessionID)
		if err != nil {
			return err
		}
		dash.Sold = sold
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

// findOwnOffer locates an offer in the buyer's own list, which both scopes
// the lookup to the caller and exposes the current status for guards.
func (s *OfferService) findOwnOffer(ctx context.Context, sessionID, offerID string) (*domain.Offer, error) {
	offers, err := s.offers.MyOffers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := range offers {
		if offers[i].ID == offerID {
			return &offers[i], nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "offer", ID: offerID}
}
