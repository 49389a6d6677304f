package handler

import (
	"encoding/json"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// decisionResponse carries an agent decision plus the refetched requested
// view, so cascade rejections are visible without a second round trip.
type decisionResponse struct {
	Offer     *domain.Offer  `json:"offer"`
	Requested []domain.Offer `json:"requested,omitempty"`
}

// ============================================================
// Buyer — POST /v1/offers, GET /v1/offers/mine, DELETE, pay
// ============================================================

func createOfferHandler(svc *service.OfferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/offers")
		defer span.End()

		var req domain.CreateOfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		offer, err := svc.Create(ctx, SessionIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, offer)
	}
}

func myOffersHandler(svc *service.OfferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/offers/mine")
		defer span.End()

		offers, err := svc.MyOffers(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if offers == nil {
			offers = []domain.Offer{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"offers": offers})
	}
}

func deleteOfferHandler(svc *service.OfferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/offers/{offerId}")
		defer span.End()

		if err := svc.Cancel(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "offerId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func payOfferHandler(svc *service.OfferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/offers/{offerId}/pay")
		defer span.End()

		var req domain.PayOfferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		receipt, err := svc.Pay(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "offerId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, receipt)
	}
}

// ============================================================
// Agent — accept, reject, dashboard
// ============================================================

func acceptOfferHandler(svc *service.OfferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/offers/{offerId}/accept")
		defer span.End()

		offer, requested, err := svc.Accept(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "offerId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, decisionResponse{Offer: offer, Requested: requested})
	}
}

func rejectOfferHandler(svc *service.OfferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/offers/{offerId}/reject")
		defer span.End()

		offer, requested, err := svc.Reject(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "offerId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, decisionResponse{Offer: offer, Requested: requested})
	}
}

func requestedOffersHandler(svc *service.OfferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/offers/requested")
		defer span.End()

		offers, err := svc.Requested(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if offers == nil {
			offers = []domain.Offer{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"offers": offers})
	}
}

func soldOffersHandler(svc *service.OfferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/offers/sold")
		defer span.End()

		offers, err := svc.Sold(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if offers == nil {
			offers = []domain.Offer{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"offers": offers})
	}
}

func agentDashboardHandler(svc *service.OfferService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/offers/dashboard")
		defer span.End()

		dash, err := svc.Dashboard(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, dash)
	}
}
