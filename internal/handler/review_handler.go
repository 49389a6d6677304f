package handler

import (
	"encoding/json"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func createReviewHandler(svc *service.ReviewService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/reviews")
		defer span.End()

		var req domain.CreateReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		review, err := svc.Create(ctx, SessionIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, review)
	}
}

func myReviewsHandler(svc *service.ReviewService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reviews/mine")
		defer span.End()

		reviews, err := svc.Mine(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if reviews == nil {
			reviews = []domain.Review{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
	}
}

func propertyReviewsHandler(svc *service.ReviewService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reviews/property/{propertyId}")
		defer span.End()

		reviews, err := svc.ForProperty(ctx, chi.URLParam(r, "propertyId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if reviews == nil {
			reviews = []domain.Review{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
	}
}

func deleteReviewHandler(svc *service.ReviewService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/reviews/{reviewId}")
		defer span.End()

		if err := svc.Delete(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "reviewId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
