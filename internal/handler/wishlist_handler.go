package handler

import (
	"encoding/json"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func listWishlistHandler(svc *service.WishlistService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/wishlist")
		defer span.End()

		items, err := svc.List(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if items == nil {
			items = []domain.WishlistItem{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"wishlist": items})
	}
}

func addWishlistHandler(svc *service.WishlistService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/wishlist")
		defer span.End()

		var req domain.AddWishlistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		item, err := svc.Add(ctx, SessionIDFromContext(ctx), req.PropertyID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

func removeWishlistHandler(svc *service.WishlistService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/wishlist/{itemId}")
		defer span.End()

		if err := svc.Remove(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "itemId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
