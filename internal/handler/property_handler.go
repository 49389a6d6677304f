package handler

import (
	"encoding/json"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Public listings — GET /v1/properties, GET /v1/properties/search
// ============================================================

func listPropertiesHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/properties")
		defer span.End()

		props, err := svc.Public(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if props == nil {
			props = []domain.Property{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"properties": props})
	}
}

func searchPropertiesHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/properties/search")
		defer span.End()

		location := r.URL.Query().Get("location")
		if location == "" {
			writeError(w, http.StatusBadRequest, "location is required")
			return
		}

		props, err := svc.Search(ctx, location)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if props == nil {
			props = []domain.Property{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"properties": props})
	}
}

func getPropertyHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/properties/{propertyId}")
		defer span.End()

		prop, err := svc.Get(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "propertyId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, prop)
	}
}

// ============================================================
// Agent listings — POST/PATCH/DELETE /v1/properties
// ============================================================

func createPropertyHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/properties")
		defer span.End()

		var req domain.CreatePropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		prop, err := svc.Create(ctx, SessionIDFromContext(ctx), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, prop)
	}
}

func updatePropertyHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/properties/{propertyId}")
		defer span.End()

		var req domain.UpdatePropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		prop, err := svc.Update(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "propertyId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, prop)
	}
}

func deletePropertyHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/properties/{propertyId}")
		defer span.End()

		if err := svc.Delete(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "propertyId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Admin — GET /v1/properties/all, verify, advertise
// ============================================================

func allPropertiesHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/properties/all")
		defer span.End()

		props, err := svc.All(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if props == nil {
			props = []domain.Property{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"properties": props})
	}
}

func verifyPropertyHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/properties/{propertyId}/verify")
		defer span.End()

		var req domain.VerifyPropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.Verify(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "propertyId"), req.Status); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "verification status updated"})
	}
}

func advertisePropertyHandler(svc *service.PropertyService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/properties/{propertyId}/advertise")
		defer span.End()

		var req domain.AdvertisePropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.Advertise(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "propertyId"), req.IsAdvertised); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "advertisement updated"})
	}
}
