package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var duplicateOffer *domain.ErrDuplicateOffer
	var role *domain.ErrRole
	var invalidTransition *domain.ErrInvalidTransition
	var payment *domain.ErrPayment
	var unauthorized *domain.ErrUnauthorized
	var forbidden *domain.ErrForbidden
	var conflict *domain.ErrConflict
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &duplicateOffer):
		logger.Debug("duplicate offer", zap.String("propertyId", duplicateOffer.PropertyID))
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Code: "DUPLICATE_OFFER"})
	case errors.As(err, &role):
		logger.Warn("role guard rejected action",
			zap.String("role", string(role.Role)),
			zap.String("action", role.Action),
		)
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &invalidTransition):
		logger.Debug("invalid offer transition", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &payment):
		logger.Warn("payment failed", zap.String("reason", payment.Reason))
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &forbidden):
		logger.Warn("forbidden access", zap.String("error", err.Error()))
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflict):
		logger.Debug("conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &external):
		logger.Error("upstream failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, "upstream service error")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
