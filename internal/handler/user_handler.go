package handler

import (
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func listUsersHandler(svc *service.UserAdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/users")
		defer span.End()

		users, err := svc.List(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if users == nil {
			users = []domain.UserAccount{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": users})
	}
}

func makeAdminHandler(svc *service.UserAdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/users/{userId}/make-admin")
		defer span.End()

		if err := svc.MakeAdmin(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "userId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "user promoted to admin"})
	}
}

func makeAgentHandler(svc *service.UserAdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/users/{userId}/make-agent")
		defer span.End()

		if err := svc.MakeAgent(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "userId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "user promoted to agent"})
	}
}

func markFraudHandler(svc *service.UserAdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /v1/users/{userId}/mark-fraud")
		defer span.End()

		if err := svc.MarkFraud(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "userId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "agent flagged as fraudulent"})
	}
}

func deleteUserHandler(svc *service.UserAdminService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/users/{userId}")
		defer span.End()

		if err := svc.Delete(ctx, SessionIDFromContext(ctx), chi.URLParam(r, "userId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
