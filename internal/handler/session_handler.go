package handler

import (
	"encoding/json"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/port"
	"github.com/homenest/homenest-bff-go/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IdentityPublisher is the publishing side of the auth-state stream.
type IdentityPublisher interface {
	Publish(ev port.IdentityEvent)
}

type sessionResponse struct {
	SessionToken string              `json:"sessionToken,omitempty"`
	User         domain.Identity     `json:"user"`
	Phase        domain.SessionPhase `json:"phase"`
}

func toSessionResponse(sess *domain.Session, token string) sessionResponse {
	return sessionResponse{
		SessionToken: token,
		User:         sess.Identity,
		Phase:        sess.Phase,
	}
}

// ============================================================
// Sign-in — POST /v1/session
// ============================================================

func createSessionHandler(provider port.IdentityProvider, events IdentityPublisher, tokens *service.SessionTokens, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/session")
		defer span.End()

		var req struct {
			IDToken      string `json:"idToken"`
			RefreshToken string `json:"refreshToken,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.IDToken == "" {
			writeError(w, http.StatusBadRequest, "idToken is required")
			return
		}

		identity, err := provider.Lookup(ctx, req.IDToken)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		identity.RefreshToken = req.RefreshToken

		sessionID := uuid.New().String()
		reply := make(chan *domain.Session, 1)
		events.Publish(port.IdentityEvent{
			SessionID: sessionID,
			Identity:  identity,
			Reply:     reply,
		})

		var sess *domain.Session
		select {
		case sess = <-reply:
		case <-ctx.Done():
			writeError(w, http.StatusGatewayTimeout, "sign-in did not complete")
			return
		}
		if sess == nil {
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		token, err := tokens.Mint(sessionID)
		if err != nil {
			logger.Error("mint session token", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, toSessionResponse(sess, token))
	}
}

// ============================================================
// Current session — GET /v1/session
// ============================================================

func getSessionHandler(mgr *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/session")
		defer span.End()

		sess, err := mgr.Current(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(sess, ""))
	}
}

// ============================================================
// Refresh — POST /v1/session/refresh
// ============================================================

func refreshSessionHandler(mgr *service.SessionManager, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/session/refresh")
		defer span.End()

		sess, err := mgr.Refresh(ctx, SessionIDFromContext(ctx))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(sess, ""))
	}
}

// ============================================================
// Sign-out — DELETE /v1/session
// ============================================================

func deleteSessionHandler(events IdentityPublisher, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/session")
		defer span.End()

		reply := make(chan *domain.Session, 1)
		events.Publish(port.IdentityEvent{
			SessionID: SessionIDFromContext(ctx),
			Identity:  nil,
			Reply:     reply,
		})

		select {
		case <-reply:
		case <-ctx.Done():
			writeError(w, http.StatusGatewayTimeout, "sign-out did not complete")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
