// Package backend provides the client for the application backend's REST
// API. Every request carries the bearer credential chosen by the token
// precedence rule: backend token first, provider token second, nothing
// otherwise.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("backend")

// TokenSource yields the token pair persisted for a session. Reads must
// not mutate session state.
type TokenSource interface {
	Pair(ctx context.Context, sessionID string) (domain.TokenPair, error)
}

// Client wraps HTTP calls to the application backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewClient creates a backend client.
func NewClient(httpClient *http.Client, baseURL string, tokens TokenSource, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		tokens:     tokens,
		cb:         cb,
		cfg:        cfg,
		logger:     logger,
	}
}

// apiError is the backend's JSON error envelope.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// doRequest executes one authenticated request. sessionID selects the
// credentials; empty means unauthenticated. Returns the body and status.
func (c *Client) doRequest(ctx context.Context, sessionID, method, path string, payload any) ([]byte, int, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if sessionID != "" {
		pair, err := c.tokens.Pair(ctx, sessionID)
		if err != nil {
			return nil, 0, fmt.Errorf("read token pair: %w", err)
		}
		if bearer := pair.Bearer(); bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend: request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	c.logger.Debug("backend: request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return respBody, resp.StatusCode, nil
}

// mapStatus turns a non-2xx backend response into a typed domain error.
func mapStatus(status int, body []byte, resource, id string) error {
	var envelope apiError
	_ = json.Unmarshal(body, &envelope)

	msg := envelope.Error
	if msg == "" {
		msg = envelope.Message
	}

	switch {
	case status == http.StatusUnauthorized:
		return &domain.ErrUnauthorized{Message: msg}
	case status == http.StatusForbidden:
		return &domain.ErrForbidden{Action: msg}
	case status == http.StatusNotFound:
		return &domain.ErrNotFound{Resource: resource, ID: id}
	case status == http.StatusConflict && envelope.Code == duplicateOfferCode:
		return &domain.ErrDuplicateOffer{PropertyID: id}
	case status == http.StatusConflict:
		return &domain.ErrConflict{Message: msg}
	case status == http.StatusBadRequest:
		return &domain.ErrValidation{Field: resource, Message: msg}
	default:
		return fmt.Errorf("backend returned status %d: %s", status, string(body))
	}
}

func ok(status int) bool {
	return status >= 200 && status < 300
}

// getJSON runs a GET with retry and breaker, decoding into out.
func (c *Client) getJSON(ctx context.Context, sessionID, path, resource string, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, status, err := c.doRequest(ctx, sessionID, http.MethodGet, path, nil)
			if err != nil {
				return err
			}
			if !ok(status) {
				return mapStatus(status, body, resource, "")
			}
			if out == nil || len(body) == 0 {
				return nil
			}
			return json.Unmarshal(body, out)
		})
	})
	if err != nil {
		return wrapExternal("backend/"+resource, err)
	}
	return nil
}

// mutate runs a mutating call through the breaker without retry; replays
// of non-idempotent requests are the backend's problem to refuse, not
// ours to cause.
func (c *Client) mutate(ctx context.Context, sessionID, method, path string, payload any, resource, id string, out any) error {
	_, err := c.cb.Execute(func() (any, error) {
		body, status, err := c.doRequest(ctx, sessionID, method, path, payload)
		if err != nil {
			return nil, err
		}
		if !ok(status) {
			return nil, mapStatus(status, body, resource, id)
		}
		if out != nil && len(body) > 0 {
			return nil, json.Unmarshal(body, out)
		}
		return nil, nil
	})
	if err != nil {
		return wrapExternal("backend/"+resource, err)
	}
	return nil
}

// wrapExternal keeps typed domain errors visible to errors.As while
// labeling genuine transport failures as external-service errors.
func wrapExternal(service string, err error) error {
	switch err.(type) {
	case *domain.ErrUnauthorized, *domain.ErrForbidden, *domain.ErrNotFound,
		*domain.ErrDuplicateOffer, *domain.ErrConflict, *domain.ErrValidation:
		return err
	}
	if resilience.IsCircuitOpen(err) {
		return &domain.ErrCircuitOpen{Service: service}
	}
	return &domain.ErrExternalService{Service: service, Err: err}
}
