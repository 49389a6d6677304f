// Package payment confirms charges against the external card processor.
// The gateway performs the confirmation step a browser SDK would normally
// do, using the client secret issued through the backend.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("payment")

// Client calls the processor's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a processor client.
func NewClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		logger:     logger,
	}
}

type confirmResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// ConfirmPayment confirms the payment intent behind the client secret with
// the given payment method. A processor decline comes back as
// *domain.ErrPayment so callers can keep the offer payable.
func (c *Client) ConfirmPayment(ctx context.Context, clientSecret, paymentMethod string) (string, error) {
	ctx, span := tracer.Start(ctx, "Processor.ConfirmPayment")
	defer span.End()

	intentID, err := intentIDFromSecret(clientSecret)
	if err != nil {
		return "", &domain.ErrPayment{Reason: err.Error()}
	}

	var resp confirmResponse
	_, err = c.cb.Execute(func() (any, error) {
		form := url.Values{}
		form.Set("client_secret", clientSecret)
		form.Set("payment_method", paymentMethod)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/v1/payment_intents/"+intentID+"/confirm",
			strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		httpResp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer httpResp.Body.Close()

		if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
			return nil, fmt.Errorf("decode confirm response: %w", err)
		}

		if httpResp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("processor returned status %d", httpResp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		if resilience.IsCircuitOpen(err) {
			return "", &domain.ErrCircuitOpen{Service: "processor"}
		}
		return "", &domain.ErrExternalService{Service: "processor", Err: err}
	}

	if resp.Error != nil {
		c.logger.Warn("payment declined",
			zap.String("intentId", intentID),
			zap.String("code", resp.Error.Code),
		)
		return "", &domain.ErrPayment{Reason: resp.Error.Message}
	}
	if resp.Status != "succeeded" {
		return "", &domain.ErrPayment{Reason: "payment intent ended in status " + resp.Status}
	}

	return resp.ID, nil
}

// intentIDFromSecret extracts the intent ID from a client secret of the
// form pi_<id>_secret_<nonce>.
func intentIDFromSecret(clientSecret string) (string, error) {
	idx := strings.Index(clientSecret, "_secret_")
	if !strings.HasPrefix(clientSecret, "pi_") || idx < 0 {
		return "", fmt.Errorf("malformed client secret")
	}
	return clientSecret[:idx], nil
}
