// Package identity talks to the external identity provider: token
// verification, forced token refresh, and the auth-state event stream
// consumed by the session manager.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("identity")

// providerTokenTTL is how long a minted provider token is reused before a
// non-forced Token call exchanges again.
const providerTokenTTL = 5 * time.Minute

type cachedToken struct {
	token     string
	expiresAt time.Time
}

// Client calls the identity provider's REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config

	mu     sync.Mutex
	tokens map[string]cachedToken // keyed by refresh token
}

// NewClient creates an identity provider client.
func NewClient(httpClient *http.Client, baseURL, apiKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		cb:         cb,
		cfg:        cfg,
		tokens:     make(map[string]cachedToken),
	}
}

type lookupResponse struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoUrl"`
	} `json:"users"`
}

// Lookup validates a provider ID token and returns the asserted identity.
func (c *Client) Lookup(ctx context.Context, idToken string) (*domain.ProviderIdentity, error) {
	ctx, span := tracer.Start(ctx, "Identity.Lookup")
	defer span.End()

	var identity *domain.ProviderIdentity

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.post(ctx, "/v1/accounts:lookup", map[string]string{"idToken": idToken})
			if err != nil {
				return err
			}

			var resp lookupResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("decode lookup response: %w", err)
			}
			if len(resp.Users) == 0 {
				return &domain.ErrUnauthorized{Message: "identity token not recognized"}
			}

			u := resp.Users[0]
			identity = &domain.ProviderIdentity{
				ProviderID:  u.LocalID,
				Email:       u.Email,
				DisplayName: u.DisplayName,
				PhotoURL:    u.PhotoURL,
				IDToken:     idToken,
			}
			return nil
		})
	})
	if err != nil {
		return nil, &domain.ErrExternalService{Service: "identity/lookup", Err: err}
	}

	return identity, nil
}

type tokenResponse struct {
	IDToken   string `json:"id_token"`
	ExpiresIn string `json:"expires_in"`
}

// Token exchanges a refresh token for a provider token. Non-forced calls
// may return a recently minted token; force bypasses that cache.
func (c *Client) Token(ctx context.Context, refreshToken string, force bool) (string, error) {
	ctx, span := tracer.Start(ctx, "Identity.Token")
	defer span.End()

	if !force {
		c.mu.Lock()
		cached, ok := c.tokens[refreshToken]
		c.mu.Unlock()
		if ok && time.Now().Before(cached.expiresAt) {
			return cached.token, nil
		}
	}

	var token string

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := c.post(ctx, "/v1/token", map[string]string{
				"grant_type":    "refresh_token",
				"refresh_token": refreshToken,
			})
			if err != nil {
				return err
			}

			var resp tokenResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				return fmt.Errorf("decode token response: %w", err)
			}
			if resp.IDToken == "" {
				return &domain.ErrUnauthorized{Message: "identity provider returned no token"}
			}
			token = resp.IDToken
			return nil
		})
	})
	if err != nil {
		return "", &domain.ErrExternalService{Service: "identity/token", Err: err}
	}

	c.mu.Lock()
	c.tokens[refreshToken] = cachedToken{token: token, expiresAt: time.Now().Add(providerTokenTTL)}
	c.mu.Unlock()

	return token, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s%s?key=%s", c.baseURL, path, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, out.String())
	}
	return out.Bytes(), nil
}
