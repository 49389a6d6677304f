package service

import (
	"fmt"
	"time"

	"github.com/homenest/homenest-bff-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTokens mints and validates the gateway's own session tokens.
// These are distinct from the provider and backend tokens the session
// carries; clients hold only this one and never see the pair.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokens creates the token codec.
func NewSessionTokens(secret string, ttl time.Duration) *SessionTokens {
	return &SessionTokens{secret: []byte(secret), ttl: ttl}
}

// Mint issues a signed token whose subject is the session ID.
func (t *SessionTokens) Mint(sessionID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the session ID.
func (t *SessionTokens) Validate(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return "", &domain.ErrUnauthorized{Message: "invalid or expired session token"}
	}
	if claims.Subject == "" {
		return "", &domain.ErrUnauthorized{Message: "session token has no subject"}
	}
	return claims.Subject, nil
}
