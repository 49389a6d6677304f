package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/homenest/homenest-bff-go/internal/domain"
	"github.com/homenest/homenest-bff-go/internal/service"
)

func TestSessionTokens_RoundTrip(t *testing.T) {
	tokens := service.NewSessionTokens("test-secret", time.Hour)

	signed, err := tokens.Mint("session-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	sessionID, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if sessionID != "session-123" {
		t.Errorf("expected session-123, got %q", sessionID)
	}
}

func TestSessionTokens_WrongSecret(t *testing.T) {
	signed, _ := service.NewSessionTokens("secret-a", time.Hour).Mint("session-123")

	_, err := service.NewSessionTokens("secret-b", time.Hour).Validate(signed)
	var unauthorized *domain.ErrUnauthorized
	if !errors.As(err, &unauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionTokens_Expired(t *testing.T) {
	tokens := service.NewSessionTokens("test-secret", -time.Minute)
	signed, _ := tokens.Mint("session-123")

	if _, err := tokens.Validate(signed); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestSessionTokens_Garbage(t *testing.T) {
	tokens := service.NewSessionTokens("test-secret", time.Hour)
	if _, err := tokens.Validate("not-a-token"); err == nil {
		t.Fatal("expected garbage token to be rejected")
	}
}
