package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := NewJWTManager("test-secret-key-123")
	tok, err := mgr.GenerateToken("ci-runner")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if tok.AccessToken == "" {
		t.Fatal("expected non-empty token")
	}
	if tok.ExpiresIn != int(DefaultTokenExpiry.Seconds()) {
		t.Errorf("expected expires_in=%d, got %d", int(DefaultTokenExpiry.Seconds()), tok.ExpiresIn)
	}

	claims, err := mgr.ValidateToken(tok.AccessToken)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.ClientID != "ci-runner" {
		t.Errorf("expected client_id=ci-runner, got %s", claims.ClientID)
	}
	if claims.Subject != "ci-runner" {
		t.Errorf("expected subject=ci-runner, got %s", claims.Subject)
	}
}

func TestGenerateTokenRequiresClient(t *testing.T) {
	if _, err := NewJWTManager("s").GenerateToken(""); err == nil {
		t.Error("expected error for empty client id")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	mgr1 := NewJWTManager("secret-one")
	mgr2 := NewJWTManager("secret-two")

	tok, err := mgr1.GenerateToken("client-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = mgr2.ValidateToken(tok.AccessToken)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	mgr := NewJWTManager("test-secret")
	if _, err := mgr.ValidateToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for garbage token, got %v", err)
	}
	if _, err := mgr.ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken for empty token, got %v", err)
	}
}

func TestExpiredToken(t *testing.T) {
	mgr := &JWTManager{
		secret: []byte("test-secret"),
		expiry: -1 * time.Second,
	}
	tok, err := mgr.GenerateToken("client-1")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := mgr.ValidateToken(tok.AccessToken); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestDifferentClientsGetDifferentTokens(t *testing.T) {
	mgr := NewJWTManager("test-secret")
	t1, _ := mgr.GenerateToken("alice")
	t2, _ := mgr.GenerateToken("bob")
	if t1.AccessToken == t2.AccessToken {
		t.Error("different clients should get different tokens")
	}
}
