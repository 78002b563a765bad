package service

import (
	"strings"
	"testing"
)

func TestLoginPIN(t *testing.T) {
	svc := NewAuthService("4321", "test-secret")

	resp, err := svc.LoginPIN("4321")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a host token")
	}
	if !strings.HasPrefix(resp.HostID, "host_") {
		t.Fatalf("unexpected host id %q", resp.HostID)
	}

	claims, err := svc.ValidateHostToken(resp.Token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.HostID != resp.HostID {
		t.Fatalf("host id mismatch: %q vs %q", claims.HostID, resp.HostID)
	}
}

func TestLoginPINRejectsWrongPIN(t *testing.T) {
	svc := NewAuthService("4321", "test-secret")

	if _, err := svc.LoginPIN("0000"); err != ErrInvalidPIN {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
	if _, err := svc.LoginPIN(""); err != ErrInvalidPIN {
		t.Fatalf("expected ErrInvalidPIN for empty pin, got %v", err)
	}
}

func TestPlayerTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("4321", "test-secret")

	token, err := svc.GeneratePlayerToken("p_abc12345", "Alice")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := svc.ValidatePlayerToken(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.ParticipantID != "p_abc12345" || claims.Name != "Alice" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	svc := NewAuthService("4321", "test-secret")

	playerToken, err := svc.GeneratePlayerToken("p_abc12345", "Alice")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := svc.ValidateHostToken(playerToken); err == nil {
		t.Fatal("player token must not pass host validation")
	}

	resp, err := svc.LoginPIN("4321")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := svc.ValidatePlayerToken(resp.Token); err == nil {
		t.Fatal("host token must not pass player validation")
	}
}

func TestTokensRejectWrongSecret(t *testing.T) {
	svc := NewAuthService("4321", "secret-a")
	other := NewAuthService("4321", "secret-b")

	resp, err := svc.LoginPIN("4321")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := other.ValidateHostToken(resp.Token); err == nil {
		t.Fatal("token signed with another secret must be rejected")
	}
}
