package security

import (
	"testing"
	"time"
)

func TestDisabledGateAllowsEverything(t *testing.T) {
	gate := NewAdminGate("", "", 0)

	if gate.Enabled() {
		t.Error("Gate without configuration should be disabled")
	}
	if err := gate.Validate(""); err != nil {
		t.Errorf("Disabled gate should accept empty tokens, got %v", err)
	}
	if _, err := gate.Login("anything"); err == nil {
		t.Error("Login on a disabled gate should fail")
	}
}

func TestLoginAndValidate(t *testing.T) {
	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	gate := NewAdminGate(hash, "secret", time.Hour)

	if !gate.Enabled() {
		t.Fatal("Configured gate should be enabled")
	}

	token, err := gate.Login("correct horse")
	if err != nil {
		t.Fatalf("Login with correct password failed: %v", err)
	}
	if err := gate.Validate(token); err != nil {
		t.Errorf("Issued token should validate, got %v", err)
	}

	if _, err := gate.Login("wrong"); err == nil {
		t.Error("Login with wrong password should fail")
	}
	if err := gate.Validate("not-a-token"); err == nil {
		t.Error("Garbage token should fail validation")
	}
	if err := gate.Validate(""); err == nil {
		t.Error("Empty token should fail validation on an enabled gate")
	}
}

func TestTokenFromDifferentSecretIsRejected(t *testing.T) {
	hash, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	issuer := NewAdminGate(hash, "secret-a", time.Hour)
	verifier := NewAdminGate(hash, "secret-b", time.Hour)

	token, err := issuer.Login("pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := verifier.Validate(token); err == nil {
		t.Error("Token signed with another secret should be rejected")
	}
}

func TestExpiredTokenIsRejected(t *testing.T) {
	hash, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	gate := NewAdminGate(hash, "secret", -time.Minute)

	token, err := gate.Login("pw")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := gate.Validate(token); err == nil {
		t.Error("Expired token should be rejected")
	}
}
