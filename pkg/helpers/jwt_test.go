package helpers

import (
	"strings"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	token, exp, err := m.Generate("user-1", "admin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expected future expiry")
	}
	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)
	token, _, err := m.Generate("user-1", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := m.Parse(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestJWTTampered(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	token, _, err := m.Generate("user-1", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := m.Parse(tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, _, err := NewJWTManager("secret-a", time.Hour).Generate("user-1", "user")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := NewJWTManager("secret-b", time.Hour).Parse(token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}
