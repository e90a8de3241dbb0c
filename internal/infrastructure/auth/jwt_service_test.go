package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/rahulwaghole14/mandap/domain"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "mandap-admin", time.Hour)

	token, err := svc.GenerateAccessToken(7, domain.RoleAdmin, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.AdminID != 7 || claims.Role != domain.RoleAdmin || claims.SessionID != "sess-1" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.ExpiresAt <= claims.IssuedAt {
		t.Errorf("expiry %d should be after issue %d", claims.ExpiresAt, claims.IssuedAt)
	}
}

func TestJWTService_Invalid(t *testing.T) {
	svc := NewJWTService("secret", "mandap-admin", time.Hour)
	other := NewJWTService("other", "mandap-admin", time.Hour)
	expired := NewJWTService("secret", "mandap-admin", -time.Minute)

	foreign, _ := other.GenerateAccessToken(1, domain.RoleAdmin, "s")
	old, _ := expired.GenerateAccessToken(1, domain.RoleAdmin, "s")

	tests := []struct {
		name     string
		token    string
		expected error
	}{
		{name: "wrong signature", token: foreign, expected: domain.ErrTokenInvalid},
		{name: "expired", token: old, expected: domain.ErrTokenExpired},
		{name: "garbage", token: "not-a-token", expected: domain.ErrTokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestJWTService_UniqueTokens(t *testing.T) {
	svc := NewJWTService("secret", "mandap-admin", time.Hour)
	a, _ := svc.GenerateAccessToken(1, domain.RoleAdmin, "s")
	b, _ := svc.GenerateAccessToken(1, domain.RoleAdmin, "s")
	if a == b {
		t.Error("tokens issued in the same second should differ")
	}
}
