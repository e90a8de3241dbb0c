package domain

import (
	"strings"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{raw: "+919812345678", expected: "919812345678"},
		{raw: "919812345678", expected: "919812345678"},
		{raw: "9812345678", expected: "919812345678"},
		{raw: "", expected: "91"},
		{raw: "+1555", expected: "91+1555"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizePhone(tt.raw); got != tt.expected {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"+919812345678", "919812345678", "9812345678", "", "+1555", "0091", "+91"}
	for _, raw := range inputs {
		once := NormalizePhone(raw)
		if twice := NormalizePhone(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", raw, once, twice)
		}
		if !strings.HasPrefix(once, CountryCode) {
			t.Errorf("result %q for %q does not start with %s", once, raw, CountryCode)
		}
	}
}
