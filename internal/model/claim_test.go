package model

import (
	"errors"
	"testing"
)

func TestNewClaim_Normalization(t *testing.T) {
	claim, err := NewClaim("  The   Earth\tis FLAT  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claim.Text != "The   Earth\tis FLAT" {
		t.Errorf("Expected trimmed raw text, got %q", claim.Text)
	}
	if claim.NormalizedText != "the earth is flat" {
		t.Errorf("Expected normalized text 'the earth is flat', got %q", claim.NormalizedText)
	}
	if claim.Fingerprint == "" {
		t.Error("Expected non-empty fingerprint")
	}
}

func TestNewClaim_FingerprintStable(t *testing.T) {
	a, err := NewClaim("The Earth is flat")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	b, err := NewClaim("the earth   is flat")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if a.Fingerprint != b.Fingerprint {
		t.Errorf("Expected identical fingerprints for equivalent claims, got %q vs %q", a.Fingerprint, b.Fingerprint)
	}

	c, err := NewClaim("vaccines contain microchips")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a.Fingerprint == c.Fingerprint {
		t.Error("Expected different fingerprints for different claims")
	}
}

func TestNewClaim_RejectsShortInput(t *testing.T) {
	cases := []string{"", "  ", "ab", " a "}
	for _, input := range cases {
		if _, err := NewClaim(input); !errors.Is(err, ErrInvalidClaim) {
			t.Errorf("Expected ErrInvalidClaim for %q, got %v", input, err)
		}
	}

	if _, err := NewClaim("abc"); err != nil {
		t.Errorf("Expected 3-character claim to be accepted, got %v", err)
	}
}
