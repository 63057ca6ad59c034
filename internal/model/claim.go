package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrInvalidClaim rejects caller input that is empty or too short to analyze.
var ErrInvalidClaim = errors.New("claim must be at least 3 characters after trimming")

// MinClaimLength is the minimum accepted claim length after trimming.
const MinClaimLength = 3

// Claim represents a single statement submitted for fact-checking
type Claim struct {
	Text           string `json:"text"`            // Raw claim as submitted (trimmed)
	NormalizedText string `json:"normalized_text"` // Lower-cased, whitespace-collapsed form
	Fingerprint    string `json:"fingerprint"`     // Content hash of NormalizedText
}

// NewClaim validates and builds a Claim from raw caller input.
// NormalizedText and Fingerprint are derived here and never mutated
// independently of Text.
func NewClaim(text string) (Claim, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < MinClaimLength {
		return Claim{}, ErrInvalidClaim
	}

	normalized := NormalizeClaimText(trimmed)
	return Claim{
		Text:           trimmed,
		NormalizedText: normalized,
		Fingerprint:    FingerprintText(normalized),
	}, nil
}

// NormalizeClaimText lower-cases, trims, and collapses whitespace runs so that
// trivially different phrasings compare equal in similarity scans.
func NormalizeClaimText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// FingerprintText generates the stable uniqueness key for a normalized claim.
// Used for exact-duplicate storage, not for similarity matching.
func FingerprintText(normalized string) string {
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}
