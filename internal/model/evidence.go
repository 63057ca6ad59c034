package model

import "strings"

// EvidenceItem represents a single retrieved snippet. This triple is the only
// shape that crosses the retrieval boundary; anything else the search
// provider returns is dropped there.
type EvidenceItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// SupportingEvidence is an evidence item cited by the verifier, annotated
// with why it supports the claim.
type SupportingEvidence struct {
	EvidenceItem
	Supports string `json:"supports,omitempty"`
}

// RefutingEvidence is an evidence item cited by the skeptic, annotated with
// why it refutes the claim.
type RefutingEvidence struct {
	EvidenceItem
	Refutes string `json:"refutes,omitempty"`
}

// EvidenceBundle partitions retrieved snippets for a single debate run.
// For/Against feed the display partitions; All feeds both debate agents.
type EvidenceBundle struct {
	For     []EvidenceItem `json:"for"`
	Against []EvidenceItem `json:"against"`
	All     []EvidenceItem `json:"all"`
}

// Contains reports whether the bundle's full evidence set includes the item.
// Items are matched by URL when present, otherwise by exact triple equality.
func (b EvidenceBundle) Contains(item EvidenceItem) bool {
	for _, e := range b.All {
		if item.URL != "" && e.URL == item.URL {
			return true
		}
		if item.URL == "" && e.Title == item.Title && e.Snippet == item.Snippet {
			return true
		}
	}
	return false
}

// CleanEvidence trims each field and drops items that are entirely empty.
func CleanEvidence(items []EvidenceItem) []EvidenceItem {
	cleaned := make([]EvidenceItem, 0, len(items))
	for _, item := range items {
		item.Title = strings.TrimSpace(item.Title)
		item.URL = strings.TrimSpace(item.URL)
		item.Snippet = strings.TrimSpace(item.Snippet)
		if item.Title == "" && item.URL == "" && item.Snippet == "" {
			continue
		}
		cleaned = append(cleaned, item)
	}
	return cleaned
}
