package model

import (
	"encoding/json"
	"testing"
)

func TestConfidence_UnmarshalCoercion(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Confidence
	}{
		{"integer", `75`, 75},
		{"float rounds", `75.6`, 76},
		{"numeric string", `"80"`, 80},
		{"above range clamps", `150`, 100},
		{"below range clamps", `-10`, 0},
		{"garbage defaults to zero", `"very confident"`, 0},
		{"null defaults to zero", `null`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var c Confidence
			if err := json.Unmarshal([]byte(tc.input), &c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if c != tc.want {
				t.Errorf("Expected %d, got %d", tc.want, c)
			}
		})
	}
}

func TestVerifierOutput_Sanitize(t *testing.T) {
	bundle := EvidenceBundle{
		All: []EvidenceItem{
			{Title: "NASA", URL: "https://nasa.gov/earth", Snippet: "The earth is round."},
		},
	}

	output := VerifierOutput{
		Stance: Stance("absolutely_true"), // not in the verifier's stance set
		EvidenceFor: []SupportingEvidence{
			{EvidenceItem: EvidenceItem{Title: "NASA", URL: "https://nasa.gov/earth"}, Supports: "imagery"},
			{EvidenceItem: EvidenceItem{Title: "Fabricated", URL: "https://made-up.example"}, Supports: "invented"},
		},
	}
	output.Sanitize(bundle)

	if output.Stance != StanceUnclear {
		t.Errorf("Expected unknown stance coerced to unclear, got %q", output.Stance)
	}
	if len(output.EvidenceFor) != 1 || output.EvidenceFor[0].URL != "https://nasa.gov/earth" {
		t.Errorf("Expected fabricated evidence dropped, got %v", output.EvidenceFor)
	}
	if output.KeyPoints == nil || output.QuestionsForSkeptic == nil {
		t.Error("Expected nil slices replaced with empty slices")
	}
}

func TestSkepticOutput_Sanitize(t *testing.T) {
	bundle := EvidenceBundle{
		All: []EvidenceItem{
			{Title: "Study", URL: "https://journal.example/paper", Snippet: "No link found."},
		},
	}

	output := SkepticOutput{
		Stance: Stance("support"), // verifier stance is invalid for the skeptic
		EvidenceAgainst: []RefutingEvidence{
			{EvidenceItem: EvidenceItem{URL: "https://journal.example/paper"}, Refutes: "contradicts"},
			{EvidenceItem: EvidenceItem{URL: "https://nowhere.example"}, Refutes: "invented"},
		},
	}
	output.Sanitize(bundle)

	if output.Stance != StanceUnclear {
		t.Errorf("Expected invalid stance coerced to unclear, got %q", output.Stance)
	}
	if len(output.EvidenceAgainst) != 1 {
		t.Errorf("Expected fabricated evidence dropped, got %v", output.EvidenceAgainst)
	}
	if output.RiskFlags == nil {
		t.Error("Expected nil risk flags replaced with empty slice")
	}
}

func TestModeratorOutput_Sanitize(t *testing.T) {
	output := ModeratorOutput{
		Verdict:   Verdict("probably"),
		RiskLevel: RiskLevel("extreme"),
		Topic:     Topic("sports"),
	}
	output.Sanitize()

	if output.Verdict != VerdictUncertain {
		t.Errorf("Expected unknown verdict coerced to uncertain, got %q", output.Verdict)
	}
	if output.RiskLevel != RiskMedium {
		t.Errorf("Expected unknown risk coerced to medium, got %q", output.RiskLevel)
	}
	if output.Topic != TopicGeneral {
		t.Errorf("Expected unknown topic coerced to general, got %q", output.Topic)
	}
	if output.WhyBullets == nil || output.Uncertainties == nil || output.DebateTranscript == nil {
		t.Error("Expected nil slices replaced with empty slices")
	}
}

func TestEvidenceBundle_Contains(t *testing.T) {
	bundle := EvidenceBundle{
		All: []EvidenceItem{
			{Title: "A", URL: "https://a.example", Snippet: "alpha"},
			{Title: "B", URL: "", Snippet: "beta"},
		},
	}

	if !bundle.Contains(EvidenceItem{URL: "https://a.example"}) {
		t.Error("Expected URL match to be found")
	}
	if !bundle.Contains(EvidenceItem{Title: "B", Snippet: "beta"}) {
		t.Error("Expected URL-less triple match to be found")
	}
	if bundle.Contains(EvidenceItem{URL: "https://c.example"}) {
		t.Error("Expected unknown URL to be absent")
	}
}
