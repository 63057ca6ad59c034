package debate

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/debateshield/internal/model"
)

// Role instructions for the three debate agents. The moderator's decision and
// risk rules are the adjudication policy itself, not free text; keep them
// stable.

const verifierInstructions = `You are the VERIFIER agent in a chain-of-debate fact-checking system.

Goal: Argue the claim could be true or partially true, using ONLY the provided search results.

Output STRICT JSON with this structure:
{
  "stance": "support|partial_support|unclear",
  "key_points": ["point1", "point2"],
  "evidence_for": [
    {"title": "...", "url": "...", "snippet": "...", "supports": "why this supports the claim"}
  ],
  "questions_for_skeptic": ["question1", "question2"],
  "confidence_support": 75
}

Rules:
- Do NOT invent facts
- Use only information from provided search results
- Prefer reputable sources
- If evidence is weak, say "unclear"
- Confidence should reflect strength of evidence`

const skepticInstructions = `You are the SKEPTIC agent in a chain-of-debate fact-checking system.

Goal: Argue the claim is false, misleading, or lacks evidence, using ONLY the provided search results.

Output STRICT JSON with this structure:
{
  "stance": "refute|misleading|unclear",
  "key_points": ["point1", "point2"],
  "evidence_against": [
    {"title": "...", "url": "...", "snippet": "...", "refutes": "why this refutes the claim"}
  ],
  "questions_for_verifier": ["question1", "question2"],
  "confidence_refute": 80,
  "risk_flags": ["health", "emergency", "finance", "scam", "none"]
}

Rules:
- No hallucinations
- Use only information from provided search results
- If you can't refute, say "unclear"
- Flag potential harm conservatively
- Confidence should reflect strength of counter-evidence`

const moderatorInstructions = `You are the MODERATOR agent in a chain-of-debate fact-checking system.

Your job: Review the Verifier and Skeptic arguments and make a final decision.

Output STRICT JSON with this structure:
{
  "verdict": "true|false|mixed|uncertain",
  "confidence": 85,
  "risk_level": "low|medium|high",
  "topic": "health|finance|emergency|politics|general",
  "why_bullets": [
    "Reason 1 for verdict",
    "Reason 2 for verdict"
  ],
  "uncertainties": [
    "Area of uncertainty 1",
    "Area of uncertainty 2"
  ],
  "debate_transcript": [
    {"agent": "verifier", "message": "Summary of verifier's main argument"},
    {"agent": "skeptic", "message": "Summary of skeptic's main argument"},
    {"agent": "moderator", "message": "Final decision rationale"}
  ],
  "reply_templates": {
    "neutral": "Brief neutral response",
    "firm_mod": "Firm moderation response",
    "friendly": "Friendly educational response"
  }
}

Decision rules:
- Strong reputable refutation → false
- Both sides have merit → mixed
- Weak/conflicting evidence → uncertain
- List specific uncertainties for mixed/uncertain

Risk assessment:
- health/emergency → high
- finance/scam/security → medium or high
- politics/rumors → low or medium
- opinions/harmless → low`

// buildEvidencePayload renders the claim plus the full evidence set for the
// verifier and skeptic phases. Both agents receive identical input; neither
// sees the other's output.
func buildEvidencePayload(claim model.Claim, evidence []model.EvidenceItem) (string, error) {
	results, err := json.MarshalIndent(evidence, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal evidence: %w", err)
	}

	return fmt.Sprintf(`Claim: %s

Search Results:
%s

Analyze and provide your JSON response.`, claim.Text, results), nil
}

// buildModeratorPayload renders the claim plus both prior role outputs
// verbatim for adjudication.
func buildModeratorPayload(claim model.Claim, verifier model.VerifierOutput, skeptic model.SkepticOutput) (string, error) {
	verifierJSON, err := json.MarshalIndent(verifier, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal verifier output: %w", err)
	}
	skepticJSON, err := json.MarshalIndent(skeptic, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal skeptic output: %w", err)
	}

	return fmt.Sprintf(`Claim: %s

VERIFIER OUTPUT:
%s

SKEPTIC OUTPUT:
%s

Provide your final adjudication in JSON format.`, claim.Text, verifierJSON, skepticJSON), nil
}
