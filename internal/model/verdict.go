package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Stance expresses an agent's position on the claim
type Stance string

const (
	StanceSupport        Stance = "support"
	StancePartialSupport Stance = "partial_support"
	StanceRefute         Stance = "refute"
	StanceMisleading     Stance = "misleading"
	StanceUnclear        Stance = "unclear"
)

// Verdict is the moderator's final adjudication
type Verdict string

const (
	VerdictTrue      Verdict = "true"
	VerdictFalse     Verdict = "false"
	VerdictMixed     Verdict = "mixed"
	VerdictUncertain Verdict = "uncertain"
)

// RiskLevel expresses potential harm if the claim spreads unchecked
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Topic is the moderator's coarse claim classification
type Topic string

const (
	TopicHealth    Topic = "health"
	TopicFinance   Topic = "finance"
	TopicEmergency Topic = "emergency"
	TopicPolitics  Topic = "politics"
	TopicGeneral   Topic = "general"
)

// Confidence is an integer score in [0,100]. Generative models occasionally
// return floats, numeric strings, or out-of-range values; decoding coerces
// and clamps so a raw value never propagates past the parsing boundary.
type Confidence int

// UnmarshalJSON accepts JSON numbers and numeric strings. Anything that
// cannot be read as a number decodes to zero rather than failing the whole
// role output.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*c = 0
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*c = 0
			return nil
		}
		f = parsed
	}
	*c = ClampConfidence(int(math.Round(f)))
	return nil
}

// ClampConfidence bounds a confidence value to [0,100].
func ClampConfidence(v int) Confidence {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return Confidence(v)
}

// VerifierOutput is the structured result of the verifier phase
type VerifierOutput struct {
	Stance              Stance               `json:"stance"`
	KeyPoints           []string             `json:"key_points"`
	EvidenceFor         []SupportingEvidence `json:"evidence_for"`
	QuestionsForSkeptic []string             `json:"questions_for_skeptic"`
	ConfidenceSupport   Confidence           `json:"confidence_support"`
}

// Sanitize coerces the output into its valid shape: unknown stances become
// unclear, nil slices become empty, and cited evidence is restricted to items
// the agent actually received. The traceability guarantee is enforced here by
// construction, not by trusting the model.
func (o *VerifierOutput) Sanitize(bundle EvidenceBundle) {
	switch o.Stance {
	case StanceSupport, StancePartialSupport, StanceUnclear:
	default:
		o.Stance = StanceUnclear
	}
	o.KeyPoints = nonNil(o.KeyPoints)
	o.QuestionsForSkeptic = nonNil(o.QuestionsForSkeptic)
	o.ConfidenceSupport = ClampConfidence(int(o.ConfidenceSupport))

	kept := make([]SupportingEvidence, 0, len(o.EvidenceFor))
	for _, ev := range o.EvidenceFor {
		if bundle.Contains(ev.EvidenceItem) {
			kept = append(kept, ev)
		}
	}
	o.EvidenceFor = kept
}

// SkepticOutput is the structured result of the skeptic phase
type SkepticOutput struct {
	Stance               Stance             `json:"stance"`
	KeyPoints            []string           `json:"key_points"`
	EvidenceAgainst      []RefutingEvidence `json:"evidence_against"`
	QuestionsForVerifier []string           `json:"questions_for_verifier"`
	ConfidenceRefute     Confidence         `json:"confidence_refute"`
	RiskFlags            []string           `json:"risk_flags"`
}

// Sanitize mirrors VerifierOutput.Sanitize for the skeptic's stance set and
// refuting evidence.
func (o *SkepticOutput) Sanitize(bundle EvidenceBundle) {
	switch o.Stance {
	case StanceRefute, StanceMisleading, StanceUnclear:
	default:
		o.Stance = StanceUnclear
	}
	o.KeyPoints = nonNil(o.KeyPoints)
	o.QuestionsForVerifier = nonNil(o.QuestionsForVerifier)
	o.RiskFlags = nonNil(o.RiskFlags)
	o.ConfidenceRefute = ClampConfidence(int(o.ConfidenceRefute))

	kept := make([]RefutingEvidence, 0, len(o.EvidenceAgainst))
	for _, ev := range o.EvidenceAgainst {
		if bundle.Contains(ev.EvidenceItem) {
			kept = append(kept, ev)
		}
	}
	o.EvidenceAgainst = kept
}

// TranscriptEntry is one agent's contribution to the debate summary
type TranscriptEntry struct {
	Agent   string `json:"agent"`
	Message string `json:"message"`
}

// ReplyTemplates are ready-to-use response drafts in three registers
type ReplyTemplates struct {
	Neutral  string `json:"neutral"`
	FirmMod  string `json:"firm_mod"`
	Friendly string `json:"friendly"`
}

// ModeratorOutput is the structured result of the adjudication phase
type ModeratorOutput struct {
	Verdict          Verdict           `json:"verdict"`
	Confidence       Confidence        `json:"confidence"`
	RiskLevel        RiskLevel         `json:"risk_level"`
	Topic            Topic             `json:"topic"`
	WhyBullets       []string          `json:"why_bullets"`
	Uncertainties    []string          `json:"uncertainties"`
	DebateTranscript []TranscriptEntry `json:"debate_transcript"`
	ReplyTemplates   ReplyTemplates    `json:"reply_templates"`
}

// Sanitize coerces the moderator output: unknown enum values fall back to the
// conservative member, nil slices become empty.
func (o *ModeratorOutput) Sanitize() {
	switch o.Verdict {
	case VerdictTrue, VerdictFalse, VerdictMixed, VerdictUncertain:
	default:
		o.Verdict = VerdictUncertain
	}
	switch o.RiskLevel {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		o.RiskLevel = RiskMedium
	}
	switch o.Topic {
	case TopicHealth, TopicFinance, TopicEmergency, TopicPolitics, TopicGeneral:
	default:
		o.Topic = TopicGeneral
	}
	o.Confidence = ClampConfidence(int(o.Confidence))
	o.WhyBullets = nonNil(o.WhyBullets)
	o.Uncertainties = nonNil(o.Uncertainties)
	if o.DebateTranscript == nil {
		o.DebateTranscript = []TranscriptEntry{}
	}
}

// ActionResult reports one notification channel's delivery outcome
type ActionResult struct {
	Sent   bool   `json:"sent"`
	Reason string `json:"reason,omitempty"`
}

// VerdictRecord is the final, persisted adjudication for a claim. It merges
// the moderator output with evidence taken from the roles that received it,
// and is immutable once stored except for full replacement under the same
// fingerprint.
type VerdictRecord struct {
	ClaimText      string `json:"claim_text"`
	NormalizedText string `json:"normalized_text"`
	Fingerprint    string `json:"fingerprint"`

	Verdict    Verdict    `json:"verdict"`
	Confidence Confidence `json:"confidence"`
	RiskLevel  RiskLevel  `json:"risk_level"`
	Topic      Topic      `json:"topic"`

	VerifierStance Stance `json:"verifier_stance"`
	SkepticStance  Stance `json:"skeptic_stance"`

	EvidenceFor     []SupportingEvidence `json:"evidence_for"`
	EvidenceAgainst []RefutingEvidence   `json:"evidence_against"`

	WhyBullets       []string          `json:"why_bullets"`
	Uncertainties    []string          `json:"uncertainties"`
	DebateTranscript []TranscriptEntry `json:"debate_transcript"`
	ReplyTemplates   ReplyTemplates    `json:"reply_templates"`

	ActionsTaken map[string]ActionResult `json:"actions_taken"`

	Timestamp time.Time `json:"timestamp"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
