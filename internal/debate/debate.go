package debate

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/debateshield/internal/llm"
	"github.com/ppiankov/debateshield/internal/model"
	"go.uber.org/zap"
)

// Orchestrator sequences the three debate roles over the inference gateway.
// A run is a single logical transaction: no phase result is persisted until
// the whole debate completes or degrades to the fallback.
type Orchestrator struct {
	gateway *llm.Gateway
	logger  *zap.Logger
}

// NewOrchestrator creates a debate orchestrator over the given gateway.
func NewOrchestrator(gateway *llm.Gateway, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		gateway: gateway,
		logger:  logger,
	}
}

// Outcome is the result of one debate run. FellBack is set when any phase
// failed and the conservative uncertain outcome was substituted; the caller
// always receives a complete, well-formed outcome either way.
type Outcome struct {
	Moderator       model.ModeratorOutput
	EvidenceFor     []model.SupportingEvidence
	EvidenceAgainst []model.RefutingEvidence
	VerifierStance  model.Stance
	SkepticStance   model.Stance
	FellBack        bool
	FailureCause    string
}

// Run executes the full debate: verifier, then skeptic, then moderator.
// The verifier and skeptic receive identical input and stay isolated from
// each other; the moderator strictly follows both and sees their outputs
// verbatim. Run never returns an error — any phase failure produces the
// fallback outcome instead.
func (o *Orchestrator) Run(ctx context.Context, claim model.Claim, bundle model.EvidenceBundle) *Outcome {
	outcome, err := o.run(ctx, claim, bundle)
	if err != nil {
		o.logger.Warn("debate pipeline failed, falling back to uncertain verdict",
			zap.String("fingerprint", claim.Fingerprint),
			zap.Error(err))
		return fallbackOutcome(err.Error(), bundle)
	}
	return outcome
}

func (o *Orchestrator) run(ctx context.Context, claim model.Claim, bundle model.EvidenceBundle) (*Outcome, error) {
	payload, err := buildEvidencePayload(claim, bundle.All)
	if err != nil {
		return nil, err
	}

	// Verifier phase
	var verifier model.VerifierOutput
	if err := o.gateway.Invoke(ctx, verifierInstructions, payload, &verifier); err != nil {
		return nil, fmt.Errorf("verifier phase: %w", err)
	}
	verifier.Sanitize(bundle)

	// Skeptic phase. Same claim and evidence, no knowledge of the verifier.
	var skeptic model.SkepticOutput
	if err := o.gateway.Invoke(ctx, skepticInstructions, payload, &skeptic); err != nil {
		return nil, fmt.Errorf("skeptic phase: %w", err)
	}
	skeptic.Sanitize(bundle)

	// Moderator phase adjudicates over both outputs verbatim.
	moderatorPayload, err := buildModeratorPayload(claim, verifier, skeptic)
	if err != nil {
		return nil, err
	}

	var moderator model.ModeratorOutput
	if err := o.gateway.Invoke(ctx, moderatorInstructions, moderatorPayload, &moderator); err != nil {
		return nil, fmt.Errorf("moderator phase: %w", err)
	}
	moderator.Sanitize()
	ensureTranscript(&moderator, verifier, skeptic)

	// Assembly: evidence always comes from the role that actually received
	// it, never from the moderator, which only reasons over summaries.
	return &Outcome{
		Moderator:       moderator,
		EvidenceFor:     verifier.EvidenceFor,
		EvidenceAgainst: skeptic.EvidenceAgainst,
		VerifierStance:  verifier.Stance,
		SkepticStance:   skeptic.Stance,
	}, nil
}

// ensureTranscript guarantees the transcript references both debate sides
// even when the moderator omits them.
func ensureTranscript(moderator *model.ModeratorOutput, verifier model.VerifierOutput, skeptic model.SkepticOutput) {
	hasAgent := func(agent string) bool {
		for _, entry := range moderator.DebateTranscript {
			if entry.Agent == agent {
				return true
			}
		}
		return false
	}

	if !hasAgent("verifier") {
		moderator.DebateTranscript = append(moderator.DebateTranscript, model.TranscriptEntry{
			Agent:   "verifier",
			Message: summarizeSide(string(verifier.Stance), verifier.KeyPoints),
		})
	}
	if !hasAgent("skeptic") {
		moderator.DebateTranscript = append(moderator.DebateTranscript, model.TranscriptEntry{
			Agent:   "skeptic",
			Message: summarizeSide(string(skeptic.Stance), skeptic.KeyPoints),
		})
	}
}

func summarizeSide(stance string, keyPoints []string) string {
	if len(keyPoints) > 0 {
		return fmt.Sprintf("Stance %s: %s", stance, keyPoints[0])
	}
	return fmt.Sprintf("Stance %s, no key points provided", stance)
}

// fallbackOutcome is the conservative result returned when any phase fails.
// It carries the display evidence already retrieved for the request, since
// no role-cited evidence exists.
func fallbackOutcome(cause string, bundle model.EvidenceBundle) *Outcome {
	evidenceFor := make([]model.SupportingEvidence, 0, len(bundle.For))
	for _, item := range bundle.For {
		evidenceFor = append(evidenceFor, model.SupportingEvidence{EvidenceItem: item})
	}
	evidenceAgainst := make([]model.RefutingEvidence, 0, len(bundle.Against))
	for _, item := range bundle.Against {
		evidenceAgainst = append(evidenceAgainst, model.RefutingEvidence{EvidenceItem: item})
	}

	return &Outcome{
		Moderator: model.ModeratorOutput{
			Verdict:       model.VerdictUncertain,
			Confidence:    20,
			RiskLevel:     model.RiskMedium,
			Topic:         model.TopicGeneral,
			WhyBullets:    []string{"Debate pipeline failed; returning conservative uncertainty."},
			Uncertainties: []string{cause},
			DebateTranscript: []model.TranscriptEntry{
				{Agent: "moderator", Message: "Fallback uncertain verdict due to error."},
			},
			ReplyTemplates: model.ReplyTemplates{
				Neutral:  "I'm not fully sure this is accurate - worth checking reliable sources before sharing.",
				FirmMod:  "We can't verify this claim with reliable evidence right now.",
				Friendly: "Not sure this is true - maybe double-check before reposting.",
			},
		},
		EvidenceFor:     evidenceFor,
		EvidenceAgainst: evidenceAgainst,
		VerifierStance:  model.StanceUnclear,
		SkepticStance:   model.StanceUnclear,
		FellBack:        true,
		FailureCause:    cause,
	}
}

// Assemble builds the final verdict record from one debate outcome. Each
// field names its origin: the adjudication block comes from the moderator,
// stances and evidence from the roles that produced them, identity fields
// from the claim.
func Assemble(claim model.Claim, outcome *Outcome, now time.Time) model.VerdictRecord {
	return model.VerdictRecord{
		ClaimText:      claim.Text,
		NormalizedText: claim.NormalizedText,
		Fingerprint:    claim.Fingerprint,

		Verdict:    outcome.Moderator.Verdict,
		Confidence: outcome.Moderator.Confidence,
		RiskLevel:  outcome.Moderator.RiskLevel,
		Topic:      outcome.Moderator.Topic,

		VerifierStance: outcome.VerifierStance,
		SkepticStance:  outcome.SkepticStance,

		EvidenceFor:     outcome.EvidenceFor,
		EvidenceAgainst: outcome.EvidenceAgainst,

		WhyBullets:       outcome.Moderator.WhyBullets,
		Uncertainties:    outcome.Moderator.Uncertainties,
		DebateTranscript: outcome.Moderator.DebateTranscript,
		ReplyTemplates:   outcome.Moderator.ReplyTemplates,

		ActionsTaken: map[string]model.ActionResult{},

		Timestamp: now.UTC(),
	}
}
