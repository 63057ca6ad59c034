package pipeline

import (
	"context"
	"time"

	"github.com/ppiankov/debateshield/internal/debate"
	"github.com/ppiankov/debateshield/internal/memory"
	"github.com/ppiankov/debateshield/internal/model"
	"go.uber.org/zap"
)

// ClaimMemory is the cache consulted before and written after a debate run
type ClaimMemory interface {
	Lookup(ctx context.Context, claim model.Claim) memory.LookupResult
	Store(ctx context.Context, record model.VerdictRecord) error
	Stats(ctx context.Context) (*memory.Stats, error)
}

// EvidenceRetriever builds the evidence bundle for a claim
type EvidenceRetriever interface {
	Retrieve(ctx context.Context, claimText string) model.EvidenceBundle
}

// Debater runs one complete debate and always returns a well-formed outcome
type Debater interface {
	Run(ctx context.Context, claim model.Claim, bundle model.EvidenceBundle) *debate.Outcome
}

// ActionRunner fans the finished verdict out to notification channels
type ActionRunner interface {
	Execute(ctx context.Context, record *model.VerdictRecord) map[string]model.ActionResult
}

// Health reports collaborator availability. Derived from configuration at
// construction time; reading it never makes a network call.
type Health struct {
	LLMConfigured    bool `json:"llm_configured"`
	SearchConfigured bool `json:"search_configured"`
}

// RequestContext is optional caller-supplied metadata echoed back with the
// verdict
type RequestContext struct {
	Source      string `json:"source"`
	Audience    string `json:"audience"`
	UrgencyHint string `json:"urgency_hint"`
}

func (c *RequestContext) applyDefaults() {
	if c.Source == "" {
		c.Source = "user"
	}
	if c.Audience == "" {
		c.Audience = "public"
	}
	if c.UrgencyHint == "" {
		c.UrgencyHint = "medium"
	}
}

// Result is one complete analysis: the verdict record plus cache and timing
// metadata
type Result struct {
	Record     model.VerdictRecord
	Context    RequestContext
	MemoryHit  bool
	MatchScore int
	LatencyMS  int64
}

// Analyzer is the claim fact-checking pipeline: memory lookup, evidence
// retrieval, three-role debate, action fan-out, memory store. Constructed
// once at process start; collaborators are injected and shared by reference.
type Analyzer struct {
	memory    ClaimMemory
	retriever EvidenceRetriever
	debater   Debater
	actions   ActionRunner
	health    Health
	logger    *zap.Logger
	now       func() time.Time
	closers   []func() error
}

// NewAnalyzer wires an analyzer from explicit collaborators.
func NewAnalyzer(
	claimMemory ClaimMemory,
	retriever EvidenceRetriever,
	debater Debater,
	actionRunner ActionRunner,
	health Health,
	logger *zap.Logger,
) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{
		memory:    claimMemory,
		retriever: retriever,
		debater:   debater,
		actions:   actionRunner,
		health:    health,
		logger:    logger,
		now:       time.Now,
	}
}

// Analyze fact-checks one claim. The only error it can return is
// model.ErrInvalidClaim for malformed input; every other failure along the
// way degrades to a lower-confidence but well-formed verdict.
func (a *Analyzer) Analyze(ctx context.Context, claimText string, reqCtx *RequestContext) (*Result, error) {
	start := a.now()

	if reqCtx == nil {
		reqCtx = &RequestContext{}
	}
	reqCtx.applyDefaults()

	claim, err := model.NewClaim(claimText)
	if err != nil {
		return nil, err
	}

	// Fast path: a sufficiently similar claim was already adjudicated.
	if lookup := a.memory.Lookup(ctx, claim); lookup.Hit {
		a.logger.Info("memory hit, skipping debate",
			zap.String("fingerprint", claim.Fingerprint),
			zap.Int("match_score", lookup.MatchScore))
		return &Result{
			Record:     *lookup.Record,
			Context:    *reqCtx,
			MemoryHit:  true,
			MatchScore: lookup.MatchScore,
			LatencyMS:  a.now().Sub(start).Milliseconds(),
		}, nil
	}

	bundle := a.retriever.Retrieve(ctx, claim.Text)

	outcome := a.debater.Run(ctx, claim, bundle)
	record := debate.Assemble(claim, outcome, a.now())

	if a.actions != nil {
		record.ActionsTaken = a.actions.Execute(ctx, &record)
	}

	// The verdict is already computed; a store failure only costs future
	// cache hits.
	if err := a.memory.Store(ctx, record); err != nil {
		a.logger.Warn("failed to store verdict in memory",
			zap.String("fingerprint", claim.Fingerprint),
			zap.Error(err))
	}

	a.logger.Info("claim analyzed",
		zap.String("fingerprint", claim.Fingerprint),
		zap.String("verdict", string(record.Verdict)),
		zap.Int("confidence", int(record.Confidence)),
		zap.Bool("fallback", outcome.FellBack))

	return &Result{
		Record:    record,
		Context:   *reqCtx,
		LatencyMS: a.now().Sub(start).Milliseconds(),
	}, nil
}

// Health reports collaborator availability without network calls.
func (a *Analyzer) Health() Health {
	return a.health
}

// Stats reports memory corpus totals.
func (a *Analyzer) Stats(ctx context.Context) (*memory.Stats, error) {
	return a.memory.Stats(ctx)
}

// Close releases resources owned by the analyzer.
func (a *Analyzer) Close() error {
	var firstErr error
	for _, closer := range a.closers {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
