package search

import (
	"context"
	"fmt"

	"github.com/ppiankov/debateshield/internal/model"
	"go.uber.org/zap"
)

// Display and debate caps for one evidence bundle.
const (
	maxPerPartition = 3
	maxTotal        = 8
)

// Searcher defines the interface for evidence search providers
type Searcher interface {
	// Name returns the provider name
	Name() string

	// Search runs one query and returns normalized evidence items
	Search(ctx context.Context, query string, count int) ([]model.EvidenceItem, error)

	// Configured reports whether the provider has credentials, without
	// making a network call
	Configured() bool
}

// Retriever turns a claim into the for/against/all evidence bundle by
// querying the provider twice: once for the claim and once for a debunk
// query. Retrieval failures are absorbed - the debate proceeds with
// whatever partial evidence exists.
type Retriever struct {
	searcher Searcher
	perQuery int
	logger   *zap.Logger
}

// NewRetriever creates a retriever over the given search provider.
func NewRetriever(searcher Searcher, resultsPerQuery int, logger *zap.Logger) *Retriever {
	if resultsPerQuery <= 0 {
		resultsPerQuery = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{
		searcher: searcher,
		perQuery: resultsPerQuery,
		logger:   logger,
	}
}

// Retrieve builds the evidence bundle for a claim. Never fails: a provider
// outage yields empty partitions and the pipeline degrades downstream.
func (r *Retriever) Retrieve(ctx context.Context, claimText string) model.EvidenceBundle {
	base := r.search(ctx, claimText)
	debunk := r.search(ctx, fmt.Sprintf("debunk %s", claimText))

	merged := append(append([]model.EvidenceItem{}, base...), debunk...)
	if len(merged) > maxTotal {
		merged = merged[:maxTotal]
	}

	return model.EvidenceBundle{
		For:     cap3(base),
		Against: cap3(debunk),
		All:     merged,
	}
}

func (r *Retriever) search(ctx context.Context, query string) []model.EvidenceItem {
	if r.searcher == nil || !r.searcher.Configured() {
		return nil
	}

	items, err := r.searcher.Search(ctx, query, r.perQuery)
	if err != nil {
		r.logger.Warn("evidence search failed, continuing with partial evidence",
			zap.String("query", query),
			zap.Error(err))
		return nil
	}
	return model.CleanEvidence(items)
}

func cap3(items []model.EvidenceItem) []model.EvidenceItem {
	if len(items) > maxPerPartition {
		return items[:maxPerPartition]
	}
	return items
}
