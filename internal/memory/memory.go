package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/ppiankov/debateshield/internal/model"
	"go.uber.org/zap"
)

// Memory is the claim memoization cache: an exact-fingerprint hot layer in
// front of the persistent fuzzy-match store. A hit means the expensive
// debate pipeline can be skipped entirely.
type Memory struct {
	store     *Store
	hot       *gocache.Cache
	threshold int
	window    int
	logger    *zap.Logger
}

// LookupResult is the outcome of one cache probe
type LookupResult struct {
	Hit        bool
	Record     *model.VerdictRecord
	MatchScore int
}

// New creates a Memory over an opened store.
func New(store *Store, cfg model.MemoryConfig, logger *zap.Logger) *Memory {
	if logger == nil {
		logger = zap.NewNop()
	}

	threshold := cfg.MatchThreshold
	if threshold <= 0 {
		threshold = 85
	}
	window := cfg.ScanWindow
	if window <= 0 {
		window = 100
	}
	hotTTL := time.Duration(cfg.HotTTL) * time.Minute
	if hotTTL <= 0 {
		hotTTL = time.Hour
	}

	return &Memory{
		store:     store,
		hot:       gocache.New(hotTTL, 10*time.Minute),
		threshold: threshold,
		window:    window,
		logger:    logger,
	}
}

// Lookup probes the cache for the claim. Store errors are absorbed and
// reported as a miss: a broken cache must never fail the request.
func (m *Memory) Lookup(ctx context.Context, claim model.Claim) LookupResult {
	if cached, found := m.hot.Get(claim.Fingerprint); found {
		if record, ok := cached.(model.VerdictRecord); ok {
			return LookupResult{Hit: true, Record: &record, MatchScore: 100}
		}
	}

	record, score, err := m.store.FindSimilar(ctx, claim.NormalizedText, m.threshold, m.window)
	if err != nil {
		m.logger.Warn("memory lookup failed, treating as miss",
			zap.String("fingerprint", claim.Fingerprint),
			zap.Error(err))
		return LookupResult{}
	}
	if record == nil {
		return LookupResult{}
	}

	return LookupResult{Hit: true, Record: record, MatchScore: score}
}

// Store upserts the record under its fingerprint and refreshes the hot
// layer. Safe to call for duplicate in-flight claims; last write wins.
func (m *Memory) Store(ctx context.Context, record model.VerdictRecord) error {
	if err := m.store.Upsert(ctx, record); err != nil {
		return err
	}
	m.hot.Set(record.Fingerprint, record, gocache.DefaultExpiration)
	return nil
}

// Stats reports corpus totals from the persistent store.
func (m *Memory) Stats(ctx context.Context) (*Stats, error) {
	return m.store.Stats(ctx)
}

// Close closes the persistent store.
func (m *Memory) Close() error {
	return m.store.Close()
}
