package pipeline

import (
	"fmt"
	"time"

	"github.com/ppiankov/debateshield/internal/actions"
	"github.com/ppiankov/debateshield/internal/debate"
	"github.com/ppiankov/debateshield/internal/llm"
	"github.com/ppiankov/debateshield/internal/memory"
	"github.com/ppiankov/debateshield/internal/model"
	"github.com/ppiankov/debateshield/internal/search"
	"go.uber.org/zap"
)

// FromConfig builds a fully wired analyzer: gateway, orchestrator, searcher,
// action engine, and claim memory, each constructed once and shared.
func FromConfig(cfg *model.Config, logger *zap.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	gateway, err := llm.NewGateway(llm.ConfigFromModel(cfg.LLM), logger)
	if err != nil {
		return nil, fmt.Errorf("init inference gateway: %w", err)
	}

	store, err := memory.OpenStore(cfg.Memory.Path)
	if err != nil {
		return nil, fmt.Errorf("open claim memory: %w", err)
	}
	claimMemory := memory.New(store, cfg.Memory, logger)

	searcher := search.NewYouClient(cfg.Search)
	retriever := search.NewRetriever(searcher, cfg.Search.ResultsPerQuery, logger)

	channels := []actions.Channel{
		actions.NewWebhookChannel(cfg.Actions.WebhookURL),
		actions.NewDisabledChannel("intercom"),
		actions.NewDisabledChannel("composio"),
	}
	engine := actions.NewEngine(channels, time.Duration(cfg.Actions.Timeout)*time.Second, logger)

	orchestrator := debate.NewOrchestrator(gateway, logger)

	analyzer := NewAnalyzer(
		claimMemory,
		retriever,
		orchestrator,
		engine,
		Health{
			LLMConfigured:    gateway.Configured(),
			SearchConfigured: searcher.Configured(),
		},
		logger,
	)
	analyzer.closers = append(analyzer.closers, claimMemory.Close)

	return analyzer, nil
}
