package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Gateway wraps a Provider with strict structured-output handling. Every call
// requests JSON, decodes the reply into the expected role-output shape, and
// converts any failure into a typed InferenceError so callers can branch on
// it instead of crashing.
type Gateway struct {
	provider Provider
	config   Config
	logger   *zap.Logger
}

// NewGateway builds a gateway for the configured provider. A blank provider
// yields a gateway that is constructed but not configured; every Invoke on it
// fails with a transport-kind error.
func NewGateway(config Config, logger *zap.Logger) (*Gateway, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return NewGatewayWithProvider(provider, config, logger), nil
}

// NewGatewayWithProvider wires an explicit provider, used by tests and by
// callers that construct providers themselves.
func NewGatewayWithProvider(provider Provider, config Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		provider: provider,
		config:   config,
		logger:   logger,
	}
}

// Configured reports whether a provider is wired, without any network call.
func (g *Gateway) Configured() bool {
	return g.provider != nil
}

// ProviderName returns the active provider name, or "" when disabled.
func (g *Gateway) ProviderName() string {
	if g.provider == nil {
		return ""
	}
	return g.provider.Name()
}

// Invoke sends a role instruction plus payload and decodes the JSON reply
// into out. Transport errors are retried with exponential backoff up to
// MaxRetries (role calls are idempotent); parse failures are returned
// immediately, since replaying identical input against a non-deterministic
// generator may still fail.
func (g *Gateway) Invoke(ctx context.Context, instructions, payload string, out interface{}) error {
	if g.provider == nil {
		return &InferenceError{Kind: FailureTransport, Cause: "no LLM provider configured"}
	}

	req := CompletionRequest{
		System:      instructions,
		User:        payload,
		MaxTokens:   g.config.MaxTokens,
		Temperature: 0.7,
		JSONOnly:    true,
	}

	var resp *CompletionResponse
	operation := func() error {
		r, err := g.provider.Complete(ctx, req)
		if err != nil {
			g.logger.Warn("inference call failed, may retry",
				zap.String("provider", g.provider.Name()),
				zap.Error(err))
			return err
		}
		resp = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	retries := g.config.MaxRetries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(retries)), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return &InferenceError{Kind: FailureTransport, Cause: "model call failed", Err: err}
	}

	raw := extractJSON(resp.Content)
	if raw == "" {
		return &InferenceError{Kind: FailureParse, Cause: "response contains no JSON object"}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &InferenceError{Kind: FailureParse, Cause: "response did not match expected shape", Err: err}
	}

	return nil
}

// extractJSON pulls the outermost JSON object out of a model reply. Models
// occasionally wrap JSON in markdown fences or prose despite instructions.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return content[start : end+1]
}
