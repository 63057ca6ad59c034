package llm

import (
	"context"

	"github.com/ppiankov/debateshield/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one system+user exchange and returns the raw text reply
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a single model call
type CompletionRequest struct {
	// System is the role instruction (verifier, skeptic, or moderator)
	System string

	// User is the payload: claim, evidence, and any prior role outputs
	User string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling randomness
	Temperature float32

	// JSONOnly requests machine-parseable structured output where the
	// provider supports enforcing it
	JSONOnly bool
}

// CompletionResponse contains the model's reply
type CompletionResponse struct {
	// Content is the raw response text
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// MaxRetries bounds transport-error retries. Parse failures are never
	// retried: identical input against a non-deterministic generator may
	// simply fail again.
	MaxRetries int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:   "", // Disabled by default
		Model:      "",
		Timeout:    30,
		MaxTokens:  2000,
		MaxRetries: 2,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:   modelConfig.Provider,
		Model:      modelConfig.Model,
		APIKey:     modelConfig.APIKey,
		BaseURL:    modelConfig.BaseURL,
		Timeout:    modelConfig.Timeout,
		MaxTokens:  modelConfig.MaxTokens,
		MaxRetries: modelConfig.MaxRetries,
	}
}
