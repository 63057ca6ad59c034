package model

import "time"

// Config is the complete application configuration
type Config struct {
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Memory  MemoryConfig  `yaml:"memory" mapstructure:"memory"`
	Actions ActionsConfig `yaml:"actions" mapstructure:"actions"`
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the inference gateway
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds, per role call
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxRetries int    `yaml:"max_retries" mapstructure:"max_retries"` // transport errors only
}

// SearchConfig configures evidence retrieval
type SearchConfig struct {
	APIKey          string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL         string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout         int     `yaml:"timeout" mapstructure:"timeout"` // seconds, per query
	ResultsPerQuery int     `yaml:"results_per_query" mapstructure:"results_per_query"`
	RatePerSecond   float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	Burst           int     `yaml:"burst" mapstructure:"burst"`
}

// MemoryConfig configures the claim memory store
type MemoryConfig struct {
	Path           string `yaml:"path" mapstructure:"path"`                       // sqlite database file
	MatchThreshold int    `yaml:"match_threshold" mapstructure:"match_threshold"` // minimum similarity score for a hit
	ScanWindow     int    `yaml:"scan_window" mapstructure:"scan_window"`         // most recent rows scanned per lookup
	HotTTL         int    `yaml:"hot_ttl" mapstructure:"hot_ttl"`                 // minutes an exact match stays in memory
}

// ActionsConfig configures outbound notification channels
type ActionsConfig struct {
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds, per channel
}

// ServerConfig configures the HTTP front end
type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

// OutputConfig controls logging verbosity
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:   "",
			Model:      "",
			Timeout:    30,
			MaxTokens:  2000,
			MaxRetries: 2,
		},
		Search: SearchConfig{
			BaseURL:         "https://ydc-index.io/v1/search",
			Timeout:         20,
			ResultsPerQuery: 5,
			RatePerSecond:   2,
			Burst:           4,
		},
		Memory: MemoryConfig{
			Path:           "./debateshield.db",
			MatchThreshold: 85,
			ScanWindow:     100,
			HotTTL:         60,
		},
		Actions: ActionsConfig{
			Timeout: 10,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
	}
}

// LLMTimeout returns the per-call timeout as a duration.
func (c LLMConfig) LLMTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}
