package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ppiankov/debateshield/internal/model"
	"github.com/ppiankov/debateshield/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	checkTimeout     time.Duration
	checkDBPath      string
	checkLLMProvider string
	checkLLMModel    string
	checkSource      string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <claim>",
	Short: "Fact-check a single claim and print the verdict as JSON",
	Long: `Check runs one complete analysis: memory lookup, evidence retrieval,
three-role debate, and memory store, then prints the verdict.

Example:
  debateshield check "the earth is flat"
  debateshield check "drinking bleach cures covid" --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	checkCmd.Flags().StringVar(&checkDBPath, "db", "", "claim memory database path")
	checkCmd.Flags().StringVar(&checkLLMProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	checkCmd.Flags().StringVar(&checkLLMModel, "llm-model", "", "LLM model name")
	checkCmd.Flags().StringVar(&checkSource, "source", "user", "claim source (user, news, social)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	claim := args[0]

	cfg := buildConfig()
	if checkDBPath != "" {
		cfg.Memory.Path = checkDBPath
	}
	if checkLLMProvider != "" {
		cfg.LLM.Provider = checkLLMProvider
		applyProviderEnv(cfg)
	}
	if checkLLMModel != "" {
		cfg.LLM.Model = checkLLMModel
	}

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	analyzer, err := pipeline.FromConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("init pipeline: %w", err)
	}
	defer func() { _ = analyzer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", claim)
	}

	result, err := analyzer.Analyze(ctx, claim, &pipeline.RequestContext{Source: checkSource})
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Verdict: %s (confidence %d)\n", result.Record.Verdict, result.Record.Confidence)
		if result.MemoryHit {
			fmt.Fprintf(os.Stderr, "✓ Memory hit (score %d), debate skipped\n", result.MatchScore)
		}
		fmt.Fprintln(os.Stderr)
	}

	out, err := json.MarshalIndent(result.Record, "", "  ")
	if err != nil {
		return fmt.Errorf("render verdict: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// applyProviderEnv resolves the API key for an explicitly chosen provider.
func applyProviderEnv(cfg *model.Config) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
		}
	case "anthropic", "claude":
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			cfg.LLM.APIKey = key
		}
	case "ollama":
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	}
}
