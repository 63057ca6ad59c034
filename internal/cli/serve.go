package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/debateshield/internal/pipeline"
	"github.com/ppiankov/debateshield/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveHost        string
	servePort        int
	serveDBPath      string
	serveLLMProvider string
	serveLLMModel    string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP fact-checking service",
	Long: `Serve starts the HTTP front end:
- POST /analyze fact-checks a claim and returns the verdict
- GET  /health  reports collaborator availability
- GET  /stats   reports claim memory totals

Example:
  debateshield serve --port 8080 --llm-provider openai --llm-model gpt-4o-mini`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "listen host")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "listen port")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "claim memory database path")
	serveCmd.Flags().StringVar(&serveLLMProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	serveCmd.Flags().StringVar(&serveLLMModel, "llm-model", "", "LLM model name")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	cfg.Server.Host = serveHost
	cfg.Server.Port = servePort
	if serveDBPath != "" {
		cfg.Memory.Path = serveDBPath
	}
	if serveLLMProvider != "" {
		cfg.LLM.Provider = serveLLMProvider
		applyProviderEnv(cfg)
	}
	if serveLLMModel != "" {
		cfg.LLM.Model = serveLLMModel
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

	if verbose {
		health := analyzer.Health()
		fmt.Fprintf(os.Stderr, "LLM configured: %v\n", health.LLMConfigured)
		fmt.Fprintf(os.Stderr, "Search configured: %v\n", health.SearchConfigured)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(analyzer, cfg.Server, logger)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
