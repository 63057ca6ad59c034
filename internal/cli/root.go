package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/debateshield/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "debateshield",
	Short: "DebateShield - adversarial fact-checking for public claims",
	Long: `DebateShield fact-checks natural-language claims through a three-role
adversarial debate: a Verifier argues the claim could be true, a Skeptic
argues it is false or misleading, and a Moderator adjudicates.

Both sides argue only from retrieved evidence, the verdict is explainable
(why-bullets, uncertainties, full debate transcript), and adjudicated claims
are remembered so paraphrased duplicates never pay for a second debate.

DebateShield weighs evidence; it is not an oracle.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for DebateShield.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("debateshield v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.debateshield/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(home + "/.debateshield")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match DEBATESHIELD_*
	viper.SetEnvPrefix("DEBATESHIELD")
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// buildConfig assembles the effective configuration: defaults, then config
// file, then environment API keys.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid config file values: %v\n", err)
	}

	if cfg.LLM.APIKey == "" {
		switch strings.ToLower(cfg.LLM.Provider) {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.BaseURL == "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}
	if cfg.Search.APIKey == "" {
		cfg.Search.APIKey = os.Getenv("YOU_API_KEY")
	}

	cfg.Output.Verbose = verbose
	return cfg
}

// newLogger builds the process logger.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
