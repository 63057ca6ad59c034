package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ppiankov/debateshield/internal/memory"
	"github.com/spf13/cobra"
)

var statsDBPath string

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show claim memory statistics",
	Long:  `Display the number of stored verdicts and the per-verdict breakdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig()
		if statsDBPath != "" {
			cfg.Memory.Path = statsDBPath
		}

		store, err := memory.OpenStore(cfg.Memory.Path)
		if err != nil {
			return fmt.Errorf("open claim memory: %w", err)
		}
		defer func() { _ = store.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		stats, err := store.Stats(ctx)
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}

		fmt.Printf("Stored claims: %d\n", stats.TotalClaims)
		if len(stats.VerdictBreakdown) > 0 {
			fmt.Println("Verdict breakdown:")
			for verdict, count := range stats.VerdictBreakdown {
				fmt.Printf("  %-10s %d\n", verdict, count)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsDBPath, "db", "", "claim memory database path")
}
