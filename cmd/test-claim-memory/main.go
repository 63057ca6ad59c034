// Test program to demonstrate claim memory fuzzy matching
// This shows near-duplicate claims hitting the cache while unrelated ones miss
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/debateshield/internal/memory"
	"github.com/ppiankov/debateshield/internal/model"
)

func main() {
	fmt.Println("=== Claim Memory Fuzzy Matching Test ===")
	fmt.Println()

	dir, err := os.MkdirTemp("", "debateshield-memory-test")
	if err != nil {
		fmt.Printf("temp dir error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	store, err := memory.OpenStore(filepath.Join(dir, "claims.db"))
	if err != nil {
		fmt.Printf("open store error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Seed a few adjudicated claims
	seeds := []struct {
		text    string
		verdict model.Verdict
	}{
		{"The Earth is flat", model.VerdictFalse},
		{"Vaccines cause autism", model.VerdictFalse},
		{"Coffee may reduce the risk of type 2 diabetes", model.VerdictMixed},
	}

	for _, seed := range seeds {
		claim, err := model.NewClaim(seed.text)
		if err != nil {
			fmt.Printf("  seed error: %v\n", err)
			continue
		}
		record := model.VerdictRecord{
			ClaimText:      claim.Text,
			NormalizedText: claim.NormalizedText,
			Fingerprint:    claim.Fingerprint,
			Verdict:        seed.verdict,
			Confidence:     90,
			RiskLevel:      model.RiskMedium,
			Topic:          model.TopicGeneral,
			Timestamp:      time.Now().UTC(),
		}
		if err := store.Upsert(ctx, record); err != nil {
			fmt.Printf("  upsert error: %v\n", err)
			continue
		}
		fmt.Printf("Seeded: %q -> %s\n", seed.text, seed.verdict)
	}

	// Probe with variants and unrelated claims
	probes := []string{
		"the earth is FLAT!!",
		"Vaccines cause autism in children",
		"The moon is made of cheese",
	}

	fmt.Println()
	for _, probe := range probes {
		fmt.Printf("Probing: %q\n", probe)
		fmt.Println(strings.Repeat("-", 60))

		claim, err := model.NewClaim(probe)
		if err != nil {
			fmt.Printf("  invalid claim: %v\n", err)
			continue
		}

		record, score, err := store.FindSimilar(ctx, claim.NormalizedText, 85, 100)
		if err != nil {
			fmt.Printf("  lookup error: %v\n", err)
		} else if record != nil {
			fmt.Printf("  HIT (score %d)\n", score)
			fmt.Printf("     - matched: %q\n", record.ClaimText)
			fmt.Printf("     - verdict: %s (confidence %d)\n", record.Verdict, record.Confidence)
		} else {
			fmt.Println("  miss - this claim would go through a full debate")
		}

		fmt.Println()
	}

	fmt.Println("=== Test Complete ===")
	fmt.Println()
	fmt.Println("Note: matching uses edit-distance similarity over normalized text.")
	fmt.Println("Threshold 85 over the 100 most recent rows, most recent tie wins.")
}
