package main

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/brianvoe/gofakeit/v7"

	"provider-synth/internal/dataset"
	"provider-synth/internal/dupes"
	"provider-synth/internal/npi"
	"provider-synth/internal/record"
	"provider-synth/pkg/config"
)

func main() {
	cfg, err := config.ParseFlags("generate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	if !cfg.Quiet {
		cfg.PrintConfig("Provider Synth")
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "❌ generation failed: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Quiet {
		fmt.Printf("✨ Synthetic dataset generated: %s\n", cfg.DatasetPath())
	}
}

func run(cfg *config.Config) error {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	// One seeded source drives the whole run; same seed, same bytes out.
	seed := cfg.EffectiveSeed()
	rnd := rand.New(rand.NewSource(seed))
	fake := gofakeit.New(uint64(seed))

	if !cfg.Quiet {
		fmt.Println("🪪 Generating reference NPI list...")
	}
	pool, err := npi.GeneratePool(rnd, cfg.NPICount, cfg.NPIPrefix, cfg.NPILength)
	if err != nil {
		return err
	}
	if err := npi.WritePool(cfg.PoolPath(), pool); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Printf("   Wrote %d NPIs with prefix %q and length %d to %s\n",
			len(pool), cfg.NPIPrefix, cfg.NPILength, cfg.PoolPath())
	}

	seq, err := npi.NewSequence(cfg.PoolPath(), 0, 0)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Printf("📋 Synthesizing %d provider records...\n", cfg.Rows)
	}
	synth := record.NewSynthesizer(rnd, fake, cfg.ActiveProfile)
	records, err := synth.GenerateAll(seq, cfg.Rows)
	if err != nil {
		return err
	}

	injector := dupes.NewInjector(rnd, cfg.FuzzyDuplicateRate, cfg.DuplicateRate)
	summary := injector.Inject(records)
	if !cfg.Quiet {
		fmt.Printf("🕵️ Injected duplicates: %d fuzzy (%d fallbacks), %d exact (%d skipped)\n",
			summary.FuzzyApplied, summary.FuzzyFallback, summary.ExactApplied, summary.ExactSkipped)
	}

	if err := dataset.Write(cfg.DatasetPath(), records); err != nil {
		return err
	}
	return nil
}
