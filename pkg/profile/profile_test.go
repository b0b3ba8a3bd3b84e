package profile

import (
	"math/rand"
	"strings"
	"testing"
)

const smokeYAML = `
name: smoke
rows: 5000
duplicate_rate: 0.05
fuzzy_duplicate_rate: 0.01
npi:
  count: 6000
  prefix: "21"
  length: 10
last_updated: 06/15/2025
provider_type:
  - value: Individual
    weight: 0.5
  - value: Organization
    weight: 0.5
`

func TestFromYAMLOverridesDefaults(t *testing.T) {
	prof, err := FromYAML(smokeYAML)
	if err != nil {
		t.Fatalf("failed to parse profile: %v", err)
	}
	if prof.Rows != 5000 {
		t.Fatalf("rows = %d, want 5000", prof.Rows)
	}
	if prof.DuplicateRate != 0.05 || prof.FuzzyDuplicateRate != 0.01 {
		t.Fatalf("rates not applied: %v / %v", prof.DuplicateRate, prof.FuzzyDuplicateRate)
	}
	if prof.NPI.Prefix != "21" || prof.NPI.Count != 6000 {
		t.Fatalf("npi spec not applied: %+v", prof.NPI)
	}
	if len(prof.ProviderType) != 2 || prof.ProviderType[0].Weight != 0.5 {
		t.Fatalf("provider_type distribution not applied: %+v", prof.ProviderType)
	}
	// Untouched distributions keep their defaults.
	if len(prof.Ownership) != 3 {
		t.Fatalf("ownership distribution should keep defaults, got %+v", prof.Ownership)
	}
}

func TestDefaultProfileValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
}

func TestWeightSumValidation(t *testing.T) {
	bad := `
name: bad-weights
provider_type:
  - value: Individual
    weight: 0.9
  - value: Organization
    weight: 0.2
`
	if _, err := FromYAML(bad); err == nil {
		t.Fatal("expected error for weights summing past 1.0")
	} else if !strings.Contains(err.Error(), "provider_type") {
		t.Fatalf("error %q does not name the distribution", err)
	}
}

func TestValidationRejectsBadRates(t *testing.T) {
	prof := Default()
	prof.DuplicateRate = 1.5
	if err := prof.Validate(); err == nil {
		t.Fatal("expected error for duplicate rate above 1")
	}

	prof = Default()
	prof.NPI.Count = prof.Rows - 1
	if err := prof.Validate(); err == nil {
		t.Fatal("expected error when the pool cannot cover the rows")
	}

	prof = Default()
	prof.LastUpdated = "2025-06-15"
	if err := prof.Validate(); err == nil {
		t.Fatal("expected error for a last_updated date in the wrong layout")
	}
}

func TestFromYAMLRequiresName(t *testing.T) {
	if _, err := FromYAML("rows: 10"); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := FromYAML("   "); err == nil {
		t.Fatal("expected error for empty YAML")
	}
}

func TestDistributionPick(t *testing.T) {
	dist := Distribution{
		{Value: "A", Weight: 0.5},
		{Value: "B", Weight: 0.5},
	}
	rnd := rand.New(rand.NewSource(1))
	counts := map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[dist.Pick(rnd)]++
	}
	if counts["A"] == 0 || counts["B"] == 0 {
		t.Fatalf("pick never returned one of the values: %v", counts)
	}
	if counts["A"]+counts["B"] != 10000 {
		t.Fatalf("pick returned an unknown value: %v", counts)
	}
	// A heavily skewed split should land near its weights.
	skewed := Distribution{
		{Value: "common", Weight: 0.99},
		{Value: "rare", Weight: 0.01},
	}
	counts = map[string]int{}
	for i := 0; i < 10000; i++ {
		counts[skewed.Pick(rnd)]++
	}
	if counts["common"] < 9700 {
		t.Fatalf("weighted pick far off target: %v", counts)
	}
}

func TestLoadEmbedded(t *testing.T) {
	old := EmbeddedProfileYAML
	defer func() { EmbeddedProfileYAML = old }()

	EmbeddedProfileYAML = ""
	if HasEmbedded() {
		t.Fatal("no embed expected")
	}
	if _, err := LoadEmbedded(); err == nil {
		t.Fatal("expected error without an embedded profile")
	}

	EmbeddedProfileYAML = smokeYAML
	prof, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("failed to load embedded profile: %v", err)
	}
	if prof.Name != "smoke" || prof.Source != "embedded" {
		t.Fatalf("unexpected embedded profile: %+v", prof)
	}
}
