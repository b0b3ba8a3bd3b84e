// Package profile defines the dataset profile: row counts, duplicate rates,
// identifier shape, and the weighted categorical distributions that drive
// record synthesis. Profiles load from a YAML file or a build-time embed.
package profile

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EmbeddedProfileYAML holds build-time injected YAML. Empty when not provided.
// Set via: -ldflags "-X 'provider-synth/pkg/profile.EmbeddedProfileYAML=...'"
var EmbeddedProfileYAML string

// DateLayout is the wire format for every date column in the dataset.
const DateLayout = "01/02/2006"

// WeightEntry is one categorical value and its probability mass.
type WeightEntry struct {
	Value  string  `yaml:"value"`
	Weight float64 `yaml:"weight"`
}

// Distribution is an ordered weighted categorical. Order matters: picks walk
// the cumulative weights in declaration order, so a profile reproduces
// byte-for-byte across runs (a map would not).
type Distribution []WeightEntry

// Pick draws one value according to the weights.
func (d Distribution) Pick(rnd *rand.Rand) string {
	roll := rnd.Float64()
	cumulative := 0.0
	for _, entry := range d {
		cumulative += entry.Weight
		if roll < cumulative {
			return entry.Value
		}
	}
	// Floating point slack: the weights sum to 1.0 within tolerance, so a
	// roll past the cumulative total lands on the final entry.
	return d[len(d)-1].Value
}

func (d Distribution) validate(name string) error {
	if len(d) == 0 {
		return fmt.Errorf("distribution %s is empty", name)
	}
	sum := 0.0
	for _, entry := range d {
		if entry.Weight < 0 {
			return fmt.Errorf("distribution %s has negative weight %v for %q", name, entry.Weight, entry.Value)
		}
		sum += entry.Weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("distribution %s weights sum to %v, must sum to 1.0", name, sum)
	}
	return nil
}

// NPISpec describes the shape of the identifier reference list.
type NPISpec struct {
	Count  int    `yaml:"count"`
	Prefix string `yaml:"prefix"`
	Length int    `yaml:"length"`
}

// Profile is a complete dataset recipe.
type Profile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Rows               int     `yaml:"rows"`
	DuplicateRate      float64 `yaml:"duplicate_rate"`
	FuzzyDuplicateRate float64 `yaml:"fuzzy_duplicate_rate"`

	NPI NPISpec `yaml:"npi"`

	// LastUpdated pins the Last_Updated column (and the anchor for future
	// dates) to a fixed date, MM/DD/YYYY. Empty means "today", which trades
	// cross-day reproducibility for freshness.
	LastUpdated string `yaml:"last_updated"`

	ProviderType       Distribution `yaml:"provider_type"`
	BoardCertification Distribution `yaml:"board_certification"`
	Ownership          Distribution `yaml:"ownership_type"`

	Source string `yaml:"-"`
}

// Default returns the built-in profile: one million rows, 2% exact and 2%
// fuzzy duplicates, a one-million NPI pool with prefix "2" and length 10.
func Default() *Profile {
	return &Profile{
		Name:               "default",
		Description:        "Synthetic provider enrollment dataset with embedded fraud signals",
		Rows:               1_000_000,
		DuplicateRate:      0.02,
		FuzzyDuplicateRate: 0.02,
		NPI: NPISpec{
			Count:  1_000_000,
			Prefix: "2",
			Length: 10,
		},
		ProviderType: Distribution{
			{Value: "Individual", Weight: 0.70},
			{Value: "Organization", Weight: 0.30},
		},
		BoardCertification: Distribution{
			{Value: "Yes", Weight: 0.80},
			{Value: "No", Weight: 0.20},
		},
		Ownership: Distribution{
			{Value: "Sole Proprietor", Weight: 0.40},
			{Value: "LLC", Weight: 0.30},
			{Value: "Corp", Weight: 0.30},
		},
	}
}

// FromYAML parses a profile definition. Fields omitted from the YAML keep
// their defaults, so a profile can override just the knobs it cares about.
func FromYAML(data string) (*Profile, error) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return nil, errors.New("profile YAML is empty")
	}
	prof := Default()
	if err := yaml.Unmarshal([]byte(trimmed), prof); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	if prof.Name == "" {
		return nil, errors.New("profile missing required field 'name'")
	}
	if err := prof.Validate(); err != nil {
		return nil, err
	}
	return prof, nil
}

// LoadFile loads a profile from a YAML file path.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}
	prof, err := FromYAML(string(data))
	if err != nil {
		return nil, err
	}
	prof.Source = path
	return prof, nil
}

// LoadEmbedded parses the embedded profile definition if present.
func LoadEmbedded() (*Profile, error) {
	if !HasEmbedded() {
		return nil, errors.New("no embedded profile available")
	}
	raw := strings.TrimSpace(EmbeddedProfileYAML)
	prof, err := FromYAML(raw)
	if err == nil {
		prof.Source = "embedded"
		return prof, nil
	}

	// Allow base64 encoded payloads for ease of ldflags embedding
	decoded, decodeErr := base64.StdEncoding.DecodeString(raw)
	if decodeErr != nil {
		return nil, err
	}
	prof, err = FromYAML(string(decoded))
	if err != nil {
		return nil, err
	}
	prof.Source = "embedded"
	return prof, nil
}

// HasEmbedded reports whether a build-time profile is embedded.
func HasEmbedded() bool {
	return strings.TrimSpace(EmbeddedProfileYAML) != ""
}

// Validate checks the profile before any generation work begins.
func (p *Profile) Validate() error {
	if p.Rows <= 0 {
		return fmt.Errorf("rows must be positive, got %d", p.Rows)
	}
	if p.DuplicateRate < 0 || p.DuplicateRate > 1 {
		return fmt.Errorf("duplicate_rate must be within [0,1], got %v", p.DuplicateRate)
	}
	if p.FuzzyDuplicateRate < 0 || p.FuzzyDuplicateRate > 1 {
		return fmt.Errorf("fuzzy_duplicate_rate must be within [0,1], got %v", p.FuzzyDuplicateRate)
	}
	if p.NPI.Count < p.Rows {
		return fmt.Errorf("npi count (%d) must cover the row count (%d)", p.NPI.Count, p.Rows)
	}
	if p.LastUpdated != "" {
		if _, err := time.Parse(DateLayout, p.LastUpdated); err != nil {
			return fmt.Errorf("last_updated %q is not a valid %s date: %w", p.LastUpdated, DateLayout, err)
		}
	}
	if err := p.ProviderType.validate("provider_type"); err != nil {
		return err
	}
	if err := p.BoardCertification.validate("board_certification"); err != nil {
		return err
	}
	if err := p.Ownership.validate("ownership_type"); err != nil {
		return err
	}
	return nil
}

// Anchor resolves the date every relative date field is computed against.
func (p *Profile) Anchor() time.Time {
	if p.LastUpdated != "" {
		anchor, err := time.Parse(DateLayout, p.LastUpdated)
		if err == nil {
			return anchor
		}
	}
	return time.Now()
}
