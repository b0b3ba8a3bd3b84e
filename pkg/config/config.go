package config

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"provider-synth/pkg/profile"
)

// String defaults are overrideable at build time via -ldflags -X
// Example: -ldflags "-X 'provider-synth/pkg/config.DefaultRowsStr=50000'"
var (
	DefaultOutputDirStr     = "output"
	DefaultPoolFileStr      = "reference_npi_list.csv"
	DefaultDatasetFileStr   = "synthetic_data_v1.csv"
	DefaultRowsStr          = "1000000"
	DefaultDuplicateRateStr = "0.02"
	DefaultFuzzyRateStr     = "0.02"
	DefaultSeedStr          = "42"
	DefaultSeedPhraseStr    = ""
	DefaultCompressStr      = "false"
	DefaultQuietStr         = "false"
	DefaultShowHelpStr      = "false"
	DefaultProfilePathStr   = ""
	DefaultNPICountStr      = "1000000"
	DefaultNPIPrefixStr     = "2"
	DefaultNPILengthStr     = "10"
)

type Config struct {
	OutputDir   string
	PoolFile    string
	DatasetFile string

	Rows               int
	DuplicateRate      float64
	FuzzyDuplicateRate float64

	Seed       int64
	SeedPhrase string

	NPICount  int
	NPIPrefix string
	NPILength int

	Compress bool
	Quiet    bool
	ShowHelp bool

	ProfilePath   string
	ProfileName   string
	ActiveProfile *profile.Profile
}

func DefaultConfig() *Config {
	return &Config{
		OutputDir:          orString(DefaultOutputDirStr, "output"),
		PoolFile:           orString(DefaultPoolFileStr, "reference_npi_list.csv"),
		DatasetFile:        orString(DefaultDatasetFileStr, "synthetic_data_v1.csv"),
		Rows:               parseIntOr(DefaultRowsStr, 1_000_000),
		DuplicateRate:      parseFloatOr(DefaultDuplicateRateStr, 0.02),
		FuzzyDuplicateRate: parseFloatOr(DefaultFuzzyRateStr, 0.02),
		Seed:               parseInt64Or(DefaultSeedStr, 42),
		SeedPhrase:         strings.TrimSpace(DefaultSeedPhraseStr),
		NPICount:           parseIntOr(DefaultNPICountStr, 1_000_000),
		NPIPrefix:          orString(DefaultNPIPrefixStr, "2"),
		NPILength:          parseIntOr(DefaultNPILengthStr, 10),
		Compress:           parseBoolOr(DefaultCompressStr, false),
		Quiet:              parseBoolOr(DefaultQuietStr, false),
		ShowHelp:           parseBoolOr(DefaultShowHelpStr, false),
		ProfilePath:        orString(DefaultProfilePathStr, ""),
	}
}

func ParseFlags(appName string) (*Config, error) {
	config := DefaultConfig()

	flag.StringVar(&config.OutputDir, "out", config.OutputDir, "Output directory for generated files")
	flag.StringVar(&config.PoolFile, "pool-file", config.PoolFile, "Filename for the NPI reference list")
	flag.StringVar(&config.DatasetFile, "dataset-file", config.DatasetFile, "Filename for the synthesized dataset")
	flag.IntVar(&config.Rows, "rows", config.Rows, "Number of provider records to synthesize")
	flag.Float64Var(&config.DuplicateRate, "duplicate-rate", config.DuplicateRate, "Fraction of rows receiving exact-field duplicates")
	flag.Float64Var(&config.FuzzyDuplicateRate, "fuzzy-rate", config.FuzzyDuplicateRate, "Fraction of rows receiving fuzzy duplicates")
	flag.Int64Var(&config.Seed, "seed", config.Seed, "Deterministic seed for the random source")
	flag.StringVar(&config.SeedPhrase, "seed-phrase", config.SeedPhrase, "Derive the seed from a memorable phrase (overrides -seed)")
	flag.IntVar(&config.NPICount, "npi-count", config.NPICount, "Size of the NPI reference pool")
	flag.StringVar(&config.NPIPrefix, "npi-prefix", config.NPIPrefix, "Mandated leading digits for every NPI")
	flag.IntVar(&config.NPILength, "npi-length", config.NPILength, "Total NPI length including prefix")
	flag.BoolVar(&config.Compress, "compress", config.Compress, "Write the dataset through an LZ4 frame (.lz4 suffix)")
	flag.BoolVar(&config.Quiet, "quiet", config.Quiet, "Suppress non-error output")
	flag.BoolVar(&config.ShowHelp, "help", config.ShowHelp, "Show help message")
	flag.StringVar(&config.ProfilePath, "profile", config.ProfilePath, "Path to dataset profile YAML")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", appName)
		fmt.Fprintf(os.Stderr, "\nGenerates a synthetic healthcare-provider dataset with embedded\n")
		fmt.Fprintf(os.Stderr, "duplicate/fraud signals. Identical seeds reproduce identical files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -rows 100000 -seed 42\n", appName)
		fmt.Fprintf(os.Stderr, "  %s -profile profiles/smoke.yaml -out /tmp/synth\n", appName)
		fmt.Fprintf(os.Stderr, "  %s -seed-phrase 'q3 fraud drill' -compress\n", appName)
	}

	flag.Parse()

	if config.ShowHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Load profile (CLI path has priority, otherwise embedded definition)
	var loadedProfile *profile.Profile
	if config.ProfilePath != "" {
		loaded, err := profile.LoadFile(config.ProfilePath)
		if err != nil {
			return nil, err
		}
		loadedProfile = loaded
	} else if profile.HasEmbedded() {
		loaded, err := profile.LoadEmbedded()
		if err != nil {
			return nil, err
		}
		loadedProfile = loaded
	}

	if loadedProfile != nil {
		config.applyProfile(loadedProfile)
	} else {
		config.ActiveProfile = profile.Default()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.PoolFile == "" || c.DatasetFile == "" {
		return fmt.Errorf("pool and dataset filenames cannot be empty")
	}
	if c.Rows <= 0 {
		return fmt.Errorf("rows must be greater than 0")
	}
	if c.DuplicateRate < 0 || c.DuplicateRate > 1 {
		return fmt.Errorf("duplicate rate must be within [0,1]")
	}
	if c.FuzzyDuplicateRate < 0 || c.FuzzyDuplicateRate > 1 {
		return fmt.Errorf("fuzzy duplicate rate must be within [0,1]")
	}
	if c.NPICount < c.Rows {
		return fmt.Errorf("npi pool size (%d) must cover the row count (%d)", c.NPICount, c.Rows)
	}
	if len(c.NPIPrefix) >= c.NPILength {
		return fmt.Errorf("npi prefix %q must be shorter than the total length %d", c.NPIPrefix, c.NPILength)
	}
	if c.ActiveProfile == nil {
		return fmt.Errorf("no active dataset profile")
	}
	return nil
}

// applyProfile lets a loaded profile override the flag-level knobs.
func (c *Config) applyProfile(prof *profile.Profile) {
	c.ActiveProfile = prof
	c.ProfileName = prof.Name
	if c.ProfilePath == "" {
		c.ProfilePath = prof.Source
	}
	c.Rows = prof.Rows
	c.DuplicateRate = prof.DuplicateRate
	c.FuzzyDuplicateRate = prof.FuzzyDuplicateRate
	if prof.NPI.Count > 0 {
		c.NPICount = prof.NPI.Count
	}
	if prof.NPI.Prefix != "" {
		c.NPIPrefix = prof.NPI.Prefix
	}
	if prof.NPI.Length > 0 {
		c.NPILength = prof.NPI.Length
	}
}

// EffectiveSeed resolves the seed the run will use. A seed phrase, when set,
// is hashed with BLAKE2b so a memorable run label maps to a stable seed.
func (c *Config) EffectiveSeed() int64 {
	phrase := strings.TrimSpace(c.SeedPhrase)
	if phrase == "" {
		return c.Seed
	}
	sum := blake2b.Sum256([]byte(phrase))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// PoolPath is the full path of the NPI reference list.
func (c *Config) PoolPath() string {
	return filepath.Join(c.OutputDir, c.PoolFile)
}

// DatasetPath is the full path of the dataset output, with the .lz4 suffix
// applied when compression is on.
func (c *Config) DatasetPath() string {
	path := filepath.Join(c.OutputDir, c.DatasetFile)
	if c.Compress && !strings.HasSuffix(path, ".lz4") {
		path += ".lz4"
	}
	return path
}

func (c *Config) PrintConfig(appName string) {
	fmt.Printf("🔧 %s Configuration\n", appName)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("📁 Output Directory: %s\n", c.OutputDir)
	fmt.Printf("🪪 NPI Pool: %d ids, prefix %q, length %d -> %s\n", c.NPICount, c.NPIPrefix, c.NPILength, c.PoolFile)
	fmt.Printf("📋 Rows: %d -> %s\n", c.Rows, c.DatasetFile)
	fmt.Printf("👥 Duplicate Rates: %.2f%% exact, %.2f%% fuzzy\n", c.DuplicateRate*100, c.FuzzyDuplicateRate*100)
	if strings.TrimSpace(c.SeedPhrase) != "" {
		fmt.Printf("🎲 Seed: %d (from phrase %q)\n", c.EffectiveSeed(), strings.TrimSpace(c.SeedPhrase))
	} else {
		fmt.Printf("🎲 Seed: %d\n", c.Seed)
	}
	fmt.Printf("📦 Compression: %s\n", map[bool]string{true: "Enabled", false: "Disabled"}[c.Compress])
	if c.ProfileName != "" {
		fmt.Printf("📝 Profile: %s (%s)\n", c.ProfileName, c.ProfilePath)
	} else if c.ProfilePath != "" {
		fmt.Printf("📝 Profile: %s\n", c.ProfilePath)
	}
}

// Helpers for parsing ldflag-provided strings
func parseBoolOr(val string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	case "0", "f", "false", "n", "no", "off":
		return false
	default:
		return fallback
	}
}

func parseIntOr(val string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return fallback
	}
	return n
}

func parseInt64Or(val string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloatOr(val string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
	if err != nil {
		return fallback
	}
	return f
}

func orString(val string, fallback string) string {
	s := strings.TrimSpace(val)
	if s == "" {
		return fallback
	}
	return s
}
