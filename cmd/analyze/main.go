package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"provider-synth/internal/dataset"
	"provider-synth/internal/report"
)

func main() {
	var pattern string
	flag.StringVar(&pattern, "data", "output/synthetic_data_*.csv*", "Dataset file path or glob pattern")
	flag.Parse()

	path, err := resolveDataset(pattern)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	table, err := dataset.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if err := report.New(table).Write(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "❌ analysis failed: %v\n", err)
		os.Exit(1)
	}
}

// resolveDataset accepts either a concrete path or a glob; globs resolve to
// the lexically last match so versioned outputs pick the newest file.
func resolveDataset(pattern string) (string, error) {
	if info, err := os.Stat(pattern); err == nil && !info.IsDir() {
		return pattern, nil
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return "", fmt.Errorf("bad dataset pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no dataset file matches %q", pattern)
	}
	sort.Strings(matches)
	return matches[len(matches)-1], nil
}
