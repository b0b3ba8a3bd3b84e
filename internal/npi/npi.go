// Package npi generates and consumes the reference list of synthetic
// National Provider Identifiers: fixed-length digit strings sharing a
// mandated prefix, unique within a run.
package npi

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
)

// PoolHeader is the single column name in the persisted reference list.
const PoolHeader = "NPI"

// maxSuffixDigits keeps the suffix space inside int64 range.
const maxSuffixDigits = 18

// GeneratePool returns exactly count distinct identifiers, each starting with
// prefix and padded to length with random digits. Suffixes are drawn by
// rejection sampling, which is fine at the fill ratios this tool runs at
// (the default profile requests ~10% of the available space) but degrades as
// count approaches the space size.
func GeneratePool(rnd *rand.Rand, count int, prefix string, length int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("identifier count must be positive, got %d", count)
	}
	if prefix == "" {
		return nil, fmt.Errorf("identifier prefix cannot be empty")
	}
	for _, ch := range prefix {
		if ch < '0' || ch > '9' {
			return nil, fmt.Errorf("identifier prefix %q must be digits only", prefix)
		}
	}
	if len(prefix) >= length {
		return nil, fmt.Errorf("prefix length (%d) must be less than total length (%d)", len(prefix), length)
	}
	suffixDigits := length - len(prefix)
	if suffixDigits > maxSuffixDigits {
		return nil, fmt.Errorf("suffix width %d exceeds supported maximum of %d digits", suffixDigits, maxSuffixDigits)
	}

	// Suffixes never start with a zero, so the space is
	// [10^(d-1), 10^d - 1], not the full 10^d.
	minValue := pow10(suffixDigits - 1)
	maxValue := pow10(suffixDigits) - 1
	space := maxValue - minValue + 1
	if int64(count) > space {
		return nil, fmt.Errorf("requested %d identifiers but only %d suffixes exist for prefix %q and length %d", count, space, prefix, length)
	}

	seen := make(map[string]struct{}, count)
	pool := make([]string, 0, count)
	for len(pool) < count {
		suffix := minValue + rnd.Int63n(space)
		id := fmt.Sprintf("%s%0*d", prefix, suffixDigits, suffix)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		pool = append(pool, id)
	}
	return pool, nil
}

// WritePool persists the pool as a single-column CSV. The row order becomes
// the consumption order for sequences built from the file.
func WritePool(path string, pool []string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create pool file %s: %w", path, err)
	}
	defer file.Close()

	buffered := bufio.NewWriter(file)
	writer := csv.NewWriter(buffered)
	if err := writer.Write([]string{PoolHeader}); err != nil {
		return fmt.Errorf("failed to write pool header to %s: %w", path, err)
	}
	for _, id := range pool {
		if err := writer.Write([]string{id}); err != nil {
			return fmt.Errorf("failed to write pool row to %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush pool file %s: %w", path, err)
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("failed to flush pool file %s: %w", path, err)
	}
	return nil
}

// LoadPool reads a pool file written by WritePool.
func LoadPool(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read pool header from %s: %w", path, err)
	}
	if len(header) != 1 || header[0] != PoolHeader {
		return nil, fmt.Errorf("pool file %s has unexpected header %v (want [%s])", path, header, PoolHeader)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read pool rows from %s: %w", path, err)
	}
	pool := make([]string, 0, len(rows))
	for _, row := range rows {
		pool = append(pool, row[0])
	}
	return pool, nil
}

func pow10(n int) int64 {
	v := int64(1)
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
