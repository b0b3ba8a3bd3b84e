package npi

import "fmt"

// Sequence hands out identifiers from a pool one at a time within a bounded
// [start, end) range. It is constructed once with its range and passed to the
// generation loop; switching ranges means constructing a new Sequence, no
// position state carries over.
type Sequence struct {
	source string
	pool   []string
	start  int
	end    int
	index  int
}

// NewSequence loads the pool file at path and binds a cursor over [start, end).
// An end of zero (or one past the pool size) clamps to the pool size.
func NewSequence(path string, start, end int) (*Sequence, error) {
	pool, err := LoadPool(path)
	if err != nil {
		return nil, err
	}
	return NewSequenceFromPool(pool, path, start, end)
}

// NewSequenceFromPool binds a cursor over an in-memory pool. The source label
// is used in exhaustion errors.
func NewSequenceFromPool(pool []string, source string, start, end int) (*Sequence, error) {
	if end <= 0 || end > len(pool) {
		end = len(pool)
	}
	if start < 0 || start > end {
		return nil, fmt.Errorf("invalid sequence range [%d,%d) over pool of %d identifiers", start, end, len(pool))
	}
	return &Sequence{
		source: source,
		pool:   pool,
		start:  start,
		end:    end,
		index:  start,
	}, nil
}

// Next returns the identifier at the current position and advances by one.
// Once the range is exhausted every further call fails; callers must treat
// that as fatal for the generation run rather than wrapping around.
func (s *Sequence) Next() (string, error) {
	if s.index >= s.end {
		return "", fmt.Errorf("ran out of NPIs in %s for range [%d,%d)", s.source, s.start, s.end)
	}
	id := s.pool[s.index]
	s.index++
	return id, nil
}

// Total reports how many identifiers the range holds.
func (s *Sequence) Total() int {
	return s.end - s.start
}

// Remaining reports how many identifiers are left to take.
func (s *Sequence) Remaining() int {
	return s.end - s.index
}
