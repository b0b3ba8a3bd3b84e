// Package dataset reads and writes the provider dataset file: CSV with a
// fixed header, optionally wrapped in an LZ4 frame when the path carries a
// .lz4 suffix.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pierrec/lz4/v4"

	"provider-synth/internal/record"
)

// CompressedExt marks dataset files written through an LZ4 frame.
const CompressedExt = ".lz4"

// Write serializes the records to path with the fixed header. Blank fields
// stay blank; a .lz4 path compresses the stream.
func Write(path string, records []*record.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file %s: %w", path, err)
	}
	defer file.Close()

	buffered := bufio.NewWriterSize(file, 256*1024)
	var sink io.Writer = buffered
	var lzWriter *lz4.Writer
	if strings.HasSuffix(path, CompressedExt) {
		lzWriter = lz4.NewWriter(buffered)
		sink = lzWriter
	}

	writer := csv.NewWriter(sink)
	if err := writer.Write(record.Columns); err != nil {
		return fmt.Errorf("failed to write dataset header to %s: %w", path, err)
	}
	for _, rec := range records {
		if err := writer.Write(rec.Row()); err != nil {
			return fmt.Errorf("failed to write dataset row to %s: %w", path, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset file %s: %w", path, err)
	}
	if lzWriter != nil {
		if err := lzWriter.Close(); err != nil {
			return fmt.Errorf("failed to finish compressed dataset %s: %w", path, err)
		}
	}
	if err := buffered.Flush(); err != nil {
		return fmt.Errorf("failed to flush dataset file %s: %w", path, err)
	}
	return nil
}

// Table is a loaded dataset: header plus rows, with column lookup by name.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// Load reads a dataset written by Write, transparently decompressing .lz4
// files.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %s: %w", path, err)
	}
	defer file.Close()

	var source io.Reader = bufio.NewReaderSize(file, 256*1024)
	if strings.HasSuffix(path, CompressedExt) {
		source = lz4.NewReader(source)
	}

	reader := csv.NewReader(source)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header from %s: %w", path, err)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset rows from %s: %w", path, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	return &Table{header: header, index: index, rows: rows}, nil
}

// FromRecords builds a table directly from in-memory records, mainly for
// report tests that skip the file round trip.
func FromRecords(records []*record.Record) *Table {
	index := make(map[string]int, len(record.Columns))
	for i, name := range record.Columns {
		index[name] = i
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rec.Row())
	}
	return &Table{header: append([]string(nil), record.Columns...), index: index, rows: rows}
}

// Len reports the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Header returns the column names in file order.
func (t *Table) Header() []string {
	return t.header
}

// Column returns every value of the named column, in row order.
func (t *Table) Column(name string) ([]string, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("dataset has no column %q", name)
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values, nil
}
