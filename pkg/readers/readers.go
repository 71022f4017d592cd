// Package readers provides the side-effect-free readers for the four
// per-geography source kinds: early/late sequence-count files and the
// anachronistic/high-distance metadata tables. Each reader is a pure
// function of a path; absence handling lives with the caller.
package readers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var (
	// ErrMalformedStats means a count file lacked the num_seqs column or
	// had no data rows.
	ErrMalformedStats = errors.New("malformed stats file")

	// ErrMissingMetadataFile means a metadata directory was located but
	// the fixed-name candidate table inside it does not exist.
	ErrMissingMetadataFile = errors.New("expected metadata file not found")
)

// Fixed filenames inside each located metadata directory.
const (
	AnachronFile = "anachronistic_metadata_only_candidates.tsv"
	HighDistFile = "high_distance_candidates.tsv"
	DoubleFile   = "double_candidate_metadata.tsv"
)

const countColumn = "num_seqs"

func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// SequenceCount reads a tab-separated stats file and returns the first data
// row's num_seqs value. Used for both the early-stage input count and the
// late-stage double-candidate count, which share a format.
func SequenceCount(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open stats file: %w", err)
	}
	defer f.Close()

	cr := newTSVReader(f)
	header, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: %s has no header row", ErrMalformedStats, path)
	}

	col := -1
	for i, name := range header {
		if name == countColumn {
			col = i
			break
		}
	}
	if col == -1 {
		return 0, fmt.Errorf("%w: %s has no %q column", ErrMalformedStats, path, countColumn)
	}

	row, err := cr.Read()
	if err != nil {
		return 0, fmt.Errorf("%w: %s has no data rows", ErrMalformedStats, path)
	}
	if col >= len(row) {
		return 0, fmt.Errorf("%w: %s first row is short", ErrMalformedStats, path)
	}

	count, err := strconv.Atoi(row[col])
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s value %q is not an integer", ErrMalformedStats, path, countColumn, row[col])
	}
	return count, nil
}

// MetadataRowCount counts the data rows of the fixed-name candidate table
// inside a located metadata directory. Zero is a valid, meaningful result:
// the directory exists but the pipeline flagged nothing.
func MetadataRowCount(dir, filename string) (int, error) {
	path := filepath.Join(dir, filename)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrMissingMetadataFile, path)
		}
		return 0, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer f.Close()

	cr := newTSVReader(f)
	rows := 0
	for {
		_, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows++
	}
	if rows == 0 {
		// Empty file: no header, no candidates.
		return 0, nil
	}
	return rows - 1, nil
}

// AnachronCount counts anachronistic candidates in a located directory.
func AnachronCount(dir string) (int, error) {
	return MetadataRowCount(dir, AnachronFile)
}

// HighDistCount counts high-distance candidates in a located directory.
func HighDistCount(dir string) (int, error) {
	return MetadataRowCount(dir, HighDistFile)
}
