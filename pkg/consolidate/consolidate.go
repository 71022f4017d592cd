// Package consolidate merges every geography's per-category metadata table
// into one geography-tagged table per category. Rows stream through an
// append-only staging file so memory stays bounded regardless of how many
// geographies contributed; the staged table is then materialized as a
// zstd-compressed Arrow IPC file with inferred column types.
package consolidate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nrminor/alpine-explorer/models"
	"github.com/nrminor/alpine-explorer/pkg/outputs"
	"github.com/nrminor/alpine-explorer/pkg/readers"
)

// GeographyColumn is prepended to every consolidated table, tagging each
// row with the contributing geography's clean name.
const GeographyColumn = "Geography"

// sourceFor maps a category to the branch directory holding it and the
// fixed filename inside that directory.
func sourceFor(branch models.SearchBranch, cat outputs.Category) (dir, filename string) {
	switch cat {
	case outputs.CategoryDouble:
		return branch.Double, readers.DoubleFile
	case outputs.CategoryAnachron:
		return branch.Anachron, readers.AnachronFile
	case outputs.CategoryHighDist:
		return branch.HighDist, readers.HighDistFile
	default:
		return "", ""
	}
}

func newTSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr
}

// Consolidate builds one category's consolidated table. Geographies are
// visited in search-tree order; a geography with no located directory, or
// a located directory missing its fixed-name table, is skipped. Returns
// the written path, or "" when zero geographies contributed (the category
// is then absent, not an error).
//
// The consolidated column set is fixed by the first contributing
// geography. Later contributors are matched to it by column name: missing
// columns become nulls, extra columns are dropped, reordered columns land
// where they belong.
func Consolidate(logger *slog.Logger, tree *models.SearchTree, manager *outputs.Manager, cat outputs.Category, lookahead int) (string, error) {
	staging, err := manager.StagingFile(cat)
	if err != nil {
		return "", err
	}
	stagingPath := staging.Name()
	defer os.Remove(stagingPath)
	defer staging.Close()

	sw := csv.NewWriter(staging)
	sw.Comma = '\t'

	var header []string
	contributors := 0
	for _, branch := range tree.Branches {
		dir, filename := sourceFor(branch, cat)
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, filename)
		src, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				logger.Warn("Metadata table missing, skipping geography", "category", cat, "geography", branch.Geography, "path", path)
				continue
			}
			return "", fmt.Errorf("failed to open %s: %w", path, err)
		}

		appended, cols, err := appendSource(sw, src, branch.Geography, header)
		src.Close()
		wroteHeader := header == nil && cols != nil
		if wroteHeader {
			// The consolidated header is committed to staging as soon as
			// the first contributor's header lands, even if its rows
			// later turn out to be unreadable.
			header = cols
		}
		if err != nil {
			logger.Warn("Unreadable metadata table, keeping staged rows and skipping the rest", "category", cat, "geography", branch.Geography, "path", path, "rows_kept", appended, "error", err)
			if appended > 0 || wroteHeader {
				contributors++
			}
			continue
		}
		contributors++
		logger.Info("Staged metadata table", "category", cat, "geography", branch.Geography, "rows", appended)
	}

	sw.Flush()
	if err := sw.Error(); err != nil {
		return "", fmt.Errorf("failed to stage %s metadata: %w", cat, err)
	}
	if err := staging.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize staging file: %w", err)
	}

	if contributors == 0 {
		return "", nil
	}

	outPath := manager.ConsolidatedPath(cat)
	if err := materialize(stagingPath, outPath, lookahead); err != nil {
		return "", fmt.Errorf("failed to materialize %s metadata: %w", cat, err)
	}
	return outPath, nil
}

// appendSource streams one geography's table into the staging writer. When
// header is nil this source is the first contributor: its columns (behind
// the Geography tag) become the consolidated header, which is written once.
// Returns the number of data rows appended and the consolidated columns.
func appendSource(sw *csv.Writer, src io.Reader, geography string, header []string) (int, []string, error) {
	cr := newTSVReader(src)
	srcHeader, err := cr.Read()
	if err != nil {
		return 0, nil, fmt.Errorf("no header row: %w", err)
	}

	if header == nil {
		header = append([]string{GeographyColumn}, srcHeader...)
		if err := sw.Write(header); err != nil {
			return 0, nil, err
		}
	}

	// Column name -> index in this source.
	srcIndex := make(map[string]int, len(srcHeader))
	for i, name := range srcHeader {
		if _, dup := srcIndex[name]; !dup {
			srcIndex[name] = i
		}
	}

	out := make([]string, len(header))
	rows := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, header, err
		}

		out[0] = geography
		for i, col := range header[1:] {
			val := ""
			if j, ok := srcIndex[col]; ok && j < len(record) {
				val = record[j]
			}
			out[i+1] = val
		}
		if err := sw.Write(out); err != nil {
			return rows, header, err
		}
		rows++
	}
	return rows, header, nil
}
