// Package search discovers per-geography result directories under an ALPINE
// results root and maps each one to the set of artifact paths it contains.
package search

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nrminor/alpine-explorer/models"
)

var (
	// ErrNoGeographies means the results root contained no subdirectories.
	ErrNoGeographies = errors.New("no subdirectories found in provided results directory")

	// ErrDuplicateGeography means two raw directory names normalized to the
	// same display name, which would silently merge their results.
	ErrDuplicateGeography = errors.New("duplicate geography name after cleaning")
)

// datasetPrefixes are the known dataset-source prefixes stripped from raw
// directory names, in order. Stripping is unanchored and removes the first
// occurrence only.
var datasetPrefixes = []string{"LocalDataset_", "GISAID_", "GenBank_"}

// Suffixes locating each artifact category inside a geography directory.
// The first three name directories, the last two name files.
const (
	doubleSuffix    = "double_candidates"
	anachronSuffix  = "metadata_candidates"
	highDistSuffix  = "high_distance_clusters"
	earlyStatSuffix = "early_stats.tsv"
	lateStatSuffix  = "late_stats.tsv"
)

// StarterPath pairs a raw results subdirectory with its cleaned geography
// name.
type StarterPath struct {
	Geography string
	Path      string
}

// CleanName derives a display name from a raw geography directory name:
// known dataset prefixes are removed, then underscores become spaces. No
// case normalization, no trimming.
func CleanName(subdir string) string {
	for _, prefix := range datasetPrefixes {
		subdir = strings.Replace(subdir, prefix, "", 1)
	}
	return strings.ReplaceAll(subdir, "_", " ")
}

// Resolve lists the immediate subdirectories of resultRoot and returns one
// StarterPath per geography, in directory-listing order. Plain files at the
// root are ignored. Returns ErrNoGeographies when nothing qualifies and
// ErrDuplicateGeography when two raw names clean to the same geography.
func Resolve(resultRoot string) ([]StarterPath, error) {
	entries, err := os.ReadDir(resultRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to list results directory: %w", err)
	}

	var starters []StarterPath
	seen := make(map[string]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		geo := CleanName(entry.Name())
		if prior, dup := seen[geo]; dup {
			return nil, fmt.Errorf("%w: %q and %q both resolve to %q",
				ErrDuplicateGeography, prior, entry.Name(), geo)
		}
		seen[geo] = entry.Name()
		starters = append(starters, StarterPath{
			Geography: geo,
			Path:      filepath.Join(resultRoot, entry.Name()),
		})
	}

	if len(starters) == 0 {
		return nil, ErrNoGeographies
	}
	return starters, nil
}

// BuildTree searches each starter directory for the five artifact
// categories and assembles the run's search tree. Missing artifacts are
// recorded as absent, never as errors; only a failed directory listing
// (e.g. permission denied) aborts tree construction.
func BuildTree(starters []StarterPath) (*models.SearchTree, error) {
	branches := make([]models.SearchBranch, 0, len(starters))
	for _, sp := range starters {
		entries, err := os.ReadDir(sp.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s: %w", sp.Path, err)
		}

		branch := models.SearchBranch{
			ParentDir: sp.Path,
			Geography: sp.Geography,
		}
		// os.ReadDir returns entries sorted by name, so the first suffix
		// match is the lexically-first and selection is deterministic.
		for _, entry := range entries {
			name := entry.Name()
			full := filepath.Join(sp.Path, name)
			switch {
			case branch.Double == "" && entry.IsDir() && strings.HasSuffix(name, doubleSuffix):
				branch.Double = full
			case branch.Anachron == "" && entry.IsDir() && strings.HasSuffix(name, anachronSuffix):
				branch.Anachron = full
			case branch.HighDist == "" && entry.IsDir() && strings.HasSuffix(name, highDistSuffix):
				branch.HighDist = full
			case branch.EarlyStats == "" && !entry.IsDir() && strings.HasSuffix(name, earlyStatSuffix):
				branch.EarlyStats = full
			case branch.LateStats == "" && !entry.IsDir() && strings.HasSuffix(name, lateStatSuffix):
				branch.LateStats = full
			}
		}
		branches = append(branches, branch)
	}
	return models.NewSearchTree(branches), nil
}
