// Package outputs manages the on-disk layout of a run's durable artifacts:
// the statistics spreadsheet, the consolidated Arrow tables, the YAML run
// summary, and the scratch staging files used during consolidation.
package outputs

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultBaseDir  = "alpine-summary"
	SpreadsheetName = "alpine_run_statistics.xlsx"
	SummaryName     = "run_summary.yaml"
)

// Category names a flagged-sequence metadata category.
type Category string

const (
	CategoryDouble   Category = "double"
	CategoryAnachron Category = "anachronistic"
	CategoryHighDist Category = "high_distance"
)

// Categories lists the metadata categories in output order.
var Categories = []Category{CategoryDouble, CategoryAnachron, CategoryHighDist}

// Manager handles storage paths for run artifacts.
type Manager struct {
	baseDir string
}

// NewManager creates a Manager rooted at baseDir, ensuring it exists.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if err := os.MkdirAll(baseDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// BaseDir returns the root output directory.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// SpreadsheetPath returns the path of the run-statistics spreadsheet.
func (m *Manager) SpreadsheetPath() string {
	return filepath.Join(m.baseDir, SpreadsheetName)
}

// SummaryPath returns the path of the YAML run summary.
func (m *Manager) SummaryPath() string {
	return filepath.Join(m.baseDir, SummaryName)
}

// ConsolidatedPath returns the path of a category's consolidated table.
func (m *Manager) ConsolidatedPath(cat Category) string {
	return filepath.Join(m.baseDir, fmt.Sprintf("%s_candidates.arrow", cat))
}

// StagingFile creates an exclusively-owned scratch file for one category's
// streaming consolidation. The caller owns cleanup; Close and Remove it on
// every exit path.
func (m *Manager) StagingFile(cat Category) (*os.File, error) {
	f, err := os.CreateTemp(m.baseDir, fmt.Sprintf(".staging-%s-*.tsv", cat))
	if err != nil {
		return nil, fmt.Errorf("failed to create staging file: %w", err)
	}
	return f, nil
}
