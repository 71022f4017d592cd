package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nrminor/alpine-explorer/models"
	"github.com/nrminor/alpine-explorer/pkg/stats"
)

// RunSummary is the YAML companion to the spreadsheet: the same table plus
// run-level context, for notebook and scripting consumers.
type RunSummary struct {
	ResultsDir   string            `yaml:"results_dir"`
	GeneratedAt  time.Time         `yaml:"generated_at"`
	Totals       stats.Totals      `yaml:"totals"`
	Consolidated map[string]string `yaml:"consolidated_tables,omitempty"`
	Rows         []models.StatsRow `yaml:"geographies"`
}

// WriteSummary marshals the run summary to YAML at path.
func WriteSummary(path string, summary RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}
	return nil
}
