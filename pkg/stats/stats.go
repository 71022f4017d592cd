// Package stats builds the per-geography run-statistics table: raw counts
// pulled through the per-source readers, then derived prevalence and
// "1 in N" rate columns. The aggregator is best-effort across geographies:
// a single unreadable source nulls that row's fields and the run proceeds.
package stats

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/nrminor/alpine-explorer/models"
	"github.com/nrminor/alpine-explorer/pkg/readers"
)

// ErrEmptyTable means aggregation produced zero rows, which can only happen
// when the search tree itself was empty.
var ErrEmptyTable = errors.New("statistics table has no rows")

// RateSentinel marks a category with a non-null prevalence of exactly zero:
// candidates were looked for and none were observed. Kept distinct from the
// null of a missing source so the two never blur in the output.
const RateSentinel = "N/A"

// BuildRow assembles one geography's row. Reader failures are logged at
// Warn and degrade the affected fields to nil; they never propagate.
func BuildRow(logger *slog.Logger, branch models.SearchBranch) models.StatsRow {
	row := models.StatsRow{Geography: branch.Geography}

	if branch.EarlyStats != "" {
		if n, err := readers.SequenceCount(branch.EarlyStats); err != nil {
			logger.Warn("Skipping input sequence count", "geography", branch.Geography, "error", err)
		} else {
			row.InputSequences = &n
		}
	}

	if branch.LateStats != "" {
		if n, err := readers.SequenceCount(branch.LateStats); err != nil {
			logger.Warn("Skipping double candidate count", "geography", branch.Geography, "error", err)
		} else {
			row.DoubleCount = &n
		}
	}
	row.DoublePrevalence = Prevalence(row.DoubleCount, row.InputSequences)
	row.DoubleRate = Rate(row.DoublePrevalence)

	if branch.Anachron != "" {
		if n, err := readers.AnachronCount(branch.Anachron); err != nil {
			logger.Warn("Skipping anachronistic count", "geography", branch.Geography, "error", err)
		} else {
			row.AnachronCount = &n
		}
	}
	row.AnachronPrevalence = Prevalence(row.AnachronCount, row.InputSequences)
	row.AnachronRate = Rate(row.AnachronPrevalence)

	if branch.HighDist != "" {
		if n, err := readers.HighDistCount(branch.HighDist); err != nil {
			logger.Warn("Skipping high distance count", "geography", branch.Geography, "error", err)
		} else {
			row.HighDistCount = &n
		}
	}
	row.HighDistPrevalence = Prevalence(row.HighDistCount, row.InputSequences)
	row.HighDistRate = Rate(row.HighDistPrevalence)

	return row
}

// BuildTable walks the search tree in order and assembles the full table.
func BuildTable(logger *slog.Logger, tree *models.SearchTree) ([]models.StatsRow, error) {
	rows := make([]models.StatsRow, 0, tree.Len())
	for _, branch := range tree.Branches {
		rows = append(rows, BuildRow(logger, branch))
	}
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}
	return rows, nil
}

// Prevalence computes 100 * count / input. Nil when either side is nil or
// the input count is zero; the denominator is never divided unguarded.
func Prevalence(count, input *int) *float64 {
	if count == nil || input == nil || *input == 0 {
		return nil
	}
	pct := 100 * float64(*count) / float64(*input)
	return &pct
}

// Rate re-expresses a prevalence percentage as a "1 in N" string with N
// floor-divided. Nil prevalence stays nil; a prevalence of exactly zero
// yields RateSentinel rather than a division by zero.
func Rate(prevalence *float64) *string {
	if prevalence == nil {
		return nil
	}
	if *prevalence == 0 {
		s := RateSentinel
		return &s
	}
	n := int(math.Floor(100 / *prevalence))
	s := fmt.Sprintf("1 in %d", n)
	return &s
}

// Totals sums the non-nil counts across rows, for the run summary.
type Totals struct {
	Geographies    int `yaml:"geographies"`
	InputSequences int `yaml:"input_sequences"`
	Double         int `yaml:"double_candidates"`
	Anachronistic  int `yaml:"anachronistic_candidates"`
	HighDistance   int `yaml:"high_distance_candidates"`
}

// SumTotals folds the table into per-category totals.
func SumTotals(rows []models.StatsRow) Totals {
	t := Totals{Geographies: len(rows)}
	for _, r := range rows {
		if r.InputSequences != nil {
			t.InputSequences += *r.InputSequences
		}
		if r.DoubleCount != nil {
			t.Double += *r.DoubleCount
		}
		if r.AnachronCount != nil {
			t.Anachronistic += *r.AnachronCount
		}
		if r.HighDistCount != nil {
			t.HighDistance += *r.HighDistCount
		}
	}
	return t
}
