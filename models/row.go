package models

// StatsRow is one geography's line in the run-statistics table. Pointer
// fields are nil when the backing source was absent or unreadable; nil is
// distinct from zero everywhere (a geography with zero candidates has a
// non-nil zero count).
type StatsRow struct {
	Geography string `yaml:"geography"`

	InputSequences *int `yaml:"input_sequence_count"`

	DoubleCount      *int     `yaml:"double_candidate_count"`
	DoublePrevalence *float64 `yaml:"double_candidate_prevalence_pct"`
	DoubleRate       *string  `yaml:"double_candidate_rate"`

	AnachronCount      *int     `yaml:"anachronistic_count"`
	AnachronPrevalence *float64 `yaml:"anachronistic_prevalence_pct"`
	AnachronRate       *string  `yaml:"anachronistic_rate"`

	HighDistCount      *int     `yaml:"high_distance_count"`
	HighDistPrevalence *float64 `yaml:"high_distance_prevalence_pct"`
	HighDistRate       *string  `yaml:"high_distance_rate"`
}

// StatsColumns is the column order of the run-statistics spreadsheet.
var StatsColumns = []string{
	"Geography",
	"Input Sequence Count",
	"Double Candidate Count",
	"Double Candidate Prevalence (%)",
	"Double Candidate Rate",
	"Anachronistic Count",
	"Anachronistic Prevalence (%)",
	"Anachronistic Rate",
	"High Distance Count",
	"High Distance Prevalence (%)",
	"High Distance Rate",
}

// Values returns the row's cells in StatsColumns order. Nil fields come
// back as nil so writers can render them as empty/null.
func (r StatsRow) Values() []any {
	cells := make([]any, 0, len(StatsColumns))
	cells = append(cells, r.Geography, intCell(r.InputSequences))
	cells = append(cells, intCell(r.DoubleCount), floatCell(r.DoublePrevalence), stringCell(r.DoubleRate))
	cells = append(cells, intCell(r.AnachronCount), floatCell(r.AnachronPrevalence), stringCell(r.AnachronRate))
	cells = append(cells, intCell(r.HighDistCount), floatCell(r.HighDistPrevalence), stringCell(r.HighDistRate))
	return cells
}

func intCell(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatCell(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func stringCell(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
