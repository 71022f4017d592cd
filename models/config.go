// Package models defines data structures shared across the explorer:
// run configuration, the search tree, and the summary table rows.
package models

// RunConfig holds runtime configuration for a summarize run.
// All values come from CLI flags, not external config files.
type RunConfig struct {
	ResultsDir  string
	OutputDir   string
	WorkerCount int
	// Lookahead is the number of staged rows scanned when inferring
	// consolidated column types. Values below MinLookahead are raised
	// to MinLookahead.
	Lookahead int
}

// MinLookahead is the floor for type-inference row scanning.
const MinLookahead = 250

// EffectiveLookahead returns the configured lookahead, clamped to the floor.
func (c *RunConfig) EffectiveLookahead() int {
	if c.Lookahead < MinLookahead {
		return MinLookahead
	}
	return c.Lookahead
}
