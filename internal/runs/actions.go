// Package runs implements the runs command: a table of recorded summarize
// invocations from the run-history database.
package runs

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/nrminor/alpine-explorer/pkg/db"
)

func RunsAction(c *cli.Context) error {
	database, err := dbpkg.Open(c.String("output-dir"))
	if err != nil {
		return fmt.Errorf("failed to open run-history database: %w", err)
	}
	defer database.Close()

	limit := c.Int("limit")
	runs, err := database.ListRuns(limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}

	// Print table header
	fmt.Printf("%-6s %-20s %-10s %-12s %-8s %-10s %-10s %-10s %-30s\n",
		"ID", "Created", "Geos", "Inputs", "Double", "Anachron", "HighDist", "Status", "Results Dir")
	fmt.Println(strings.Repeat("-", 120))

	// Print each run
	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-10d %-12d %-8d %-10d %-10d %-10s %-30s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.GeographyCount,
			r.InputTotal,
			r.DoubleTotal,
			r.AnachronTotal,
			r.HighDistTotal,
			r.Status,
			r.ResultsDir,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))

	return nil
}
