// Package summarize implements the summarize command: resolve geographies,
// build the search tree, compile the statistics table, and consolidate the
// flagged-sequence metadata tables.
package summarize

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/nrminor/alpine-explorer/models"
	"github.com/nrminor/alpine-explorer/pkg/consolidate"
	"github.com/nrminor/alpine-explorer/pkg/db"
	"github.com/nrminor/alpine-explorer/pkg/outputs"
	"github.com/nrminor/alpine-explorer/pkg/report"
	"github.com/nrminor/alpine-explorer/pkg/search"
	"github.com/nrminor/alpine-explorer/pkg/stats"
)

func SummarizeAction(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	startTime := time.Now()

	config := &models.RunConfig{
		ResultsDir:  c.String("results-dir"),
		OutputDir:   c.String("output-dir"),
		WorkerCount: c.Int("workers"),
		Lookahead:   c.Int("lookahead"),
	}

	info, err := os.Stat(config.ResultsDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("error originated while constructing file paths: %s does not exist or is not a directory", config.ResultsDir)
	}

	manager, err := outputs.NewManager(config.OutputDir)
	if err != nil {
		logger.Error("failed to initialize output directory", "error", err)
		os.Exit(2)
	}

	// Phase 1: resolve geographies from the results root.
	starters, err := search.Resolve(config.ResultsDir)
	if err != nil {
		return fmt.Errorf("error originated while constructing file paths: %w", err)
	}
	logger.Info("Resolved geographies", "count", len(starters))

	// Phase 2: map each geography's present/absent artifacts.
	tree, err := search.BuildTree(starters)
	if err != nil {
		return fmt.Errorf("unable to search through provided results directories: %w", err)
	}

	// Phase 3: compile the statistics table. Per-geography reader
	// failures degrade to nulls inside the workers; only an empty table
	// is fatal.
	rows := buildRows(logger, tree, config.WorkerCount)
	if len(rows) == 0 {
		return fmt.Errorf("compiling statistics failed with the following message: %v", stats.ErrEmptyTable)
	}
	totals := stats.SumTotals(rows)

	if err := report.WriteSpreadsheet(manager.SpreadsheetPath(), rows); err != nil {
		return fmt.Errorf("compiling statistics failed with the following message: %w", err)
	}
	logger.Info("Wrote run statistics", "path", manager.SpreadsheetPath())

	// Phase 4: consolidate the three metadata categories.
	consolidated := make(map[string]string)
	for _, cat := range outputs.Categories {
		path, err := consolidate.Consolidate(logger, tree, manager, cat, config.EffectiveLookahead())
		if err != nil {
			return fmt.Errorf("compiling %s metadata failed with the following message: %w", cat, err)
		}
		if path == "" {
			logger.Info("No geographies contributed, skipping category", "category", cat)
			continue
		}
		consolidated[string(cat)] = path
		logger.Info("Wrote consolidated metadata", "category", cat, "path", path)
	}

	summary := report.RunSummary{
		ResultsDir:   config.ResultsDir,
		GeneratedAt:  time.Now().UTC(),
		Totals:       totals,
		Consolidated: consolidated,
		Rows:         rows,
	}
	if err := report.WriteSummary(manager.SummaryPath(), summary); err != nil {
		logger.Warn("Failed to write run summary", "error", err)
	}

	// Record the run; history is best-effort and never fails the run.
	recordRun(logger, config, rows, totals, time.Since(startTime), manager.SpreadsheetPath())

	fmt.Printf("Summarized %d geographies from %s\n", totals.Geographies, config.ResultsDir)
	fmt.Printf("Statistics: %s\n", manager.SpreadsheetPath())
	for _, cat := range outputs.Categories {
		if path, ok := consolidated[string(cat)]; ok {
			fmt.Printf("Consolidated %s candidates: %s\n", cat, path)
		}
	}
	return nil
}

func recordRun(logger *slog.Logger, config *models.RunConfig, rows []models.StatsRow, totals stats.Totals, duration time.Duration, spreadsheetPath string) {
	database, err := db.Open(config.OutputDir)
	if err != nil {
		logger.Warn("Failed to open run-history database", "error", err)
		return
	}
	defer database.Close()

	runID, err := database.RecordRun(config.ResultsDir, rows, totals, duration, spreadsheetPath, "success")
	if err != nil {
		logger.Warn("Failed to record run", "error", err)
		return
	}
	logger.Info("Recorded run", "run_id", runID)
}
