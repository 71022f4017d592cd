package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nrminor/alpine-explorer/models"
	"github.com/nrminor/alpine-explorer/pkg/stats"
)

// Run is one recorded summarize invocation.
type Run struct {
	RunID          int64
	CreatedAt      time.Time
	ResultsDir     string
	GeographyCount int
	InputTotal     int
	DoubleTotal    int
	AnachronTotal  int
	HighDistTotal  int
	Duration       float64
	Spreadsheet    string
	Status         string
}

// NewNullInt converts an optional count to a nullable column value.
func NewNullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

// RecordRun inserts a run and its per-geography rows in one transaction,
// returning the run_id.
func (db *DB) RecordRun(resultsDir string, rows []models.StatsRow, totals stats.Totals, duration time.Duration, spreadsheetPath, status string) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO runs (results_dir, geography_count, input_sequence_total,
			double_total, anachronistic_total, high_distance_total,
			duration_seconds, spreadsheet_path, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, resultsDir, totals.Geographies, totals.InputSequences, totals.Double,
		totals.Anachronistic, totals.HighDistance, duration.Seconds(),
		spreadsheetPath, status)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, row := range rows {
		_, err := tx.Exec(`
			INSERT INTO run_geographies (run_id, geography, parent_dir,
				input_sequences, double_count, anachronistic_count, high_distance_count)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, row.Geography, resultsDir,
			NewNullInt(row.InputSequences), NewNullInt(row.DoubleCount),
			NewNullInt(row.AnachronCount), NewNullInt(row.HighDistCount))
		if err != nil {
			return 0, fmt.Errorf("failed to insert run geography %s: %w", row.Geography, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, created_at, results_dir, geography_count,
			input_sequence_total, double_total, anachronistic_total,
			high_distance_total, COALESCE(duration_seconds, 0),
			COALESCE(spreadsheet_path, ''), status
		FROM runs
		ORDER BY created_at DESC, run_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.CreatedAt, &r.ResultsDir,
			&r.GeographyCount, &r.InputTotal, &r.DoubleTotal,
			&r.AnachronTotal, &r.HighDistTotal, &r.Duration,
			&r.Spreadsheet, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunGeography is one geography's counts within a recorded run.
type RunGeography struct {
	Geography      string
	InputSequences sql.NullInt64
	DoubleCount    sql.NullInt64
	AnachronCount  sql.NullInt64
	HighDistCount  sql.NullInt64
}

// GetRunGeographies returns a run's per-geography rows in insertion order.
func (db *DB) GetRunGeographies(runID int64) ([]RunGeography, error) {
	rows, err := db.Query(`
		SELECT geography, input_sequences, double_count,
			anachronistic_count, high_distance_count
		FROM run_geographies
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run geographies: %w", err)
	}
	defer rows.Close()

	var geos []RunGeography
	for rows.Next() {
		var g RunGeography
		if err := rows.Scan(&g.Geography, &g.InputSequences, &g.DoubleCount,
			&g.AnachronCount, &g.HighDistCount); err != nil {
			return nil, fmt.Errorf("failed to scan run geography: %w", err)
		}
		geos = append(geos, g)
	}
	return geos, rows.Err()
}
