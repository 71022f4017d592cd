package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs: one row per summarize invocation
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    results_dir TEXT NOT NULL,
    geography_count INTEGER NOT NULL,
    input_sequence_total INTEGER DEFAULT 0,
    double_total INTEGER DEFAULT 0,
    anachronistic_total INTEGER DEFAULT 0,
    high_distance_total INTEGER DEFAULT 0,
    duration_seconds REAL,
    spreadsheet_path TEXT,
    status TEXT NOT NULL DEFAULT 'success'
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);

-- Run geographies: the per-geography counts observed by a run
CREATE TABLE IF NOT EXISTS run_geographies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    geography TEXT NOT NULL,
    parent_dir TEXT NOT NULL,
    input_sequences INTEGER,
    double_count INTEGER,
    anachronistic_count INTEGER,
    high_distance_count INTEGER,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, geography)
);

CREATE INDEX IF NOT EXISTS idx_run_geographies_run ON run_geographies(run_id);
`
