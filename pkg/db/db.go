// Package db persists simulation runs and their BER curves in SQLite.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DB wraps the SQL database connection
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens a SQLite database
func Open(path string) (*DB, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database connection
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{
		conn: conn,
		path: path,
	}

	// Run migrations
	if err := db.Migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// Migrate creates or updates the database schema
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		architecture TEXT NOT NULL,
		params TEXT,
		seed INTEGER NOT NULL DEFAULT 0,
		start_time DATETIME NOT NULL,
		end_time DATETIME,
		success BOOLEAN DEFAULT 0,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS curve_points (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		cycle INTEGER NOT NULL,
		ber REAL NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_architecture ON runs(architecture);
	CREATE INDEX IF NOT EXISTS idx_runs_start_time ON runs(start_time);
	CREATE INDEX IF NOT EXISTS idx_runs_success ON runs(success);
	CREATE INDEX IF NOT EXISTS idx_curve_points_run_id ON curve_points(run_id);

	-- Trigger to update updated_at timestamp
	CREATE TRIGGER IF NOT EXISTS update_runs_timestamp
	AFTER UPDATE ON runs
	BEGIN
		UPDATE runs SET updated_at = CURRENT_TIMESTAMP WHERE id = NEW.id;
	END;
	`

	_, err := db.conn.Exec(schema)
	return err
}

// CreateRun creates a new simulation run record
func (db *DB) CreateRun(architecture string, params JSONData, seed int64) (*Run, error) {
	run := &Run{
		Architecture: architecture,
		Params:       params,
		Seed:         seed,
		StartTime:    time.Now(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	result, err := db.conn.Exec(
		`INSERT INTO runs (architecture, params, seed, start_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.Architecture, run.Params, run.Seed, run.StartTime, run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return run, nil
}

// UpdateRun updates a simulation run record
func (db *DB) UpdateRun(run *Run) error {
	_, err := db.conn.Exec(
		`UPDATE runs SET
		 end_time = ?, success = ?, error = ?, updated_at = ?
		 WHERE id = ?`,
		run.EndTime, run.Success, run.Error, time.Now(), run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID
func (db *DB) GetRun(id int64) (*Run, error) {
	run := &Run{}
	err := db.conn.QueryRow(
		`SELECT id, architecture, params, seed, start_time, end_time,
		 success, COALESCE(error, ''), created_at, updated_at
		 FROM runs WHERE id = ?`,
		id,
	).Scan(
		&run.ID, &run.Architecture, &run.Params, &run.Seed, &run.StartTime,
		&run.EndTime, &run.Success, &run.Error, &run.CreatedAt, &run.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// LatestRun retrieves the most recent successful run for an architecture.
func (db *DB) LatestRun(architecture string) (*Run, error) {
	run := &Run{}
	err := db.conn.QueryRow(
		`SELECT id, architecture, params, seed, start_time, end_time,
		 success, COALESCE(error, ''), created_at, updated_at
		 FROM runs WHERE architecture = ? AND success = 1
		 ORDER BY start_time DESC LIMIT 1`,
		architecture,
	).Scan(
		&run.ID, &run.Architecture, &run.Params, &run.Seed, &run.StartTime,
		&run.EndTime, &run.Success, &run.Error, &run.CreatedAt, &run.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no successful run for architecture %q", architecture)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves runs based on filters
func (db *DB) ListRuns(filter RunFilter) ([]*Run, error) {
	// error is NULL until UpdateRun runs, e.g. for an in-progress or
	// crashed run; COALESCE keeps the string scan valid for such rows.
	query := `SELECT id, architecture, params, seed, start_time, end_time,
	          success, COALESCE(error, ''), created_at, updated_at
	          FROM runs WHERE 1=1`
	args := []interface{}{}

	if filter.Architecture != "" {
		query += " AND architecture = ?"
		args = append(args, filter.Architecture)
	}

	if filter.StartTime != nil {
		query += " AND start_time >= ?"
		args = append(args, filter.StartTime)
	}

	if filter.EndTime != nil {
		query += " AND start_time <= ?"
		args = append(args, filter.EndTime)
	}

	if filter.Success != nil {
		query += " AND success = ?"
		args = append(args, filter.Success)
	}

	query += " ORDER BY start_time DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)

		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		err := rows.Scan(
			&run.ID, &run.Architecture, &run.Params, &run.Seed, &run.StartTime,
			&run.EndTime, &run.Success, &run.Error, &run.CreatedAt, &run.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// SaveCurve stores a run's BER curve in a single transaction.
func (db *DB) SaveCurve(runID int64, points []CurvePoint) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Only rollback if we haven't committed
		_ = tx.Rollback()
	}()

	stmt, err := tx.Prepare(
		`INSERT INTO curve_points (run_id, cycle, ber) VALUES (?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, pt := range points {
		if _, err := stmt.Exec(runID, pt.Cycle, pt.BER); err != nil {
			return fmt.Errorf("failed to insert curve point at cycle %d: %w", pt.Cycle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCurve retrieves a run's BER curve in checkpoint order.
func (db *DB) GetCurve(runID int64) ([]*CurvePoint, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, cycle, ber
		 FROM curve_points WHERE run_id = ? ORDER BY cycle`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get curve: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []*CurvePoint
	for rows.Next() {
		pt := &CurvePoint{}
		if err := rows.Scan(&pt.ID, &pt.RunID, &pt.Cycle, &pt.BER); err != nil {
			return nil, fmt.Errorf("failed to scan curve point: %w", err)
		}
		points = append(points, pt)
	}

	return points, nil
}
