package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists runs and rows to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logrus.Debugf("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id           TEXT PRIMARY KEY,
			kind         TEXT NOT NULL,
			scenario     TEXT,
			seed         INTEGER,
			days         INTEGER,
			replications INTEGER,
			alpha        REAL,
			method       TEXT,
			started_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS arm_rows (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL REFERENCES runs(id),
			position   INTEGER NOT NULL,
			label      TEXT NOT NULL,
			policy     TEXT,
			mean       REAL,
			stddev     REAL,
			delta      REAL,
			lower      REAL,
			upper      REAL,
			n          INTEGER,
			mean_short REAL,
			mean_waste REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_run ON arm_rows(run_id, position)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(id, kind, scenario, seed, days, replications, alpha, method, started_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		run.ID, run.Kind, run.Scenario, run.Seed, run.Days, run.Replications,
		run.Alpha, run.Method, run.StartedAt.Unix(),
	)
	return err
}

// RecordRows inserts all rows of a run in one transaction.
func (r *SQLiteRecorder) RecordRows(runID string, rows []Row) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`INSERT INTO arm_rows
		(run_id, position, label, policy, mean, stddev, delta, lower, upper, n, mean_short, mean_waste)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err = stmt.Exec(runID, i, row.Label, row.Policy, row.Mean, row.StdDev, row.Delta,
			row.Lower, row.Upper, row.N, row.MeanShort, row.MeanWaste); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Runs returns every recorded run, oldest first.
func (r *SQLiteRecorder) Runs() ([]Run, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs, err := r.db.Query(`SELECT id, kind, scenario, seed, days, replications, alpha, method, started_at
		FROM runs ORDER BY started_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var runs []Run
	for rs.Next() {
		var run Run
		var started int64
		if err := rs.Scan(&run.ID, &run.Kind, &run.Scenario, &run.Seed, &run.Days, &run.Replications,
			&run.Alpha, &run.Method, &started); err != nil {
			return nil, err
		}
		run.StartedAt = time.Unix(started, 0)
		runs = append(runs, run)
	}
	return runs, rs.Err()
}

// Rows returns the rows of a run in their recorded order.
func (r *SQLiteRecorder) Rows(runID string) ([]Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs, err := r.db.Query(`SELECT label, policy, mean, stddev, delta, lower, upper, n, mean_short, mean_waste
		FROM arm_rows WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var rows []Row
	for rs.Next() {
		var row Row
		if err := rs.Scan(&row.Label, &row.Policy, &row.Mean, &row.StdDev, &row.Delta,
			&row.Lower, &row.Upper, &row.N, &row.MeanShort, &row.MeanWaste); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, rs.Err()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
