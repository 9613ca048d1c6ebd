// Package database stores completed analysis reports in a local SQLite
// archive. The core analysis pipeline is persistence-free; archiving is a
// front-end concern enabled per run.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sitelens/sitelens/internal/model"
)

// Archive provides SQLite-based storage for completed analysis reports.
//
// Design decision: We store the full report as a JSON document plus a few
// extracted columns for querying. Feature sets evolve faster than any
// normalized schema would; the extracted columns cover the queries the CLI
// actually issues (by id, by target, latest first).
type Archive struct {
	db     *sql.DB
	dbPath string
}

// Options configures Archive behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// performance.
	EnableWAL bool
}

// DefaultOptions returns the default archive options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// ErrNotFound is returned when no archived report matches the query.
var ErrNotFound = errors.New("analysis not found in archive")

// Open opens or creates an Archive at the specified directory.
func Open(dbDir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dbDir, "sitelens.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("archive not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("check archive path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw refuses to create new
	// files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		analysis_id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		input_kind TEXT NOT NULL,
		analyzed_at DATETIME NOT NULL,
		report_json TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_target ON analyses(target);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// Save stores a completed report under the given analysis id. Saving the
// same id twice replaces the earlier record.
func (a *Archive) Save(ctx context.Context, analysisID string, report *model.CombinedReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("serialize report: %w", err)
	}

	target := report.Input.URL
	if target == "" {
		target = string(report.Input.Kind)
	}

	query := `
	INSERT OR REPLACE INTO analyses (analysis_id, target, input_kind, analyzed_at, report_json)
	VALUES (?, ?, ?, ?, ?)
	`

	_, err = a.db.ExecContext(ctx, query,
		analysisID,
		target,
		string(report.Input.Kind),
		report.AnalyzedAt.UTC().Format(time.RFC3339),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", analysisID, err)
	}
	return nil
}

// Get retrieves an archived report by analysis id.
func (a *Archive) Get(ctx context.Context, analysisID string) (*model.CombinedReport, error) {
	var reportJSON string
	err := a.db.QueryRowContext(ctx,
		`SELECT report_json FROM analyses WHERE analysis_id = ?`, analysisID,
	).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis %s: %w", analysisID, err)
	}

	var report model.CombinedReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("parse archived report: %w", err)
	}
	return &report, nil
}

// Latest retrieves the most recent archived report for a target.
func (a *Archive) Latest(ctx context.Context, target string) (*model.CombinedReport, error) {
	var reportJSON string
	err := a.db.QueryRowContext(ctx, `
	SELECT report_json FROM analyses
	WHERE target = ?
	ORDER BY created_at DESC
	LIMIT 1
	`, target).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get latest analysis for %s: %w", target, err)
	}

	var report model.CombinedReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("parse archived report: %w", err)
	}
	return &report, nil
}

// ListTargets returns the distinct archived targets in sorted order.
func (a *Archive) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx,
		`SELECT DISTINCT target FROM analyses ORDER BY target`)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []string
	for rows.Next() {
		var target string
		if err := rows.Scan(&target); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		targets = append(targets, target)
	}
	return targets, rows.Err()
}
