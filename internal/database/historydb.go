package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/ftpripper/internal/model"
)

// dbFileName is the SQLite file created inside the history directory.
const dbFileName = "ftpripper.db"

// HistoryDB provides SQLite-based storage for crawl run history.
// It manages connection pooling and provides methods for recording and
// listing runs.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the location of the SQLite database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- Runs store one record per completed crawl
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		total_files INTEGER NOT NULL,
		hosts_ok INTEGER NOT NULL,
		hosts_failed INTEGER NOT NULL,
		hosts_stopped INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Hosts store the per-target outcome of each run
	CREATE TABLE IF NOT EXISTS hosts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		address TEXT NOT NULL,
		port INTEGER NOT NULL,
		status TEXT NOT NULL,
		files INTEGER NOT NULL,
		detail TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_hosts_run ON hosts(run_id);
	CREATE INDEX IF NOT EXISTS idx_hosts_address ON hosts(address);

	-- Extensions store the per-run file type histogram
	CREATE TABLE IF NOT EXISTS extensions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		ext TEXT NOT NULL,
		count INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_extensions_run ON extensions(run_id);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun records one completed crawl run with its host outcomes and
// extension histogram. All rows land in one transaction.
func (hdb *HistoryDB) SaveRun(ctx context.Context, summary *model.RunSummary) (int64, error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (started_at, elapsed_ms, total_files, hosts_ok, hosts_failed, hosts_stopped)
	VALUES (?, ?, ?, ?, ?, ?)`,
		summary.StartedAt.UTC().Format(time.RFC3339),
		summary.Elapsed.Milliseconds(),
		summary.TotalFiles(),
		summary.CountByStatus(model.HostOK),
		summary.CountByStatus(model.HostFailed),
		summary.CountByStatus(model.HostStopped),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, hr := range summary.Hosts {
		detail := hr.FailReason
		if detail == "" {
			detail = strings.Join(hr.Diags, "\n")
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO hosts (run_id, address, port, status, files, detail)
		VALUES (?, ?, ?, ?, ?, ?)`,
			runID, hr.Target.Address, hr.Target.Port, hr.Status.String(), hr.FileCount(), detail,
		); err != nil {
			return 0, fmt.Errorf("failed to insert host record: %w", err)
		}
	}

	for ext, count := range summary.Extensions {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO extensions (run_id, ext, count)
		VALUES (?, ?, ?)`,
			runID, ext, count,
		); err != nil {
			return 0, fmt.Errorf("failed to insert extension record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// RunRecord is one stored crawl run.
type RunRecord struct {
	ID           int64
	StartedAt    time.Time
	Elapsed      time.Duration
	TotalFiles   int
	HostsOK      int
	HostsFailed  int
	HostsStopped int
}

// RecentRuns returns up to limit runs, most recent first.
func (hdb *HistoryDB) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT id, started_at, elapsed_ms, total_files, hosts_ok, hosts_failed, hosts_stopped
	FROM runs
	ORDER BY started_at DESC, id DESC
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedAt string
		var elapsedMS int64
		if err := rows.Scan(
			&rec.ID,
			&startedAt,
			&elapsedMS,
			&rec.TotalFiles,
			&rec.HostsOK,
			&rec.HostsFailed,
			&rec.HostsStopped,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run record: %w", err)
		}
		rec.StartedAt, err = parseTimestamp(startedAt)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", rec.ID, err)
		}
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return records, nil
}

// HostRecord is one stored per-target outcome.
type HostRecord struct {
	Address string
	Port    int
	Status  string
	Files   int
	Detail  string
}

// RunHosts returns the per-target outcomes of one stored run.
func (hdb *HistoryDB) RunHosts(ctx context.Context, runID int64) ([]HostRecord, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT address, port, status, files, detail
	FROM hosts
	WHERE run_id = ?
	ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query hosts: %w", err)
	}
	defer rows.Close()

	var records []HostRecord
	for rows.Next() {
		var rec HostRecord
		if err := rows.Scan(&rec.Address, &rec.Port, &rec.Status, &rec.Files, &rec.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan host record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hosts: %w", err)
	}
	return records, nil
}

// RunExtensions returns the extension histogram of one stored run.
func (hdb *HistoryDB) RunExtensions(ctx context.Context, runID int64) (model.Histogram, error) {
	rows, err := hdb.db.QueryContext(ctx, `
	SELECT ext, count
	FROM extensions
	WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query extensions: %w", err)
	}
	defer rows.Close()

	h := model.NewHistogram()
	for rows.Next() {
		var ext string
		var count int
		if err := rows.Scan(&ext, &count); err != nil {
			return nil, fmt.Errorf("failed to scan extension record: %w", err)
		}
		h[ext] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate extensions: %w", err)
	}
	return h, nil
}

// parseTimestamp parses a stored timestamp. SQLite may hand back the
// RFC 3339 form we insert or its own datetime rendering. A value that
// matches neither is reported with the raw string so a corrupt row is
// visible instead of rendering as the zero time.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
