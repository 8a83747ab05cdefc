package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/tourcrawl/internal/model"
)

// dbFileName is the SQLite file created inside the database directory.
const dbFileName = "tourcrawl.db"

// CrawlDB stores crawl runs, page visits, and attraction records.
//
// Design decision: one database file for all runs rather than one file per
// run. History queries span runs, and a single file keeps backup and
// cleanup trivial.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when
	// they do not exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB inside dbDir.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports only one writer; a larger pool buys nothing here.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the schema if it does not exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per crawl run
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		start_url TEXT NOT NULL,
		base_url TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		pages_crawled INTEGER NOT NULL,
		records_collected INTEGER NOT NULL,
		items_skipped INTEGER NOT NULL,
		stop_reason TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- One row per list page fetched during a run
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		page_number INTEGER NOT NULL,
		url TEXT NOT NULL,
		items_found INTEGER NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);

	-- One row per collected attraction record
	CREATE TABLE IF NOT EXISTS attractions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		page INTEGER NOT NULL,
		name TEXT NOT NULL,
		link TEXT NOT NULL,
		description TEXT NOT NULL,
		transport TEXT NOT NULL,
		UNIQUE(run_id, link)
	);

	CREATE INDEX IF NOT EXISTS idx_attractions_run ON attractions(run_id);
	CREATE INDEX IF NOT EXISTS idx_attractions_link ON attractions(link);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunSummary is one row of crawl history.
type RunSummary struct {
	ID               int64
	StartURL         string
	StartedAt        time.Time
	FinishedAt       time.Time
	PagesCrawled     int
	RecordsCollected int
	ItemsSkipped     int
	StopReason       string
}

// SaveRun persists a completed run with its pages and records in a single
// transaction and returns the run ID.
func (cdb *CrawlDB) SaveRun(ctx context.Context, result *model.CrawlResult) (int64, error) {
	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (start_url, base_url, started_at, finished_at, pages_crawled, records_collected, items_skipped, stop_reason)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		result.StartURL,
		result.BaseURL,
		result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.FinishedAt.UTC().Format(time.RFC3339Nano),
		result.PagesCrawled,
		len(result.Records),
		result.ItemsSkipped,
		string(result.StopReason),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, page := range result.Pages {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO pages (run_id, page_number, url, items_found, fetched_at)
		VALUES (?, ?, ?, ?, ?)`,
			runID, page.Number, page.URL, page.ItemsFound,
			page.FetchedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return 0, fmt.Errorf("failed to insert page visit: %w", err)
		}
	}

	for _, rec := range result.Records {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO attractions (run_id, page, name, link, description, transport)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, link) DO NOTHING`,
			runID, rec.Page, rec.Name, rec.Link, rec.Description, rec.Transport,
		); err != nil {
			return 0, fmt.Errorf("failed to insert attraction: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first. A non-positive
// limit returns everything.
func (cdb *CrawlDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, start_url, started_at, finished_at, pages_crawled, records_collected, items_skipped, stop_reason
	FROM runs
	ORDER BY started_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started, finished string
		if err := rows.Scan(&r.ID, &r.StartURL, &started, &finished,
			&r.PagesCrawled, &r.RecordsCollected, &r.ItemsSkipped, &r.StopReason); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = parseTimestamp(started)
		r.FinishedAt = parseTimestamp(finished)
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// RunRecords returns the attraction records of one run in page order.
func (cdb *CrawlDB) RunRecords(ctx context.Context, runID int64) ([]model.AttractionRecord, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT page, name, link, description, transport
	FROM attractions
	WHERE run_id = ?
	ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run records: %w", err)
	}
	defer rows.Close()

	var records []model.AttractionRecord
	for rows.Next() {
		var rec model.AttractionRecord
		if err := rows.Scan(&rec.Page, &rec.Name, &rec.Link, &rec.Description, &rec.Transport); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// parseTimestamp parses the timestamp formats SQLite may hand back
// depending on how the value was stored.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
