package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/tourcrawl/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// sampleRun returns a completed crawl result for persistence tests.
func sampleRun(start time.Time) *model.CrawlResult {
	return &model.CrawlResult{
		StartURL:     "https://example.com/attractions",
		BaseURL:      "https://example.com",
		StartedAt:    start,
		FinishedAt:   start.Add(42 * time.Second),
		PagesCrawled: 2,
		ItemsSkipped: 1,
		StopReason:   model.StopNoNextPage,
		Pages: []model.PageVisit{
			{Number: 1, URL: "https://example.com/attractions", ItemsFound: 2, FetchedAt: start},
			{Number: 2, URL: "https://example.com/attractions?page=2", ItemsFound: 1, FetchedAt: start.Add(10 * time.Second)},
		},
		Records: []model.AttractionRecord{
			{Page: 1, Name: "Palace", Link: "https://example.com/d/1", Description: "desc", Transport: "Line 3"},
			{Page: 2, Name: "Tower", Link: "https://example.com/d/2", Description: "desc2", Transport: "Bus 402"},
		},
	}
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, "tourcrawl.db")); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
	})

	t.Run("CreateIfNotExists=false fails on missing database", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false, EnableWAL: true}
		if _, err := Open(filepath.Join(t.TempDir(), "nope"), opts); err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestSaveRun tests persisting a run with pages and records.
func TestSaveRun(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		start := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
		runID, err := db.SaveRun(ctx, sampleRun(start))
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		if runID <= 0 {
			t.Fatalf("expected positive run ID, got %d", runID)
		}

		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}

		got := runs[0]
		if got.ID != runID {
			t.Errorf("expected run ID %d, got %d", runID, got.ID)
		}
		if got.StartURL != "https://example.com/attractions" {
			t.Errorf("unexpected start URL: %q", got.StartURL)
		}
		if got.PagesCrawled != 2 {
			t.Errorf("expected 2 pages, got %d", got.PagesCrawled)
		}
		if got.RecordsCollected != 2 {
			t.Errorf("expected 2 records, got %d", got.RecordsCollected)
		}
		if got.ItemsSkipped != 1 {
			t.Errorf("expected 1 skipped, got %d", got.ItemsSkipped)
		}
		if got.StopReason != string(model.StopNoNextPage) {
			t.Errorf("unexpected stop reason: %q", got.StopReason)
		}
		if !got.StartedAt.Equal(start) {
			t.Errorf("expected start %s, got %s", start, got.StartedAt)
		}
	})

	t.Run("records retrievable per run", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		runID, err := db.SaveRun(ctx, sampleRun(time.Now()))
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		records, err := db.RunRecords(ctx, runID)
		if err != nil {
			t.Fatalf("failed to load records: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].Name != "Palace" || records[1].Name != "Tower" {
			t.Errorf("unexpected record order: %q, %q", records[0].Name, records[1].Name)
		}
		if records[1].Transport != "Bus 402" {
			t.Errorf("unexpected transport: %q", records[1].Transport)
		}
	})

	t.Run("duplicate links within a run are stored once", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		run := sampleRun(time.Now())
		run.Records = append(run.Records, run.Records[0])

		runID, err := db.SaveRun(ctx, run)
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		records, err := db.RunRecords(ctx, runID)
		if err != nil {
			t.Fatalf("failed to load records: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("expected duplicate link to be dropped, got %d records", len(records))
		}
	})

	t.Run("empty run is still recorded", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		run := &model.CrawlResult{
			StartURL:   "https://example.com/attractions",
			BaseURL:    "https://example.com",
			StartedAt:  time.Now(),
			FinishedAt: time.Now(),
			StopReason: model.StopFetchError,
		}

		if _, err := db.SaveRun(ctx, run); err != nil {
			t.Fatalf("failed to save empty run: %v", err)
		}

		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run, got %d", len(runs))
		}
	})
}

// TestListRuns tests ordering and limiting of the run history.
func TestListRuns(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := range 3 {
		if _, err := db.SaveRun(ctx, sampleRun(base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("failed to save run %d: %v", i, err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if !runs[0].StartedAt.After(runs[2].StartedAt) {
			t.Error("expected newest run first")
		}
	})

	t.Run("limit respected", func(t *testing.T) {
		runs, err := db.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})
}
