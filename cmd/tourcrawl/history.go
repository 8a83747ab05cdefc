package main

import (
	"fmt"
	"time"

	"github.com/nao1215/tourcrawl/internal/config"
	"github.com/nao1215/tourcrawl/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past crawl runs from the local database",
		Long: `History lists past crawl runs recorded in the local crawl database.

Each run shows when it started, how many pages were crawled, how many
records were collected, and why the crawl stopped. Use --run to print the
attraction records of a specific run.

Examples:
  # Show the ten most recent runs
  tourcrawl history

  # Show the last three runs
  tourcrawl history -n 3

  # Show the records collected by run 42
  tourcrawl history --run 42`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 10,
		"Maximum number of runs to list (0 = all)")
	cmd.Flags().Int64("run", 0,
		"Show the attraction records of the run with this ID")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no crawl history found (run 'tourcrawl crawl' first): %w", err)
	}
	defer db.Close()

	if runID > 0 {
		return printRunRecords(cmd, db, runID)
	}
	return printRuns(cmd, db, limit)
}

// printRuns lists recent runs, newest first.
func printRuns(cmd *cobra.Command, db *database.CrawlDB, limit int) error {
	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No crawl runs recorded yet.")
		return nil
	}

	fmt.Fprintf(out, "%-5s %-20s %-9s %-6s %-8s %-8s %s\n",
		"ID", "STARTED", "DURATION", "PAGES", "RECORDS", "SKIPPED", "STOP REASON")
	for _, r := range runs {
		fmt.Fprintf(out, "%-5d %-20s %-9s %-6d %-8d %-8d %s\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second),
			r.PagesCrawled,
			r.RecordsCollected,
			r.ItemsSkipped,
			r.StopReason,
		)
	}
	return nil
}

// printRunRecords prints the attraction records of one run.
func printRunRecords(cmd *cobra.Command, db *database.CrawlDB, runID int64) error {
	records, err := db.RunRecords(cmd.Context(), runID)
	if err != nil {
		return fmt.Errorf("failed to load records for run %d: %w", runID, err)
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "Run %d has no records.\n", runID)
		return nil
	}

	for i, rec := range records {
		fmt.Fprintf(out, "%d. %s (page %d)\n", i+1, rec.Name, rec.Page)
		fmt.Fprintf(out, "   link:        %s\n", rec.Link)
		fmt.Fprintf(out, "   description: %s\n", firstLine(rec.Description))
		fmt.Fprintf(out, "   transport:   %s\n", firstLine(rec.Transport))
	}
	return nil
}

// firstLine returns s up to the first newline so multi-line descriptions
// stay one terminal line each.
func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i] + " ..."
		}
	}
	return s
}
