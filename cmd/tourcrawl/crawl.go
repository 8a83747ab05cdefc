package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nao1215/tourcrawl/internal/config"
	"github.com/nao1215/tourcrawl/internal/crawler"
	"github.com/nao1215/tourcrawl/internal/database"
	"github.com/nao1215/tourcrawl/internal/fetcher"
	"github.com/nao1215/tourcrawl/internal/log"
	"github.com/nao1215/tourcrawl/internal/model"
	"github.com/nao1215/tourcrawl/internal/report"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [start-url]",
		Short: "Crawl a paginated attraction listing and save the records",
		Long: `Crawl walks the attraction listing page by page, follows every
same-origin listing to its detail page, extracts the name, description,
and transportation information, and writes the collected records to a
JSON file.

The crawl is sequential and polite: one request at a time, with a fixed
delay after each processed item. Pagination loops, missing next-page
links, and a failed list-page fetch all stop the crawl cleanly. A failed
detail-page fetch never aborts the run; the record is stored with a
diagnostic description instead.

Examples:
  # Crawl the default listing (english.visitseoul.net attractions)
  tourcrawl crawl

  # Crawl a different listing; the base origin is derived from the URL
  tourcrawl crawl https://example.com/sights

  # Limit the crawl to three list pages and write Markdown instead
  tourcrawl crawl --max-pages 3 --markdown -o report.md

  # Use a custom configuration file with per-site cookies
  tourcrawl crawl -c myconfig.yaml

Configuration file (.tourcrawl) example:
  defaults:
    delay: "1500ms"
  sites:
    english.visitseoul.net:
      cookie: "lang=en"
      headers:
        Accept-Language: "en-US"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	// Crawl behavior flags
	cmd.Flags().StringP("base", "b", "",
		"Site base origin for same-origin filtering (default: derived from the start URL)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout")
	cmd.Flags().DurationP("delay", "d", config.DefaultCrawlDelay,
		"Politeness delay after each processed item")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of list pages to fetch (0 = unlimited)")
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .tourcrawl in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output", "o", config.DefaultOutputFile,
		"Output file path for the collected records")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write a Markdown run summary instead of the JSON record array")
	cmd.Flags().Bool("no-db", false,
		"Do not record this run in the local crawl history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for a graceful stop; a cancelled run still
	// keeps whatever it collected up to that point.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, stopping crawl...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags. A positional start
// URL overrides the default listing; the base origin is then derived from
// it unless --base is given explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	if len(args) > 0 {
		cfg.StartURL = args[0]
		derived, err := deriveOrigin(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid start URL %q: %w", args[0], err)
		}
		cfg.BaseURL = derived
	}

	base, err := cmd.Flags().GetString("base")
	if err != nil {
		return nil, err
	}
	if base != "" {
		cfg.BaseURL = base
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from the config file.
	// An explicitly given path must exist; a missing discovered path is
	// simply an empty config.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.OutputFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// deriveOrigin returns the scheme://host origin of rawURL.
func deriveOrigin(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("not an absolute URL")
	}
	return u.Scheme + "://" + u.Host, nil
}

// runCrawl executes the crawl and writes the output artifact.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	// Open the history database before crawling so a storage problem
	// surfaces before any network traffic.
	var db *database.CrawlDB
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	session, delay, maxPages := buildSession(cfg, base.Host)

	c := crawler.New(session, base,
		crawler.WithDelay(delay),
		crawler.WithMaxPages(maxPages),
		crawler.WithLogger(logger),
	)

	fmt.Printf("Crawling %s...\n", cfg.StartURL)
	startTime := time.Now()

	result, runErr := c.Run(ctx, cfg.StartURL)

	fmt.Printf("Crawl finished in %s: %d pages, %d records\n",
		time.Since(startTime).Round(time.Millisecond),
		result.PagesCrawled, len(result.Records))

	// The run row is recorded even for an empty or cancelled run, so the
	// history reflects what actually happened.
	if db != nil {
		if runID, err := db.SaveRun(ctx, result); err != nil {
			logger.Error("failed to save run to database", "error", err)
		} else {
			logger.Info("run saved to database", "runID", runID)
		}
	}

	if !result.HasRecords() {
		logger.Info("no data collected, skipping output file")
	} else if err := writeArtifact(cfg, result); err != nil {
		// A serialization failure is reported but does not mask the
		// otherwise-successful crawl.
		logger.Error("failed to write output file", "path", cfg.OutputFile, "error", err)
	} else {
		fmt.Printf("Saved %d records to %s\n", len(result.Records), cfg.OutputFile)
	}

	return runErr
}

// buildSession creates the HTTP session for the crawl, applying per-site
// overrides (cookie, headers, delay, page limit, user agent) for the base
// host on top of the global configuration.
func buildSession(cfg *config.Config, host string) (*fetcher.Session, time.Duration, int) {
	delay := cfg.CrawlDelay
	maxPages := cfg.MaxPages
	userAgent := cfg.UserAgent

	opts := []fetcher.Option{
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
	}

	if cfg.SiteConfigs != nil {
		site := cfg.SiteConfigs.GetSiteConfig(host)
		if site.Cookie != "" {
			opts = append(opts, fetcher.WithCookie(site.Cookie))
		}
		if len(site.Headers) > 0 {
			opts = append(opts, fetcher.WithHeaders(site.Headers))
		}
		if d, ok := site.DelayDuration(); ok {
			delay = d
		}
		if site.MaxPages > 0 {
			maxPages = site.MaxPages
		}
		if site.UserAgent != "" {
			userAgent = site.UserAgent
		}
	}

	opts = append(opts, fetcher.WithUserAgent(userAgent))

	return fetcher.NewSession(opts...), delay, maxPages
}

// writeArtifact writes the result to the configured output file, creating
// parent directories as needed.
func writeArtifact(cfg *config.Config, result *model.CrawlResult) error {
	dir := filepath.Dir(cfg.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // Crawl output is not sensitive
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	var w report.Writer
	if cfg.MarkdownReport {
		w = report.NewMarkdownWriter(f)
	} else {
		w = report.NewJSONWriter(f)
	}

	if _, err := w.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
