package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These target english.visitseoul.net and err on the polite side.
const (
	// DefaultBaseURL is the site origin used for same-origin link
	// filtering and relative URL resolution.
	DefaultBaseURL = "https://english.visitseoul.net"

	// DefaultStartURL is the first list page of the attraction listing.
	DefaultStartURL = DefaultBaseURL + "/attractions"

	// DefaultTimeout is the per-request timeout. 15 seconds is generous
	// enough for slow municipal sites while still bounding a stuck
	// connection. There are no retries at the fetch layer, so a timeout
	// surfaces directly as a fetch error.
	DefaultTimeout = 15 * time.Second

	// DefaultCrawlDelay is the pause after each processed item. This is
	// a politeness setting that bounds the outbound request rate against
	// the target server. It applies only around detail fetches, never
	// before list-page fetches.
	DefaultCrawlDelay = 1500 * time.Millisecond

	// DefaultMaxPages is the list-page safety limit. Zero means
	// unlimited: termination then relies on next-page absence and the
	// visited-URL loop check.
	DefaultMaxPages = 0

	// DefaultUserAgent identifies tourcrawl in HTTP requests. A
	// descriptive User-Agent lets site operators identify crawler
	// traffic in their logs.
	DefaultUserAgent = "tourcrawl/1.0 (+https://github.com/nao1215/tourcrawl)"

	// DefaultMaxBodySize limits how much of a response body is read.
	// 5MB is plenty for HTML pages and prevents memory exhaustion from
	// unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// DefaultOutputFile is where the collected records are written.
	DefaultOutputFile = "attractions.json"

	// AppName is the application name used for XDG directory paths.
	AppName = "tourcrawl"
)

// Config holds all options for a crawl run. It is built from defaults,
// the optional config file, and CLI flags, validated once, and then
// treated as read-only.
type Config struct {
	// StartURL is the first list page to fetch.
	StartURL string

	// BaseURL is the site origin. Detail links are only followed when
	// they start with this origin, and relative hrefs are resolved
	// against it.
	BaseURL string

	// Timeout is the per-request timeout applied by the HTTP session.
	Timeout time.Duration

	// CrawlDelay is the politeness pause after each processed item.
	CrawlDelay time.Duration

	// MaxPages limits the number of list pages fetched. Zero disables
	// the limit.
	MaxPages int

	// UserAgent is sent with every request.
	UserAgent string

	// MaxBodySize caps response body reads in bytes. Zero means use
	// DefaultMaxBodySize.
	MaxBodySize int64

	// Verbose enables debug-level logging, including which extraction
	// strategy resolved each field.
	Verbose bool

	// ConfigFilePath is an explicit config file path. If empty, the
	// loader searches for .tourcrawl in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// MarkdownReport switches the output artifact from the JSON record
	// array to a Markdown run summary.
	MarkdownReport bool

	// OutputFile is the output artifact path.
	OutputFile string

	// SaveToDB controls whether the run is recorded in the local crawl
	// history database.
	SaveToDB bool

	// DBDir is the directory holding the SQLite history database.
	DBDir string
}

// NewConfig returns a Config populated with the package defaults.
//
// Design decision: We use a constructor rather than relying on zero values
// because most defaults are non-zero (timeout, delay, user agent). The
// constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		StartURL:    DefaultStartURL,
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		CrawlDelay:  DefaultCrawlDelay,
		MaxPages:    DefaultMaxPages,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		OutputFile:  DefaultOutputFile,
		SaveToDB:    true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for tourcrawl.
// On Linux: ~/.local/share/tourcrawl
// On macOS: ~/Library/Application Support/tourcrawl
// On Windows: %LOCALAPPDATA%\tourcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any network activity, so
// invalid setups fail fast with a specific sentinel error.
func (c *Config) Validate() error {
	base, err := url.Parse(c.BaseURL)
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return ErrInvalidBaseURL
	}

	if c.StartURL == "" {
		return ErrNoStartURL
	}
	start, err := url.Parse(c.StartURL)
	if err != nil || start.Host == "" || (start.Scheme != "http" && start.Scheme != "https") {
		return ErrInvalidStartURL
	}

	// The start URL must live on the base origin, otherwise the
	// same-origin filter would reject every discovered link.
	if !strings.EqualFold(start.Scheme, base.Scheme) || !strings.EqualFold(start.Host, base.Host) {
		return ErrOriginMismatch
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.OutputFile == "" {
		return ErrNoOutputFile
	}

	return nil
}
