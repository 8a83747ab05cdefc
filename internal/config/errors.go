package config

import "errors"

// Configuration validation errors returned by Config.Validate().
//
// Design decision: package-level sentinel errors rather than fmt.Errorf in
// Validate() so that callers can use errors.Is() while the messages stay
// human-readable. None of these needs dynamic values.
var (
	// ErrNoStartURL is returned when no start URL is configured.
	ErrNoStartURL = errors.New("no start URL: provide a list-page URL to crawl")

	// ErrInvalidStartURL is returned when the start URL is not an
	// absolute http(s) URL.
	ErrInvalidStartURL = errors.New("invalid start URL: must be an absolute http or https URL")

	// ErrInvalidBaseURL is returned when the base origin is not an
	// absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrOriginMismatch is returned when the start URL is not on the
	// configured base origin. Crawling would collect nothing because
	// every discovered link would fail the same-origin filter.
	ErrOriginMismatch = errors.New("origin mismatch: start URL must be on the base origin")

	// ErrInvalidTimeout is returned when the request timeout is not
	// positive. A zero timeout would disable the per-request bound.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the politeness delay is
	// negative. Use 0 to disable the delay (not recommended against
	// production sites).
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxPages is returned when the page limit is negative.
	// Use 0 for an unlimited crawl.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the body size limit is
	// negative. Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrNoOutputFile is returned when the output path is empty.
	ErrNoOutputFile = errors.New("no output file: provide a path for the result artifact")
)
