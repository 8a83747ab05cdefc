package extract

import (
	"log/slog"
	"net/url"
)

// Extractor resolves page fields against a fixed site origin.
// It carries no per-page state; a single Extractor serves a whole run.
type Extractor struct {
	// base is the site origin used to resolve relative hrefs.
	base *url.URL

	// logger narrates which strategy resolved each field (debug) and
	// when a degraded path was taken (warn).
	logger *slog.Logger
}

// New creates an Extractor that resolves links against base.
// A nil logger falls back to the default slog logger.
func New(base *url.URL, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{base: base, logger: logger}
}
