// Package log provides the crawler's logging setup on top of the standard
// slog package.
//
// Site configurations may carry cookies and authorization headers needed to
// reach paywalled or session-gated listing pages. The SanitizingHandler
// masks such values before they reach the log stream, so progress logs can
// safely include request metadata even in verbose mode.
package log
