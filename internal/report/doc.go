// Package report writes crawl results to their output destinations.
//
// The JSON writer produces the output contract: an indented array of
// attraction record objects with HTML escaping disabled, so Korean text
// and other non-ASCII content is preserved literally. The Markdown writer
// produces a human-readable run summary instead. MultiWriter fans a result
// out to several destinations, typically a file plus the terminal.
package report
