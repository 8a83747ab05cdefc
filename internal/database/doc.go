// Package database provides SQLite-backed storage of crawl history.
//
// Every run is persisted with its per-page fetches and collected records,
// so successive runs against the same site can be compared and a run's
// output can be recovered after the fact. The database lives in the XDG
// data directory by default and is entirely optional; the crawl itself
// never depends on it.
package database
