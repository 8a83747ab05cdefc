// Package crawler runs the pagination-and-extraction pipeline.
//
// The Crawler walks an unknown-length sequence of list pages, fetching the
// detail page of every same-origin item it finds, and accumulates the
// results in discovery order. The loop is an explicit state machine:
//
//	FETCH_LIST -> EXTRACT_LIST -> per item {FETCH_DETAIL -> EXTRACT_DETAIL
//	-> ACCUMULATE} -> FIND_NEXT -> (FETCH_LIST | TERMINATED)
//
// Termination conditions are exhaustive: no next-page link, a failed
// list-page fetch, a revisited list URL, the optional page limit, or
// context cancellation. Failure policy distinguishes fetches from parses:
// a list-page fetch error is fatal, a detail-page fetch error is local to
// one item, and an unexpected extraction failure on a list page degrades
// into a best-effort next-page search rather than stopping the run.
//
// # Politeness
//
// A fixed delay is applied after each processed item (one whose detail
// fetch was attempted). Skipped items incur no delay, and list-page
// fetches are never delayed.
//
// # Concurrency
//
// The crawl is single-threaded by design; the visited set and the result
// collection have exactly one writer. Anyone parallelizing fetches must
// redesign both for thread safety first.
package crawler
