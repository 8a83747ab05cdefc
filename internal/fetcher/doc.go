// Package fetcher performs the HTTP leg of the crawl.
//
// A Session wraps a single http.Client whose connection pool is shared by
// every fetch in a run; it is created once at startup and reused for both
// list and detail pages. Fetch returns a parsed goquery document or a
// *FetchError; it never retries and never sleeps. Rate limiting is the
// crawl loop's responsibility, not the fetcher's.
package fetcher
