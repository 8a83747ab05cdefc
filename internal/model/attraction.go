package model

import "time"

// AttractionItem is the intermediate result of list-page extraction.
// It is ephemeral: the crawl loop consumes it immediately to decide whether
// a detail fetch is warranted.
type AttractionItem struct {
	// Name is the attraction name from the list entry.
	// Never empty; the extractor substitutes a placeholder when no name
	// could be located.
	Name string

	// Link is the absolute URL of the detail page.
	// Empty when the list entry carried no usable anchor.
	Link string
}

// AttractionRecord is one unit of crawler output. A record is created only
// for items whose link is an absolute URL on the configured base origin,
// and is immutable once appended to the result.
//
// The JSON field names are the output file contract; do not rename them.
type AttractionRecord struct {
	// Page is the 1-based index of the list page the item was found on.
	Page int `json:"page"`

	// Name is the attraction name, or "Name not found".
	Name string `json:"name"`

	// Link is the absolute detail-page URL on the base origin.
	Link string `json:"link"`

	// Description is the detail-page description. Always populated:
	// a diagnostic placeholder is stored when extraction or the detail
	// fetch failed. Descriptions longer than 300 runes are stored in
	// their truncated form.
	Description string `json:"description"`

	// Transport is the transportation/access information. Always
	// populated, same placeholder policy as Description.
	Transport string `json:"transport"`
}

// PageVisit records one list-page fetch during a run.
type PageVisit struct {
	// Number is the 1-based page index.
	Number int `json:"number"`

	// URL is the absolute list-page URL.
	URL string `json:"url"`

	// ItemsFound is the number of candidate items extracted from the page.
	ItemsFound int `json:"items_found"`

	// FetchedAt is when the page was fetched.
	FetchedAt time.Time `json:"fetched_at"`
}

// StopReason explains why the crawl loop terminated. Every run terminates
// with exactly one reason; none of them is an error at the process level.
type StopReason string

// Crawl termination reasons.
const (
	// StopNoNextPage means no valid next-page link was found.
	StopNoNextPage StopReason = "no next page"

	// StopFetchError means a list-page fetch failed. Detail-page fetch
	// failures never stop the crawl.
	StopFetchError StopReason = "list fetch error"

	// StopLoopDetected means a list URL was encountered twice.
	StopLoopDetected StopReason = "pagination loop detected"

	// StopMaxPages means the configured page limit was reached.
	StopMaxPages StopReason = "max pages reached"

	// StopCancelled means the run context was cancelled.
	StopCancelled StopReason = "cancelled"
)

// CrawlResult aggregates everything a single run produced. It is owned
// exclusively by the crawl loop while the run is in progress; records are
// appended in discovery order and never reordered or removed.
type CrawlResult struct {
	// StartURL is the list URL the crawl began at.
	StartURL string `json:"start_url"`

	// BaseURL is the site origin used for same-origin filtering and
	// relative URL resolution.
	BaseURL string `json:"base_url"`

	// StartedAt and FinishedAt bound the run in wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// PagesCrawled is the number of list pages fetched.
	PagesCrawled int `json:"pages_crawled"`

	// ItemsSkipped counts list items dropped for having no link or an
	// off-origin link. Skipped items never become records.
	ItemsSkipped int `json:"items_skipped"`

	// StopReason explains why the loop terminated.
	StopReason StopReason `json:"stop_reason"`

	// Pages holds one entry per fetched list page, in fetch order.
	Pages []PageVisit `json:"pages,omitempty"`

	// Records holds the collected attraction records in discovery order.
	Records []AttractionRecord `json:"records"`
}

// Append adds a record to the collection, preserving discovery order.
func (r *CrawlResult) Append(rec AttractionRecord) {
	r.Records = append(r.Records, rec)
}

// HasRecords reports whether the run collected at least one record.
// The output artifact is written only when this is true.
func (r *CrawlResult) HasRecords() bool {
	return len(r.Records) > 0
}

// Duration returns the wall-clock duration of the run.
func (r *CrawlResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
