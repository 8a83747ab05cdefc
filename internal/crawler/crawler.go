package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/tourcrawl/internal/extract"
	"github.com/nao1215/tourcrawl/internal/fetcher"
	"github.com/nao1215/tourcrawl/internal/model"
)

// state is a crawl loop state. The zero value is stateFetchList so a new
// loop starts by fetching the start URL.
type state int

const (
	// stateFetchList fetches the current list page.
	stateFetchList state = iota

	// stateExtractList extracts items from the fetched page and
	// processes each item (detail fetch, extract, accumulate).
	stateExtractList

	// stateFindNext decides whether another list page follows.
	stateFindNext

	// stateTerminated ends the run.
	stateTerminated
)

// Crawler orchestrates the fetcher and the extractor across the
// pagination sequence. It owns the visited set and the result collection;
// neither is shared with any other goroutine.
type Crawler struct {
	session   *fetcher.Session
	extractor *extract.Extractor
	base      *url.URL
	origin    string
	delay     time.Duration
	maxPages  int
	logger    *slog.Logger

	// visited holds normalized list-page URLs already fetched in this
	// run. It grows monotonically and is never reset.
	visited map[string]bool
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithDelay sets the politeness delay applied after each processed item.
func WithDelay(d time.Duration) Option {
	return func(c *Crawler) {
		c.delay = d
	}
}

// WithMaxPages caps the number of list pages fetched. Zero means no cap.
func WithMaxPages(n int) Option {
	return func(c *Crawler) {
		c.maxPages = n
	}
}

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) {
		c.logger = logger
	}
}

// New creates a Crawler that fetches through session and keeps every
// record on the base origin. Defaults: 1.5s politeness delay, no page cap.
func New(session *fetcher.Session, base *url.URL, opts ...Option) *Crawler {
	c := &Crawler{
		session:  session,
		base:     base,
		origin:   strings.TrimSuffix(base.String(), "/"),
		delay:    1500 * time.Millisecond,
		maxPages: 0,
		logger:   slog.Default(),
		visited:  make(map[string]bool),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.extractor = extract.New(base, c.logger)
	return c
}

// Run crawls from startURL until a termination condition fires and returns
// everything collected. The returned result is always non-nil; a run that
// collects nothing is still a clean run. The error is non-nil only for
// context cancellation, in which case the partial result accompanies it.
func (c *Crawler) Run(ctx context.Context, startURL string) (*model.CrawlResult, error) {
	result := &model.CrawlResult{
		StartURL:  startURL,
		BaseURL:   c.base.String(),
		StartedAt: time.Now(),
	}
	defer func() {
		result.FinishedAt = time.Now()
	}()

	c.logger.Info("starting crawl", "startURL", startURL, "base", c.base.String())

	current := startURL
	pageNo := 0
	var doc *goquery.Document
	var list *extract.ListResult

	st := stateFetchList
	for st != stateTerminated {
		if err := ctx.Err(); err != nil {
			result.StopReason = model.StopCancelled
			return result, err
		}

		switch st {
		case stateFetchList:
			norm := normalizeURL(current)
			if c.visited[norm] {
				// Loop detected: stop cleanly rather than
				// re-processing a page and duplicating records.
				c.logger.Info("already processed, stopping pagination loop", "url", current)
				result.StopReason = model.StopLoopDetected
				st = stateTerminated
				continue
			}
			if c.maxPages > 0 && pageNo >= c.maxPages {
				c.logger.Info("page limit reached", "maxPages", c.maxPages)
				result.StopReason = model.StopMaxPages
				st = stateTerminated
				continue
			}

			c.visited[norm] = true
			pageNo++
			c.logger.Info("fetching list page", "page", pageNo, "url", current)

			var err error
			doc, err = c.session.Fetch(ctx, current)
			if err != nil {
				// A failed list fetch is fatal to the crawl;
				// there is nothing left to paginate from.
				c.logger.Error("list page fetch failed, stopping crawl", "url", current, "error", err)
				result.StopReason = model.StopFetchError
				st = stateTerminated
				continue
			}

			result.PagesCrawled = pageNo
			result.Pages = append(result.Pages, model.PageVisit{
				Number:    pageNo,
				URL:       current,
				FetchedAt: time.Now(),
			})
			st = stateExtractList

		case stateExtractList:
			var err error
			list, err = c.extractListSafe(doc)
			if err != nil {
				// Parse-level failures are degraded-continue, not
				// fatal: try a simplified next-page search on the
				// same document and move on if it finds anything.
				c.logger.Warn("unexpected error processing list page, attempting simplified next-page search",
					"url", current, "error", err)
				if next := c.extractor.SimplifiedNextPage(doc); next != "" {
					c.logger.Info("found next page after error", "url", next)
					current = next
					st = stateFetchList
					continue
				}
				result.StopReason = model.StopNoNextPage
				st = stateTerminated
				continue
			}

			result.Pages[len(result.Pages)-1].ItemsFound = len(list.Items)
			if len(list.Items) == 0 {
				c.logger.Info("no attraction items on this page", "page", pageNo)
			} else {
				c.logger.Info("found attraction items", "page", pageNo, "count", len(list.Items))
			}

			if err := c.processItems(ctx, pageNo, list.Items, result); err != nil {
				result.StopReason = model.StopCancelled
				return result, err
			}
			st = stateFindNext

		case stateFindNext:
			if list.NextPageURL == "" {
				c.logger.Info("no next page link found, stopping pagination")
				result.StopReason = model.StopNoNextPage
				st = stateTerminated
				continue
			}
			c.logger.Info("found next page link", "url", list.NextPageURL)
			current = list.NextPageURL
			st = stateFetchList
		}
	}

	c.logger.Info("finished crawl",
		"pages", result.PagesCrawled,
		"records", len(result.Records),
		"skipped", result.ItemsSkipped,
		"reason", string(result.StopReason),
	)
	return result, nil
}

// processItems runs the per-item stage: detail fetch, detail extraction,
// and accumulation, with the politeness delay after each processed item.
// Items without a usable same-origin link are skipped without a record and
// without a delay.
func (c *Crawler) processItems(ctx context.Context, pageNo int, items []model.AttractionItem, result *model.CrawlResult) error {
	for i, item := range items {
		c.logger.Debug("processing item", "page", pageNo, "item", i+1, "name", item.Name)

		if item.Link == "" {
			c.logger.Debug("skipping item without link", "name", item.Name)
			result.ItemsSkipped++
			continue
		}
		if !strings.HasPrefix(item.Link, c.origin) {
			c.logger.Debug("skipping off-origin link", "name", item.Name, "link", item.Link)
			result.ItemsSkipped++
			continue
		}

		description, transport := c.fetchDetail(ctx, item.Link)
		result.Append(model.AttractionRecord{
			Page:        pageNo,
			Name:        item.Name,
			Link:        item.Link,
			Description: description,
			Transport:   transport,
		})
		c.logger.Info("collected attraction",
			"name", item.Name,
			"link", item.Link,
			"description", description,
		)

		// Politeness delay after every processed item, success or
		// failure, to bound the outbound request rate.
		if c.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.delay):
			}
		}
	}
	return nil
}

// fetchDetail fetches and extracts one detail page. A failed fetch never
// aborts the item: both fields become a diagnostic string embedding the
// cause, and the caller still produces a record.
func (c *Crawler) fetchDetail(ctx context.Context, link string) (description, transport string) {
	c.logger.Info("scraping details", "url", link)

	doc, err := c.session.Fetch(ctx, link)
	if err != nil {
		c.logger.Error("detail page fetch failed", "url", link, "error", err)
		diagnostic := fmt.Sprintf("Error fetching page: %v", err)
		return diagnostic, diagnostic
	}

	detail := c.extractor.Detail(doc)
	return detail.Description, detail.Transport
}

// extractListSafe shields the loop from extraction panics so that a
// malformed page degrades instead of crashing the run.
func (c *Crawler) extractListSafe(doc *goquery.Document) (result *extract.ListResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("list extraction panicked: %v", r)
		}
	}()
	return c.extractor.List(doc)
}

// normalizeURL normalizes a URL for visited-set membership. The same page
// can be linked with differing case, fragments, or a missing root slash;
// none of those variations should defeat loop detection.
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}
