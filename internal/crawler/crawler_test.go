package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/tourcrawl/internal/fetcher"
	"github.com/nao1215/tourcrawl/internal/model"
)

// newTestCrawler creates a Crawler against the test server with no
// politeness delay so tests stay fast.
func newTestCrawler(t *testing.T, serverURL string, opts ...Option) *Crawler {
	t.Helper()

	base, err := url.Parse(serverURL)
	if err != nil {
		t.Fatalf("failed to parse server URL: %v", err)
	}

	all := append([]Option{
		WithDelay(0),
		WithLogger(slog.New(slog.DiscardHandler)),
	}, opts...)

	return New(fetcher.NewSession(), base, all...)
}

// listPage renders a minimal list page with the given item anchors and an
// optional next link.
func listPage(next string, items ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><ul class="item-list">`)
	for _, item := range items {
		b.WriteString("<li>" + item + "</li>")
	}
	b.WriteString(`</ul>`)
	if next != "" {
		b.WriteString(`<div class="pagination"><a href="` + next + `">Next</a></div>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

// TestRunPagination tests the full loop: item extraction, detail fetches,
// same-origin skips, a failing detail page, and loop termination.
func TestRunPagination(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/page1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, listPage("/page2",
			`<h3>Palace</h3><a href="/detail/1">more</a>`,
			`<h3>Offsite</h3><a href="https://elsewhere.example/x">more</a>`,
			`<h3>No Link</h3>`,
		))
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, _ *http.Request) {
		// Next points back to page1: a pagination loop.
		fmt.Fprint(w, listPage("/page1",
			`<h3>Broken</h3><a href="/detail/broken">more</a>`,
		))
	})
	mux.HandleFunc("/detail/1", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body>
			<div class="desc"><p>A grand palace.</p></div>
			<h3>Transportation</h3><p>Line 3, Exit 5.</p>
		</body></html>`)
	})
	mux.HandleFunc("/detail/broken", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	c := newTestCrawler(t, server.URL)
	result, err := c.Run(context.Background(), server.URL+"/page1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.StopReason != model.StopLoopDetected {
		t.Errorf("expected stop reason %q, got %q", model.StopLoopDetected, result.StopReason)
	}
	if result.PagesCrawled != 2 {
		t.Errorf("expected 2 pages crawled, got %d", result.PagesCrawled)
	}
	if result.ItemsSkipped != 2 {
		t.Errorf("expected 2 skipped items, got %d", result.ItemsSkipped)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}

	// Every record links to the base origin.
	for _, rec := range result.Records {
		if !strings.HasPrefix(rec.Link, server.URL) {
			t.Errorf("record link %q is off-origin", rec.Link)
		}
	}

	// Page 1's record carries the extracted fields.
	first := result.Records[0]
	if first.Page != 1 {
		t.Errorf("expected page 1, got %d", first.Page)
	}
	if first.Name != "Palace" {
		t.Errorf("expected name 'Palace', got %q", first.Name)
	}
	if first.Description != "A grand palace." {
		t.Errorf("unexpected description: %q", first.Description)
	}
	if first.Transport != "Line 3, Exit 5." {
		t.Errorf("unexpected transport: %q", first.Transport)
	}

	// Page 2's record survives its failed detail fetch with diagnostics
	// in both fields.
	second := result.Records[1]
	if second.Page != 2 {
		t.Errorf("expected page 2, got %d", second.Page)
	}
	if !strings.Contains(second.Description, "Error fetching page:") {
		t.Errorf("expected fetch diagnostic in description, got %q", second.Description)
	}
	if second.Transport != second.Description {
		t.Errorf("expected identical diagnostics, got %q and %q", second.Transport, second.Description)
	}
}

// TestRunTermination tests each stop condition in isolation.
func TestRunTermination(t *testing.T) {
	t.Parallel()

	t.Run("stops when no next page link exists", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, listPage(""))
		}))
		defer server.Close()

		c := newTestCrawler(t, server.URL)
		result, err := c.Run(context.Background(), server.URL+"/page1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.StopReason != model.StopNoNextPage {
			t.Errorf("expected stop reason %q, got %q", model.StopNoNextPage, result.StopReason)
		}
		if result.PagesCrawled != 1 {
			t.Errorf("expected 1 page crawled, got %d", result.PagesCrawled)
		}
	})

	t.Run("next anchor without href terminates after the page", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `<html><body>
				<ul class="item-list"></ul>
				<div class="pagination"><a>Next</a></div>
			</body></html>`)
		}))
		defer server.Close()

		c := newTestCrawler(t, server.URL)
		result, err := c.Run(context.Background(), server.URL+"/page1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.StopReason != model.StopNoNextPage {
			t.Errorf("expected stop reason %q, got %q", model.StopNoNextPage, result.StopReason)
		}
	})

	t.Run("list fetch failure is fatal", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := newTestCrawler(t, server.URL)
		result, err := c.Run(context.Background(), server.URL+"/page1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.StopReason != model.StopFetchError {
			t.Errorf("expected stop reason %q, got %q", model.StopFetchError, result.StopReason)
		}
		if len(result.Records) != 0 {
			t.Errorf("expected no records, got %d", len(result.Records))
		}
	})

	t.Run("max pages caps the crawl", func(t *testing.T) {
		t.Parallel()

		page := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			page++
			fmt.Fprint(w, listPage(fmt.Sprintf("/page%d", page+1)))
		}))
		defer server.Close()

		c := newTestCrawler(t, server.URL, WithMaxPages(3))
		result, err := c.Run(context.Background(), server.URL+"/page1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.StopReason != model.StopMaxPages {
			t.Errorf("expected stop reason %q, got %q", model.StopMaxPages, result.StopReason)
		}
		if result.PagesCrawled != 3 {
			t.Errorf("expected 3 pages crawled, got %d", result.PagesCrawled)
		}
	})

	t.Run("start URL revisited is not processed twice", func(t *testing.T) {
		t.Parallel()

		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/page1" {
				requests++
			}
			fmt.Fprint(w, listPage("/page1",
				`<h3>Spot</h3><a href="/detail">more</a>`,
			))
		}))
		defer server.Close()

		c := newTestCrawler(t, server.URL)
		result, err := c.Run(context.Background(), server.URL+"/page1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.StopReason != model.StopLoopDetected {
			t.Errorf("expected stop reason %q, got %q", model.StopLoopDetected, result.StopReason)
		}
		if requests != 1 {
			t.Errorf("expected exactly one fetch of page1, got %d", requests)
		}
		if len(result.Records) != 1 {
			t.Errorf("expected 1 record, got %d", len(result.Records))
		}
	})

	t.Run("cancelled context stops the run with partial result", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, listPage("/next"))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := newTestCrawler(t, server.URL)
		result, err := c.Run(ctx, server.URL+"/page1")
		if err == nil {
			t.Fatal("expected context error")
		}
		if result == nil {
			t.Fatal("expected partial result alongside the error")
		}
		if result.StopReason != model.StopCancelled {
			t.Errorf("expected stop reason %q, got %q", model.StopCancelled, result.StopReason)
		}
	})
}

// TestPolitenessDelay verifies the delay is applied after processed items
// but not after skipped ones.
func TestPolitenessDelay(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/detail") {
			fmt.Fprint(w, `<html><body><main><p>ok</p></main></body></html>`)
			return
		}
		fmt.Fprint(w, listPage("",
			`<h3>One</h3><a href="/detail/1">more</a>`,
			`<h3>Two</h3><a href="/detail/2">more</a>`,
		))
	}))
	defer server.Close()

	delay := 30 * time.Millisecond
	c := newTestCrawler(t, server.URL, WithDelay(delay))

	start := time.Now()
	result, err := c.Run(context.Background(), server.URL+"/page1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed := time.Since(start)

	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	// Two processed items mean at least two delays.
	if elapsed < 2*delay {
		t.Errorf("expected at least %s elapsed, got %s", 2*delay, elapsed)
	}
}

// TestExtractListSafe verifies extraction failures surface as errors, not
// panics.
func TestExtractListSafe(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com")
	if err != nil {
		t.Fatalf("failed to parse base URL: %v", err)
	}
	c := New(fetcher.NewSession(), base, WithLogger(slog.New(slog.DiscardHandler)))

	if _, err := c.extractListSafe(nil); err == nil {
		t.Error("expected error for nil document")
	}
}

// TestNormalizeURL tests visited-set URL normalization.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"fragment stripped", "https://example.com/list#top", "https://example.com/list"},
		{"host case folded", "https://EXAMPLE.com/list", "https://example.com/list"},
		{"scheme case folded", "HTTPS://example.com/list", "https://example.com/list"},
		{"empty path gets slash", "https://example.com", "https://example.com/"},
		{"query preserved", "https://example.com/list?page=2", "https://example.com/list?page=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeURL(tt.in); got != tt.want {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
