package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FetchError reports a failed page fetch. Transport-level failures (DNS,
// connection reset, timeout), non-2xx statuses, and HTML parse failures are
// all surfaced uniformly through this type; callers that need to
// distinguish them can unwrap the cause.
type FetchError struct {
	// URL is the page that failed.
	URL string

	// Cause is the underlying failure.
	Cause error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Session is the process-wide HTTP client state: one connection pool and a
// set of default headers applied to every request. Create it once at
// startup and share it across all fetches in the run.
type Session struct {
	client      *http.Client
	userAgent   string
	cookie      string
	headers     map[string]string
	maxBodySize int64
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.client.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Session) {
		s.userAgent = ua
	}
}

// WithCookie sets a Cookie header sent with every request.
func WithCookie(cookie string) Option {
	return func(s *Session) {
		s.cookie = cookie
	}
}

// WithHeaders sets additional headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(s *Session) {
		s.headers = headers
	}
}

// WithMaxBodySize caps how many bytes of a response body are read.
func WithMaxBodySize(size int64) Option {
	return func(s *Session) {
		if size > 0 {
			s.maxBodySize = size
		}
	}
}

// NewSession creates a Session with a 15 second request timeout, a
// descriptive User-Agent, and a 5MB body limit unless overridden.
func NewSession(opts ...Option) *Session {
	s := &Session{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:   "tourcrawl/1.0 (+https://github.com/nao1215/tourcrawl)",
		maxBodySize: 5 * 1024 * 1024,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Fetch performs a GET on pageURL and returns the parsed document.
// Any failure, transport, HTTP status, or parse, is returned as a
// *FetchError. The call has no side effects beyond the network request;
// it does not sleep and does not retry.
func (s *Session) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Cause: err}
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if s.cookie != "" {
		req.Header.Set("Cookie", s.cookie)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: pageURL, Cause: fmt.Errorf("unexpected status: %s", resp.Status)}
	}

	body := io.LimitReader(resp.Body, s.maxBodySize)
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Cause: fmt.Errorf("parse HTML: %w", err)}
	}

	return doc, nil
}
