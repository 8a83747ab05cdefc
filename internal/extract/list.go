package extract

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/tourcrawl/internal/model"
)

// Class and text patterns for list-page heuristics. All matches are
// case-insensitive substring matches against the class attribute, except
// the text patterns which match collapsed element text.
var (
	reListContainer = regexp.MustCompile(`(?i)list-container|items-wrap|attraction-items`)
	reCardList      = regexp.MustCompile(`(?i)card-list|item-list`)
	reItemClass     = regexp.MustCompile(`(?i)item|card|list-item`)
	reTitleClass    = regexp.MustCompile(`(?i)title|name`)
	rePagination    = regexp.MustCompile(`(?i)pagination|paging`)
	reNextClass     = regexp.MustCompile(`(?i)next|forward`)
	reNextText      = regexp.MustCompile(`(?i)next`)
	reButtonClass   = regexp.MustCompile(`(?i)btn|page`)
)

// PlaceholderName is stored when no name heuristic matched. Names are
// never absent; downstream consumers can rely on a non-empty string.
const PlaceholderName = "Name not found"

// ListResult is the outcome of list-mode extraction.
type ListResult struct {
	// Items are the candidate attractions in document order.
	Items []model.AttractionItem

	// NextPageURL is the absolute URL of the next list page, or empty
	// when no valid next-page link exists.
	NextPageURL string

	// Degraded is true when no list container was found and items were
	// collected by the strictly less reliable page-wide scan.
	Degraded bool
}

// nameStrategies locate an attraction's name within a list item.
var nameStrategies = []textStrategy{
	{
		name: "heading",
		locate: func(s *goquery.Selection) (string, bool) {
			h := s.Find("h1, h2, h3, h4").First()
			if h.Length() == 0 {
				return "", false
			}
			return flatText(h), true
		},
	},
	{
		name: "titled emphasis",
		locate: func(s *goquery.Selection) (string, bool) {
			t := findByClass(s, "strong, b, em", reTitleClass).First()
			if t.Length() == 0 {
				return "", false
			}
			return flatText(t), true
		},
	},
	{
		name: "anchor text",
		locate: func(s *goquery.Selection) (string, bool) {
			a := s.Find("a").First()
			if a.Length() == 0 {
				return "", false
			}
			return flatText(a), true
		},
	},
}

// List extracts attraction items and the next-page reference from a list
// page. An absence of items is not an error: transitional or ad pages
// legitimately carry none, and next-page detection still runs.
func (e *Extractor) List(doc *goquery.Document) (*ListResult, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}

	result := &ListResult{}
	items := e.candidateItems(doc, result)

	items.Each(func(_ int, item *goquery.Selection) {
		name, ok := e.firstMatch("name", item, nameStrategies)
		if !ok || name == "" {
			name = PlaceholderName
		}
		result.Items = append(result.Items, model.AttractionItem{
			Name: name,
			Link: e.itemLink(item),
		})
	})

	result.NextPageURL = e.nextPageURL(doc)

	return result, nil
}

// candidateItems locates the item-list container and returns its direct
// children, falling back to a page-wide scan when no container matches.
func (e *Extractor) candidateItems(doc *goquery.Document, result *ListResult) *goquery.Selection {
	container := findByClass(doc.Selection, "div", reListContainer).First()
	if container.Length() == 0 {
		container = findByClass(doc.Selection, "ul, ol", reCardList).First()
	}
	if container.Length() > 0 {
		class, _ := container.Attr("class")
		e.logger.Debug("found list container", "class", class)
		// Direct children only. Recursing into grandchildren would
		// double-count nested markup inside each card.
		return container.ChildrenFiltered("li, div")
	}

	// Degraded path: nothing matched the container heuristics, so scan
	// the whole page for anything that looks like a card.
	e.logger.Warn("no list container found, scanning page-wide for items")
	result.Degraded = true
	return findByClass(doc.Selection, "li, div", reItemClass)
}

// itemLink returns the absolute URL of the item's first anchor with an
// href, or empty when the item has no usable anchor.
func (e *Extractor) itemLink(item *goquery.Selection) string {
	a := item.Find("a[href]").First()
	if a.Length() == 0 {
		return ""
	}
	href, _ := a.Attr("href")
	return e.resolveURL(href)
}

// nextPageURL finds the "Next" pagination link. A candidate anchor without
// a non-empty href means the listing ended; no further fallback applies
// once a candidate is chosen.
func (e *Extractor) nextPageURL(doc *goquery.Document) string {
	var candidate *goquery.Selection

	pagination := findByClass(doc.Selection, "div, nav", rePagination).First()
	if pagination.Length() > 0 {
		candidate = findByText(pagination, "a", reNextText).First()
		if candidate.Length() == 0 {
			candidate = findByClass(pagination, "a", reNextClass).First()
		}
	}

	if candidate == nil || candidate.Length() == 0 {
		// Page-wide fallback: a "Next" anchor styled like a button or
		// page link.
		candidate = doc.Find("a").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return reNextText.MatchString(flatText(s)) && classMatches(s, reButtonClass)
		}).First()
	}

	if candidate.Length() == 0 {
		return ""
	}

	href, ok := candidate.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	return e.resolveURL(href)
}

// SimplifiedNextPage is the best-effort next-page search used after an
// unexpected list-page processing failure: any anchor whose text matches
// "Next", with no class or container constraints.
func (e *Extractor) SimplifiedNextPage(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	a := findByText(doc.Selection, "a", reNextText).First()
	if a.Length() == 0 {
		return ""
	}
	href, ok := a.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	return e.resolveURL(href)
}

// resolveURL resolves href against the site origin, dropping schemes that
// can never be fetched.
func (e *Extractor) resolveURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return e.base.ResolveReference(u).String()
}
