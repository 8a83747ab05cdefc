package extract

import (
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// Class and text patterns for detail-page heuristics.
var (
	reDescriptionClass  = regexp.MustCompile(`(?i)cont-in-box|content|desc|summary|article`)
	reTransportHeading  = regexp.MustCompile(`(?i)transportation|getting here|directions|access`)
	reTransportKeywords = regexp.MustCompile(`(?i)subway|bus|station|line [0-9]`)
)

// Placeholders stored when a detail field could not be located. Both
// fields of a DetailResult are always populated; consumers can rely on
// non-empty strings.
const (
	PlaceholderDescription = "Description not found"
	PlaceholderTransport   = "Transportation info not found"
)

// maxDescriptionRunes bounds stored descriptions. Longer text is cut at
// this many runes and suffixed with truncationMarker. The truncated form
// is the stored value, not merely a log preview.
const (
	maxDescriptionRunes = 300
	truncationMarker    = "... (truncated)"
)

// contentBearing are the element kinds accepted as the body of a
// transport section.
const contentBearing = "div, p, ul, ol, section"

// DetailResult is the outcome of detail-mode extraction.
type DetailResult struct {
	Description string
	Transport   string
}

// descriptionStrategies locate the attraction description.
var descriptionStrategies = []textStrategy{
	{
		name: "classed container",
		locate: func(s *goquery.Selection) (string, bool) {
			area := findByClass(s, "div, section, article", reDescriptionClass).First()
			if area.Length() == 0 {
				return "", false
			}
			// Clone before stripping script/style so extraction
			// never mutates the document it was given.
			cleaned := area.Clone()
			cleaned.Find("script, style").Remove()
			return blockText(cleaned), true
		},
	},
	{
		name: "main content",
		locate: func(s *goquery.Selection) (string, bool) {
			main := s.Find("main, [role=main]").First()
			if main.Length() == 0 {
				main = s.Find("div#content").First()
			}
			if main.Length() == 0 {
				return "", false
			}
			p := main.Find("p").First()
			if p.Length() == 0 {
				return "Main content found, but no <p> tag.", true
			}
			return flatText(p), true
		},
	},
}

// transportStrategies locate the transportation/access information.
var transportStrategies = []textStrategy{
	{
		name: "heading sibling",
		locate: func(s *goquery.Selection) (string, bool) {
			heading := findByText(s, "h2, h3, h4", reTransportHeading).First()
			if heading.Length() == 0 {
				return "", false
			}
			headingText := flatText(heading)

			if sib := heading.Next(); sib.Length() > 0 && sib.Is(contentBearing) {
				return blockText(sib), true
			}
			// Secondary heuristic: the content often lives one level
			// up, next to the heading's wrapper element.
			if next := heading.Parent().Next(); next.Length() > 0 && next.Is(contentBearing) {
				return blockText(next), true
			}
			return fmt.Sprintf("Found heading %q, but the surrounding structure is unclear.", headingText), true
		},
	},
	{
		name: "keyword scan",
		locate: func(s *goquery.Selection) (string, bool) {
			if reTransportKeywords.MatchString(flatText(s)) {
				return "Found transport keywords, but couldn't isolate section.", true
			}
			return "", false
		},
	},
}

// Detail extracts the description and transport fields from a detail page.
// Both fields are always populated; heuristic misses resolve to
// placeholders, never to absent values.
func (e *Extractor) Detail(doc *goquery.Document) *DetailResult {
	result := &DetailResult{
		Description: PlaceholderDescription,
		Transport:   PlaceholderTransport,
	}
	if doc == nil {
		return result
	}

	if desc, ok := e.firstMatch("description", doc.Selection, descriptionStrategies); ok {
		result.Description = desc
	}
	result.Description = TruncateDescription(result.Description)

	if transport, ok := e.firstMatch("transport", doc.Selection, transportStrategies); ok {
		result.Transport = transport
	}

	return result
}

// TruncateDescription cuts descriptions longer than 300 runes and appends
// the truncation marker. Counting runes rather than bytes keeps multibyte
// text intact. The truncated form is what gets persisted.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= maxDescriptionRunes {
		return s
	}
	return string(runes[:maxDescriptionRunes]) + truncationMarker
}
