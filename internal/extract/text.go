package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// flatText returns the selection's text with whitespace runs collapsed to
// single spaces. The result is NFC-normalized: Korean and other scripts
// arrive in a mix of composed and decomposed forms depending on the CMS,
// and records should compare equal regardless.
func flatText(s *goquery.Selection) string {
	return norm.NFC.String(strings.Join(strings.Fields(s.Text()), " "))
}

// blockText returns the selection's text with each text segment trimmed
// and segments joined by newlines. This preserves the visual line
// structure of description blocks instead of running paragraphs together.
func blockText(s *goquery.Selection) string {
	var parts []string
	for _, n := range s.Nodes {
		collectText(n, &parts)
	}
	return norm.NFC.String(strings.Join(parts, "\n"))
}

// collectText walks n depth-first appending collapsed text segments.
func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// classMatches reports whether the selection's class attribute matches re.
// Elements without a class attribute never match.
func classMatches(s *goquery.Selection, re *regexp.Regexp) bool {
	class, _ := s.Attr("class")
	return re.MatchString(class)
}

// findByClass finds descendants of root matching selector whose class
// attribute matches re.
func findByClass(root *goquery.Selection, selector string, re *regexp.Regexp) *goquery.Selection {
	return root.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return classMatches(s, re)
	})
}

// findByText finds descendants of root matching selector whose collapsed
// text matches re.
func findByText(root *goquery.Selection, selector string, re *regexp.Regexp) *goquery.Selection {
	return root.Find(selector).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return re.MatchString(flatText(s))
	})
}
