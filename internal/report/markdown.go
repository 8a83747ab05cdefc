package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/tourcrawl/internal/model"
)

// maxCellRunes caps the description column so record tables stay readable.
const maxCellRunes = 80

// MarkdownWriter outputs a human-readable run summary in Markdown.
//
// Design decision: the nao1215/markdown library gives type-safe tables and
// GitHub-flavored output without hand-assembled pipe strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary followed by the collected records.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeSummary(md, result)
	w.writeRecords(md, result)

	return len(md.String()), md.Build()
}

// writeSummary writes the run metadata table.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, result *model.CrawlResult) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", "`" + result.StartURL + "`"},
			{"Base origin", "`" + result.BaseURL + "`"},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Duration().Round(time.Second).String()},
			{"Pages crawled", strconv.Itoa(result.PagesCrawled)},
			{"Records collected", strconv.Itoa(len(result.Records))},
			{"Items skipped", strconv.Itoa(result.ItemsSkipped)},
			{"Stop reason", string(result.StopReason)},
		},
	})
	md.PlainText("")
}

// writeRecords writes one table row per collected attraction.
func (w *MarkdownWriter) writeRecords(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Attractions")
	md.PlainText("")

	if !result.HasRecords() {
		md.PlainText("No attractions were collected in this run.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(result.Records))
	for _, rec := range result.Records {
		rows = append(rows, []string{
			strconv.Itoa(rec.Page),
			cell(rec.Name),
			"[link](" + rec.Link + ")",
			cell(rec.Description),
			cell(rec.Transport),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Page", "Name", "Link", "Description", "Transport"},
		Rows:   rows,
	})
	md.PlainText("")
}

// cell flattens newlines and caps the length so multi-line descriptions do
// not break the table layout.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= maxCellRunes {
		return s
	}
	return string(runes[:maxCellRunes]) + "…"
}
