package report

import (
	"io"

	"github.com/nao1215/tourcrawl/internal/model"
)

// Writer outputs a crawl result in some format.
//
// Design decision: an interface rather than concrete functions so the same
// result can go to files, stdout, or multiple destinations with one API.
type Writer interface {
	// Write outputs the result. Returns the number of bytes written and
	// any error encountered.
	Write(result *model.CrawlResult) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously, useful for
// outputting to both a file and the terminal.
//
// Design decision: a separate type rather than io.MultiWriter because our
// Writer consumes crawl results, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to every configured Writer, stopping on the
// first error. Returns the total bytes written.
func (m *MultiWriter) Write(result *model.CrawlResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
