package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/nao1215/tourcrawl/internal/model"
)

// JSONWriter outputs the collected records as a JSON array. This is the
// crawler's output contract: one object per record with the keys page,
// name, link, description, and transport.
//
// Design decision: json.Encoder with SetEscapeHTML(false) rather than
// json.MarshalIndent because the artifact must preserve non-ASCII text and
// characters like '&' literally; escaped output would be useless for the
// Korean content this crawler collects.
type JSONWriter struct {
	baseWriter

	// prefix and indent configure the encoder's indentation.
	prefix string
	indent string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent overrides the indentation. The default is four spaces.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.prefix = prefix
		w.indent = indent
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer with
// human-readable four-space indentation.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
		prefix:     "",
		indent:     "    ",
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write encodes the result's records and writes them to the output.
// The array is written even when empty; the decision not to produce an
// artifact for an empty collection belongs to the caller.
func (w *JSONWriter) Write(result *model.CrawlResult) (int, error) {
	records := result.Records
	if records == nil {
		records = []model.AttractionRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(w.prefix, w.indent)
	if err := enc.Encode(records); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
