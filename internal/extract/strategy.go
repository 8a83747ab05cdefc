package extract

import "github.com/PuerkitoBio/goquery"

// textStrategy is one named attempt at locating a text field within a
// selection. It reports whether it matched; a match with an empty string
// is still a match (the element existed but carried no text).
type textStrategy struct {
	// name identifies the strategy in debug logs.
	name string

	// locate inspects the selection and returns the field value.
	locate func(s *goquery.Selection) (string, bool)
}

// firstMatch runs the strategies in order and returns the first success.
// The winning strategy's name is logged at debug level so a verbose run
// shows exactly which heuristic carried each field.
func (e *Extractor) firstMatch(field string, s *goquery.Selection, strategies []textStrategy) (string, bool) {
	for _, st := range strategies {
		if v, ok := st.locate(s); ok {
			e.logger.Debug("field resolved", "field", field, "strategy", st.name)
			return v, true
		}
	}
	return "", false
}
