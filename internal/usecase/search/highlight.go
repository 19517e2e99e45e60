package search

import "regexp"

// highlighter wraps case-insensitive occurrences of the literal query string
// in <em> markers. Compiled once per search request.
type highlighter struct {
	pattern *regexp.Regexp
}

func newHighlighter(q string) highlighter {
	return highlighter{
		pattern: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(q)),
	}
}

// apply marks every match in text, preserving the original casing of the
// matched span. A pure vector hit may legitimately produce zero highlights.
func (h highlighter) apply(text string) string {
	if text == "" {
		return ""
	}
	return h.pattern.ReplaceAllString(text, "<em>$0</em>")
}
