package search

import (
	"math"
	"strings"
)

// Lexical scoring weights. An exact substring hit in the title outranks one in
// the body; partial word-overlap hits are discounted the same way.
const (
	titleSubstringScore = 0.9
	bodySubstringScore  = 0.6
	titleWordWeight     = 0.7
	bodyWordWeight      = 0.4

	// minWordLength excludes stop-like short tokens from word-overlap scoring.
	minWordLength = 3
)

// scoreLexical computes the lexical relevance of an entry against a query.
// Always returns a finite value in [0,1].
func scoreLexical(title, body, q string) float64 {
	titleLower := strings.ToLower(title)
	bodyLower := strings.ToLower(body)
	queryLower := strings.ToLower(q)

	if strings.Contains(titleLower, queryLower) {
		return titleSubstringScore
	}
	if strings.Contains(bodyLower, queryLower) {
		return bodySubstringScore
	}

	queryWords := qualifyingWords(queryLower)
	if len(queryWords) == 0 {
		return 0
	}

	titleWords := strings.Fields(titleLower)
	bodyWords := strings.Fields(bodyLower)

	var titleMatches, bodyMatches int
	for _, qw := range queryWords {
		if anyWordContains(titleWords, qw) {
			titleMatches++
		}
		if anyWordContains(bodyWords, qw) {
			bodyMatches++
		}
	}

	total := float64(len(queryWords))
	return math.Max(
		float64(titleMatches)/total*titleWordWeight,
		float64(bodyMatches)/total*bodyWordWeight,
	)
}

// qualifyingWords returns the whitespace-delimited query tokens long enough to
// participate in word-overlap scoring.
func qualifyingWords(queryLower string) []string {
	var words []string
	for _, w := range strings.Fields(queryLower) {
		if len(w) >= minWordLength {
			words = append(words, w)
		}
	}
	return words
}

func anyWordContains(words []string, sub string) bool {
	for _, w := range words {
		if strings.Contains(w, sub) {
			return true
		}
	}
	return false
}
