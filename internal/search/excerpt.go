// ABOUTME: Query-aware excerpt selection for search results.
// ABOUTME: Slides a fixed window over the text and keeps the one covering the most query words.
package search

import (
	"strings"
	"unicode"
)

const (
	DefaultExcerptLength = 200
	RecentExcerptLength  = 150

	excerptStep = 20
	ellipsis    = "..."
)

// GenerateExcerpt returns up to maxLength characters of text. With an empty
// query it is a plain prefix. Otherwise the window, moved in 20-character
// steps, that contains the most distinct query words wins; the earliest
// window wins ties. Ellipses mark text cut from either end.
func GenerateExcerpt(text, query string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultExcerptLength
	}
	runes := []rune(text)

	if strings.TrimSpace(query) == "" {
		if len(runes) <= maxLength {
			return text
		}
		return string(runes[:maxLength]) + ellipsis
	}

	words := distinctWords(query)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	best, bestScore := 0, 0
	for i := 0; i <= len(runes)-maxLength; i += excerptStep {
		if score := windowScore(string(lower[i:i+maxLength]), words); score > bestScore {
			best, bestScore = i, score
		}
	}

	end := min(best+maxLength, len(runes))
	excerpt := string(runes[best:end])
	if best > 0 {
		excerpt = ellipsis + excerpt
	}
	if best+maxLength < len(runes) {
		excerpt += ellipsis
	}
	return excerpt
}

// distinctWords lower-cases and whitespace-splits query, dropping repeats.
func distinctWords(query string) []string {
	seen := make(map[string]bool)
	var words []string
	for _, w := range strings.Fields(strings.Map(unicode.ToLower, query)) {
		if !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}

func windowScore(window string, words []string) int {
	score := 0
	for _, w := range words {
		if strings.Contains(window, w) {
			score++
		}
	}
	return score
}
