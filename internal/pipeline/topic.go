package pipeline

import (
	"regexp"
	"strings"
)

var stopWords = map[string]bool{
	"learn":        true,
	"build":        true,
	"explore":      true,
	"intro":        true,
	"advanced":     true,
	"basics":       true,
	"fundamentals": true,
}

var separators = regexp.MustCompile(`[,\s&]+`)

// Topic derives the search topic for a step title: the first lower-cased
// word that is longer than two characters and not a stop word. Failing
// that, the second space-separated word of the original title, and failing
// that, the whole title.
//
//	"Learn HTML, CSS, JS"      -> "html"
//	"Intro to Machine Learning" -> "machine"
//	"Advanced Go"               -> "Go"
func Topic(title string) string {
	for _, w := range separators.Split(strings.ToLower(title), -1) {
		if len(w) > 2 && !stopWords[w] {
			return w
		}
	}
	if parts := strings.Split(title, " "); len(parts) > 1 && parts[1] != "" {
		return parts[1]
	}
	return title
}
