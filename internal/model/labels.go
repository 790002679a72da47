package model

import (
	"strings"
	"unicode"
)

var acronyms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"sku":  "SKU",
	"api":  "API",
	"html": "HTML",
}

// DefaultLabeler turns a property name into a label: "featuredImageId"
// becomes "Featured image ID", "created_at" becomes "Created at".
func DefaultLabeler(name string) string {
	words := splitWords(name)
	for i, word := range words {
		lower := strings.ToLower(word)
		switch {
		case acronyms[lower] != "":
			words[i] = acronyms[lower]
		case i == 0:
			runes := []rune(lower)
			runes[0] = unicode.ToUpper(runes[0])
			words[i] = string(runes)
		default:
			words[i] = lower
		}
	}
	return strings.Join(words, " ")
}

// splitWords breaks on separators, lower-to-upper transitions and
// letter/digit boundaries.
func splitWords(name string) []string {
	var (
		words   []string
		current []rune
		prev    rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r) || r == '.':
			flush()
			prev = 0
			continue
		case prev != 0 && unicode.IsLower(prev) && unicode.IsUpper(r),
			prev != 0 && unicode.IsLetter(prev) && unicode.IsDigit(r),
			prev != 0 && unicode.IsDigit(prev) && unicode.IsLetter(r):
			flush()
		}
		current = append(current, r)
		prev = r
	}
	flush()
	return words
}
