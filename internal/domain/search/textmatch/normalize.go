// Package textmatch normalizes free text into comparable word tokens and scores
// a query against a sound's tag set.
package textmatch

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// suffixes are tried in order; the first one that fits is stripped.
var suffixes = []string{"s", "es", "ing", "ed"}

// minStemMargin is how many characters a token needs beyond the suffix length
// before that suffix may be stripped.
const minStemMargin = 2

// NormalizeWords splits text on runs of whitespace and commas, lowercases each token
// and strips at most one suffix. Order and duplicates are preserved.
func NormalizeWords(text string) []string {
	fields := strings.FieldsFunc(text, isSeparator)
	if len(fields) == 0 {
		return nil
	}
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		words = append(words, Stem(strings.ToLower(f)))
	}
	return words
}

// Stem strips the first matching suffix from an already lowercased token when the
// token is longer than len(suffix)+2 characters.
func Stem(word string) string {
	n := utf8.RuneCountInString(word)
	for _, suffix := range suffixes {
		if strings.HasSuffix(word, suffix) && n > len(suffix)+minStemMargin {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}
