// Package textnorm provides accent, case and punctuation insensitive text
// matching for name search.
// This is part of the platform layer and contains no business logic.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctuation is replaced by a space before whitespace is collapsed, so
// "Dos-Santos" still matches "dos santos".
const punctuation = ".,;:!?-_'\"()[]{}/\\|@#*+&%"

var punctuationReplacer = buildPunctuationReplacer()

func buildPunctuationReplacer() *strings.Replacer {
	pairs := make([]string, 0, len(punctuation)*2)
	for _, r := range punctuation {
		pairs = append(pairs, string(r), " ")
	}
	return strings.NewReplacer(pairs...)
}

// Normalize lowercases s, strips diacritics, replaces the fixed punctuation
// set with spaces and collapses whitespace.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	stripped, _, err := transform.String(newStripper(), s)
	if err != nil {
		stripped = s
	}

	lowered := strings.ToLower(stripped)
	spaced := punctuationReplacer.Replace(lowered)
	return strings.Join(strings.Fields(spaced), " ")
}

// Contains reports whether the normalized needle is a substring of the
// normalized haystack. An empty needle matches everything.
func Contains(haystack, needle string) bool {
	n := Normalize(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), n)
}

// newStripper builds a fresh chain per call; transform.Transformer values
// carry state and must not be shared across goroutines.
func newStripper() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
