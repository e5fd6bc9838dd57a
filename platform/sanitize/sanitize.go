// Package sanitize normalizes operator-typed free text before it is persisted.
// Text is stored as typed; escaping is left to whatever renders it.
package sanitize

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxObservationRunes bounds the length of a lead observation.
const MaxObservationRunes = 4000

// ErrObservationTooLong is returned for notes longer than MaxObservationRunes
// after normalization.
var ErrObservationTooLong = errors.New("observation too long")

var (
	trailingSpaceRe   = regexp.MustCompile(`[ \t]+\n`)
	blankLineRunRegex = regexp.MustCompile(`\n{3,}`)
)

// Observation prepares a lead note for storage: line endings are unified,
// trailing blanks and long runs of empty lines removed and the result
// trimmed. Notes over MaxObservationRunes are rejected, never cut.
func Observation(s string) (string, error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = trailingSpaceRe.ReplaceAllString(s, "\n")
	s = blankLineRunRegex.ReplaceAllString(s, "\n\n")
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) > MaxObservationRunes {
		return "", ErrObservationTooLong
	}
	return s, nil
}
