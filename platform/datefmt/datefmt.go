// Package datefmt converts between the two date layouts used by the lead
// queue (DD/MM/YYYY for display and statuses, YYYY-MM-DD for storage) and
// compares calendar days through a location-bound formatter.
// This is part of the platform layer and contains no business logic.
package datefmt

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	// LayoutBR is the display layout used inside statuses.
	LayoutBR = "02/01/2006"
	// LayoutISO is the storage layout of appointment dates.
	LayoutISO = "2006-01-02"
)

// ErrParse reports a malformed date. Callers in the lead queue treat it as
// "does not match" and never surface it.
var ErrParse = errors.New("datefmt: malformed date")

var (
	brPattern  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	isoPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	LayoutISO,
}

// ParseBR parses a DD/MM/YYYY calendar date as midnight UTC.
func ParseBR(value string) (time.Time, error) {
	return parseStrict(value, LayoutBR, brPattern)
}

// ParseISO parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseISO(value string) (time.Time, error) {
	return parseStrict(value, LayoutISO, isoPattern)
}

func parseStrict(value, layout string, pattern *regexp.Regexp) (time.Time, error) {
	value = strings.TrimSpace(value)
	if !pattern.MatchString(value) {
		return time.Time{}, ErrParse
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return time.Time{}, ErrParse
	}
	return t, nil
}

// FormatBR formats the calendar date of t as DD/MM/YYYY without zone conversion.
func FormatBR(t time.Time) string {
	return t.Format(LayoutBR)
}

// FormatISO formats the calendar date of t as YYYY-MM-DD without zone conversion.
func FormatISO(t time.Time) string {
	return t.Format(LayoutISO)
}

// ISOToBR converts "2025-01-05" into "05/01/2025".
func ISOToBR(value string) (string, error) {
	t, err := ParseISO(value)
	if err != nil {
		return "", err
	}
	return FormatBR(t), nil
}

// BRToISO converts "05/01/2025" into "2025-01-05".
func BRToISO(value string) (string, error) {
	t, err := ParseBR(value)
	if err != nil {
		return "", err
	}
	return FormatISO(t), nil
}

// Month returns the yyyy-mm prefix of a createdAt value, or "" when the
// value is too short to carry one.
func Month(createdAt string) string {
	createdAt = strings.TrimSpace(createdAt)
	if len(createdAt) < 7 {
		return ""
	}
	return createdAt[:7]
}

// ParseTimestamp parses the ISO-ish createdAt values found in lead snapshots.
// Empty or unparsable values yield the zero time.
func ParseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Formatter renders instants as DD/MM/YYYY in a fixed location.
type Formatter struct {
	loc *time.Location
}

// NewFormatter returns a formatter bound to loc (time.Local when nil).
func NewFormatter(loc *time.Location) Formatter {
	if loc == nil {
		loc = time.Local
	}
	return Formatter{loc: loc}
}

// Location returns the formatter's location.
func (f Formatter) Location() *time.Location {
	if f.loc == nil {
		return time.Local
	}
	return f.loc
}

// Day formats t as DD/MM/YYYY in the formatter's location.
func (f Formatter) Day(t time.Time) string {
	return t.In(f.Location()).Format(LayoutBR)
}

// CalendarDay formats a parsed calendar date (midnight UTC from ParseBR or
// ParseISO) through the formatter. The date is re-anchored in the
// formatter's location first so both sides of a comparison go through the
// same formatting path.
func (f Formatter) CalendarDay(date time.Time) string {
	anchored := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, f.Location())
	return f.Day(anchored)
}

// SameDay reports whether the calendar date and the instant now fall on the
// same formatted day.
func (f Formatter) SameDay(date, now time.Time) bool {
	return f.CalendarDay(date) == f.Day(now)
}
