// Package filter narrows a lead snapshot down to the working queue.
package filter

import (
	"strings"
	"time"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/platform/datefmt"
	"leadqueue_backend/platform/textnorm"
)

// Kind tags the active variant of a Selection.
type Kind string

const (
	KindNone   Kind = "none"
	KindName   Kind = "name"
	KindMonth  Kind = "month"
	KindStatus Kind = "status"
)

// ScheduledTodayTag is the synthetic status tag matching every lead
// scheduled for the current day.
const ScheduledTodayTag = domain.StatusScheduledPrefix

// Selection is the single active filter. The zero value selects nothing.
// Build it through None, ByName, ByMonth or ByStatus so at most one value
// is ever set.
type Selection struct {
	kind  Kind
	value string
}

// None passes every non-terminal lead.
func None() Selection { return Selection{kind: KindNone} }

// ByName keeps leads whose normalized name contains text.
func ByName(text string) Selection { return Selection{kind: KindName, value: text} }

// ByMonth keeps leads created in month (yyyy-mm).
func ByMonth(month string) Selection { return Selection{kind: KindMonth, value: month} }

// ByStatus keeps leads with exactly status, or scheduled for today when
// status is ScheduledTodayTag.
func ByStatus(status string) Selection { return Selection{kind: KindStatus, value: status} }

// Kind returns the active variant.
func (s Selection) Kind() Kind {
	if s.kind == "" {
		return KindNone
	}
	return s.kind
}

// Value returns the variant's argument ("" for None).
func (s Selection) Value() string {
	if s.Kind() == KindNone {
		return ""
	}
	return s.value
}

// Engine applies a Selection. Today decides the synthetic scheduled tag.
type Engine struct {
	formatter datefmt.Formatter
}

// NewEngine returns an engine comparing days through formatter.
func NewEngine(formatter datefmt.Formatter) *Engine {
	return &Engine{formatter: formatter}
}

// Apply drops terminal leads, then keeps those matching sel. The input
// order is preserved and the snapshot itself is not modified.
func (e *Engine) Apply(snapshot domain.Snapshot, sel Selection, now time.Time) []domain.Lead {
	out := make([]domain.Lead, 0, len(snapshot))
	match := e.matcher(sel, now)
	for _, lead := range snapshot {
		if domain.IsTerminal(lead.Status) {
			continue
		}
		if match(lead) {
			out = append(out, lead)
		}
	}
	return out
}

func (e *Engine) matcher(sel Selection, now time.Time) func(domain.Lead) bool {
	value := sel.Value()

	switch sel.Kind() {
	case KindName:
		needle := textnorm.Normalize(value)
		if needle == "" {
			return matchAll
		}
		return func(lead domain.Lead) bool {
			return strings.Contains(textnorm.Normalize(lead.Name), needle)
		}
	case KindMonth:
		if value == "" {
			return matchAll
		}
		return func(lead domain.Lead) bool {
			return datefmt.Month(lead.CreatedAt) == value
		}
	case KindStatus:
		if value == ScheduledTodayTag {
			return func(lead domain.Lead) bool {
				return e.scheduledToday(lead.Status, now)
			}
		}
		return func(lead domain.Lead) bool {
			return lead.Status == value
		}
	default:
		return matchAll
	}
}

func (e *Engine) scheduledToday(status string, now time.Time) bool {
	if !strings.HasPrefix(status, domain.StatusScheduledPrefix+" -") {
		return false
	}
	date, ok := domain.ScheduledDate(status)
	if !ok {
		return false
	}
	return e.formatter.SameDay(date, now)
}

func matchAll(domain.Lead) bool { return true }
