package domain

import (
	"strings"
	"time"

	"leadqueue_backend/platform/datefmt"
)

const (
	// StatusNewEmpty is how leads that were never classified arrive.
	StatusNewEmpty  = ""
	StatusNew       = "Novo"
	StatusInContact = "Em Contato"
	StatusNoContact = "Sem Contato"
	StatusClosed    = "Fechado"
	StatusLost      = "Perdido"

	// StatusScheduledPrefix starts every scheduled status. A concrete
	// scheduled status is "Agendado - DD/MM/YYYY".
	StatusScheduledPrefix = "Agendado"
	// ScheduledDelimiter separates the prefix from the date.
	ScheduledDelimiter = " - "

	// StatusPlaceholder is the selector's "nothing chosen" entry.
	StatusPlaceholder = "Selecione"
)

// lockingStatuses render a read-only selector until explicitly unlocked.
var lockingStatuses = map[string]bool{
	StatusInContact: true,
	StatusNoContact: true,
	StatusClosed:    true,
	StatusLost:      true,
}

// terminalStatuses never appear in the working queue.
var terminalStatuses = map[string]bool{
	StatusClosed: true,
	StatusLost:   true,
}

// selectableStatuses are the plain statuses an operator can confirm.
var selectableStatuses = map[string]bool{
	StatusNew:       true,
	StatusInContact: true,
	StatusNoContact: true,
	StatusClosed:    true,
	StatusLost:      true,
}

// IsLocked reports whether the status selector of a lead is read-only.
// It is the only lock predicate; lock state is always derived from status.
func IsLocked(status string) bool {
	return lockingStatuses[status] || strings.HasPrefix(status, StatusScheduledPrefix)
}

// IsTerminal reports whether status is exactly Closed or Lost.
func IsTerminal(status string) bool {
	return terminalStatuses[status]
}

// IsNew reports whether status is one of the two spellings of New.
func IsNew(status string) bool {
	return status == StatusNewEmpty || status == StatusNew
}

// ScheduledStatus builds "Agendado - DD/MM/YYYY" for a calendar date.
func ScheduledStatus(date time.Time) string {
	return StatusScheduledPrefix + ScheduledDelimiter + datefmt.FormatBR(date)
}

// ScheduledDate extracts the date of a scheduled status. It reports false
// when status is not scheduled, lacks the delimiter or carries a malformed
// date; such leads take no part in appointment computations.
func ScheduledDate(status string) (time.Time, bool) {
	if !strings.HasPrefix(status, StatusScheduledPrefix) {
		return time.Time{}, false
	}
	idx := strings.Index(status, ScheduledDelimiter)
	if idx < 0 {
		return time.Time{}, false
	}
	date, err := datefmt.ParseBR(status[idx+len(ScheduledDelimiter):])
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

// SelectableStatuses lists the plain statuses in selector order.
func SelectableStatuses() []string {
	return []string{StatusNew, StatusInContact, StatusNoContact, StatusClosed, StatusLost}
}
