package domain

import (
	"strings"

	"leadqueue_backend/platform/apperr"
)

// StatusIntent asks the lead store to persist a new status for a lead.
type StatusIntent struct {
	LeadID string
	Status string
	// Locked is the selector lock the new status implies once persisted.
	Locked bool
}

// Unlock resets a lead to New so the operator can reclassify it. The prior
// status is discarded rather than restored.
func Unlock(lead Lead) StatusIntent {
	return StatusIntent{LeadID: lead.ID, Status: StatusNew, Locked: IsLocked(StatusNew)}
}

// Confirm validates an operator's status choice for lead.
func Confirm(lead Lead, newStatus string) (StatusIntent, error) {
	newStatus = strings.TrimSpace(newStatus)
	if newStatus == "" || newStatus == StatusPlaceholder {
		return StatusIntent{}, apperr.Validation("select a status before confirming").WithOp("domain.Confirm")
	}
	if !isConfirmable(newStatus) {
		return StatusIntent{}, apperr.Validation("unknown status").
			WithOp("domain.Confirm").
			WithDetails(map[string]string{"status": newStatus})
	}
	return StatusIntent{LeadID: lead.ID, Status: newStatus, Locked: IsLocked(newStatus)}, nil
}

func isConfirmable(status string) bool {
	if selectableStatuses[status] {
		return true
	}
	_, ok := ScheduledDate(status)
	return ok
}
