// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadqueue_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadStatusChanged is published after a status intent was persisted.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    string `json:"leadId"`
	OldStatus string `json:"oldStatus"`
	NewStatus string `json:"newStatus"`
	Operator  string `json:"operator"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// LeadObservationSaved is published after an observation/appointment payload
// was persisted. AppointmentDate is YYYY-MM-DD or empty.
type LeadObservationSaved struct {
	BaseEvent
	LeadID          string `json:"leadId"`
	Observation     string `json:"observacao"`
	AppointmentDate string `json:"agendamento,omitempty"`
	NewStatus       string `json:"newStatus"`
	Operator        string `json:"operator"`
}

func (e LeadObservationSaved) EventName() string { return "leads.lead.observation_saved" }

// LeadReassigned is published after a lead's responsible user changed.
// UserID is nil when the lead was unassigned.
type LeadReassigned struct {
	BaseEvent
	LeadID   string  `json:"leadId"`
	UserID   *string `json:"userId,omitempty"`
	Operator string  `json:"operator"`
}

func (e LeadReassigned) EventName() string { return "leads.lead.reassigned" }

// =============================================================================
// Scheduling Domain Events
// =============================================================================

// AppointmentReminderDue is published by the reminder worker on the morning
// of a scheduled appointment.
type AppointmentReminderDue struct {
	BaseEvent
	LeadID          string `json:"leadId"`
	LeadName        string `json:"leadName"`
	LeadPhone       string `json:"leadPhone,omitempty"`
	AppointmentDate string `json:"agendamento"`
	Observation     string `json:"observacao,omitempty"`
	AssigneeName    string `json:"assigneeName,omitempty"`
	AssigneeEmail   string `json:"assigneeEmail,omitempty"`
}

func (e AppointmentReminderDue) EventName() string { return "scheduling.appointment.reminder_due" }
