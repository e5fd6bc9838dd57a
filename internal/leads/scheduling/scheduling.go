// Package scheduling derives the same-day appointment signal from a lead
// snapshot and builds the observation/appointment payload persisted on save.
package scheduling

import (
	"strconv"
	"strings"
	"time"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/platform/apperr"
	"leadqueue_backend/platform/datefmt"
	"leadqueue_backend/platform/sanitize"
)

// SavePayload is the persist intent produced by a successful save.
type SavePayload struct {
	LeadID          string `json:"leadId"`
	ObservationText string `json:"observacao"`
	// AppointmentDate is YYYY-MM-DD or empty.
	AppointmentDate string `json:"agendamento"`
	NewStatus       string `json:"status"`
}

// HasAppointment reports whether the payload schedules a date.
func (p SavePayload) HasAppointment() bool {
	return p.AppointmentDate != ""
}

// Signal summarizes today's appointments for the queue banner.
type Signal struct {
	HasToday bool          `json:"hasToday"`
	Today    []domain.Lead `json:"today"`
}

// Scheduler answers appointment questions relative to a clock.
type Scheduler struct {
	formatter datefmt.Formatter
	now       func() time.Time
}

// New returns a scheduler. A nil now defaults to time.Now.
func New(formatter datefmt.Formatter, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{formatter: formatter, now: now}
}

// ParseScheduledDate extracts the date of an "Agendado - DD/MM/YYYY" status.
// A missing delimiter or malformed date reports false; the lead then does not
// count toward today's appointments.
func ParseScheduledDate(status string) (time.Time, bool) {
	return domain.ScheduledDate(status)
}

// IsToday reports whether status schedules the current day. Both the parsed
// date and now go through the same day formatter and the strings are
// compared.
func (s *Scheduler) IsToday(status string) bool {
	date, ok := ParseScheduledDate(status)
	if !ok {
		return false
	}
	return s.formatter.SameDay(date, s.now())
}

// HasAppointmentToday scans the full snapshot, terminal leads included.
func (s *Scheduler) HasAppointmentToday(snapshot domain.Snapshot) bool {
	for _, lead := range snapshot {
		if s.IsToday(lead.Status) {
			return true
		}
	}
	return false
}

// AppointmentsToday returns the leads scheduled for today in snapshot order.
func (s *Scheduler) AppointmentsToday(snapshot domain.Snapshot) []domain.Lead {
	out := []domain.Lead{}
	for _, lead := range snapshot {
		if s.IsToday(lead.Status) {
			out = append(out, lead)
		}
	}
	return out
}

// Signal computes the appointment signal for snapshot.
func (s *Scheduler) Signal(snapshot domain.Snapshot) Signal {
	today := s.AppointmentsToday(snapshot)
	return Signal{HasToday: len(today) > 0, Today: today}
}

// BuildSavePayload validates an operator's observation/appointment pair.
// At least one must be present, and the note may not exceed
// sanitize.MaxObservationRunes. An appointment (YYYY-MM-DD) turns the status
// into "Agendado - DD/MM/YYYY"; otherwise the current status is kept.
func BuildSavePayload(lead domain.Lead, observationText, appointmentDate string) (SavePayload, error) {
	observation, err := sanitize.Observation(observationText)
	if err != nil {
		return SavePayload{}, apperr.Validation("observation is too long").
			WithOp("scheduling.BuildSavePayload").
			WithDetails(map[string]string{"maxLength": strconv.Itoa(sanitize.MaxObservationRunes)})
	}
	appointment := strings.TrimSpace(appointmentDate)

	if observation == "" && appointment == "" {
		return SavePayload{}, apperr.Validation("observation or appointment date is required").
			WithOp("scheduling.BuildSavePayload")
	}

	payload := SavePayload{
		LeadID:          lead.ID,
		ObservationText: observation,
		NewStatus:       lead.Status,
	}

	if appointment != "" {
		date, err := datefmt.ParseISO(appointment)
		if err != nil {
			return SavePayload{}, apperr.Validation("invalid appointment date").
				WithOp("scheduling.BuildSavePayload").
				WithDetails(map[string]string{"agendamento": appointment})
		}
		payload.AppointmentDate = datefmt.FormatISO(date)
		payload.NewStatus = domain.ScheduledStatus(date)
	}

	return payload, nil
}
