// Package notification provides event handlers for sending notifications
// in response to lead queue events. Domain modules publish events and never
// talk to mail providers directly.
package notification

import (
	"context"
	"fmt"

	"leadqueue_backend/internal/email"
	"leadqueue_backend/internal/events"
	"leadqueue_backend/platform/datefmt"
	"leadqueue_backend/platform/logger"
	"leadqueue_backend/platform/phone"
)

type Module struct {
	sender email.Sender
	phones phone.Normalizer
	log    *logger.Logger
}

func New(sender email.Sender, phones phone.Normalizer, log *logger.Logger) *Module {
	if sender == nil {
		sender = email.NoopSender{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Module{sender: sender, phones: phones, log: log}
}

// RegisterHandlers subscribes the module to the events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), m)
	bus.Subscribe(events.LeadReassigned{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.AppointmentReminderDue:
		return m.handleAppointmentReminderDue(ctx, e)
	case events.LeadReassigned:
		return m.handleLeadReassigned(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleAppointmentReminderDue(ctx context.Context, e events.AppointmentReminderDue) error {
	if e.AssigneeEmail == "" {
		m.log.Info("appointment reminder has no recipient", "lead_id", e.LeadID, "date", e.AppointmentDate)
		return nil
	}

	date, err := datefmt.ISOToBR(e.AppointmentDate)
	if err != nil {
		return fmt.Errorf("appointment reminder for %s: %w", e.LeadID, err)
	}

	reminder := email.AppointmentReminder{
		AssigneeName:    e.AssigneeName,
		LeadName:        e.LeadName,
		LeadPhone:       e.LeadPhone,
		WhatsAppURL:     m.phones.WhatsAppURL(e.LeadPhone),
		AppointmentDate: date,
		Observation:     e.Observation,
	}
	if err := m.sender.SendAppointmentReminder(ctx, e.AssigneeEmail, reminder); err != nil {
		m.log.Error("failed to send appointment reminder", "error", err, "lead_id", e.LeadID)
		return err
	}

	m.log.Info("appointment reminder sent", "lead_id", e.LeadID, "date", e.AppointmentDate)
	return nil
}

func (m *Module) handleLeadReassigned(_ context.Context, e events.LeadReassigned) error {
	assignee := "unassigned"
	if e.UserID != nil {
		assignee = *e.UserID
	}
	m.log.Info("lead reassigned", "lead_id", e.LeadID, "assignee", assignee, "operator", e.Operator)
	return nil
}
