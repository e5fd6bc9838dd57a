package leads

import (
	"context"
	"time"

	"leadqueue_backend/internal/events"
	"leadqueue_backend/internal/scheduler"
	"leadqueue_backend/platform/logger"
)

// reminderPlanner enqueues an appointment reminder whenever a save carries
// an appointment date.
type reminderPlanner struct {
	scheduler scheduler.ReminderScheduler
	hour      int
	loc       *time.Location
	now       func() time.Time
	log       *logger.Logger
}

func newReminderPlanner(s scheduler.ReminderScheduler, hour int, loc *time.Location, log *logger.Logger) *reminderPlanner {
	return &reminderPlanner{scheduler: s, hour: hour, loc: loc, now: time.Now, log: log}
}

func (p *reminderPlanner) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadObservationSaved)
	if !ok || e.AppointmentDate == "" {
		return nil
	}

	runAt, ok := scheduler.ReminderRunAt(e.AppointmentDate, p.hour, p.loc, p.now())
	if !ok {
		p.log.Info("appointment reminder not scheduled", "lead_id", e.LeadID, "date", e.AppointmentDate)
		return nil
	}

	payload := scheduler.AppointmentReminderPayload{LeadID: e.LeadID, AppointmentDate: e.AppointmentDate}
	if err := p.scheduler.ScheduleAppointmentReminder(ctx, payload, runAt); err != nil {
		p.log.Error("failed to schedule appointment reminder", "error", err, "lead_id", e.LeadID)
		return err
	}
	return nil
}
