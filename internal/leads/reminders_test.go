package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"leadqueue_backend/internal/events"
	"leadqueue_backend/internal/scheduler"
	"leadqueue_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduledReminder struct {
	payload scheduler.AppointmentReminderPayload
	runAt   time.Time
}

type fakeReminderScheduler struct {
	calls []scheduledReminder
	err   error
}

func (f *fakeReminderScheduler) ScheduleAppointmentReminder(_ context.Context, payload scheduler.AppointmentReminderPayload, runAt time.Time) error {
	f.calls = append(f.calls, scheduledReminder{payload: payload, runAt: runAt})
	return f.err
}

func newTestPlanner(s scheduler.ReminderScheduler) *reminderPlanner {
	p := newReminderPlanner(s, 8, time.UTC, logger.Nop())
	p.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestReminderPlannerSchedulesAppointments(t *testing.T) {
	fake := &fakeReminderScheduler{}
	p := newTestPlanner(fake)

	err := p.Handle(context.Background(), events.LeadObservationSaved{LeadID: "l1", AppointmentDate: "2025-03-12"})
	require.NoError(t, err)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "l1", fake.calls[0].payload.LeadID)
	assert.True(t, fake.calls[0].runAt.Equal(time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)))
}

func TestReminderPlannerIgnoresNotesAndPastDates(t *testing.T) {
	fake := &fakeReminderScheduler{}
	p := newTestPlanner(fake)

	require.NoError(t, p.Handle(context.Background(), events.LeadObservationSaved{LeadID: "l1", Observation: "ok"}))
	require.NoError(t, p.Handle(context.Background(), events.LeadObservationSaved{LeadID: "l1", AppointmentDate: "2025-03-01"}))
	require.NoError(t, p.Handle(context.Background(), events.LeadStatusChanged{LeadID: "l1"}))
	assert.Empty(t, fake.calls)
}

func TestReminderPlannerPropagatesErrors(t *testing.T) {
	fake := &fakeReminderScheduler{err: errors.New("redis down")}
	p := newTestPlanner(fake)

	err := p.Handle(context.Background(), events.LeadObservationSaved{LeadID: "l1", AppointmentDate: "2025-03-12"})
	assert.Error(t, err)
}
