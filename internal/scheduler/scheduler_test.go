package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadqueue_backend/internal/events"
	"leadqueue_backend/internal/leads/repository"
	"leadqueue_backend/platform/apperr"
)

func TestReminderRunAt(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)

	tests := []struct {
		name   string
		date   string
		now    time.Time
		want   time.Time
		wantOK bool
	}{
		{"future day", "2025-03-12", time.Date(2025, 3, 10, 15, 0, 0, 0, loc), time.Date(2025, 3, 12, 8, 0, 0, 0, loc), true},
		{"same day before hour", "2025-03-10", time.Date(2025, 3, 10, 7, 0, 0, 0, loc), time.Date(2025, 3, 10, 8, 0, 0, 0, loc), true},
		{"same day after hour", "2025-03-10", time.Date(2025, 3, 10, 15, 0, 0, 0, loc), time.Date(2025, 3, 10, 15, 0, 0, 0, loc), true},
		{"past day", "2025-03-09", time.Date(2025, 3, 10, 15, 0, 0, 0, loc), time.Time{}, false},
		{"malformed", "10/03/2025", time.Date(2025, 3, 10, 15, 0, 0, 0, loc), time.Time{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ReminderRunAt(tc.date, 8, loc, tc.now)
			assert.Equal(t, tc.wantOK, ok)
			assert.True(t, tc.want.Equal(got), "got %v want %v", got, tc.want)
		})
	}
}

func TestReminderTaskRoundTrip(t *testing.T) {
	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{LeadID: "l1", AppointmentDate: "2025-03-12"})
	require.NoError(t, err)
	assert.Equal(t, TaskAppointmentReminder, task.Type())

	payload, err := ParseAppointmentReminderPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "l1", payload.LeadID)
	assert.Equal(t, "reminder:l1:2025-03-12", reminderTaskID(payload))
}

type fakeReader struct {
	target repository.ReminderTarget
	err    error
}

func (f fakeReader) GetReminderTarget(context.Context, string) (repository.ReminderTarget, error) {
	return f.target, f.err
}

func runReminder(t *testing.T, reader fakeReader, date string) ([]events.AppointmentReminderDue, error) {
	t.Helper()
	bus := events.NewInMemoryBus(nil)
	var got []events.AppointmentReminderDue
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), events.HandlerFunc(func(_ context.Context, e events.Event) error {
		got = append(got, e.(events.AppointmentReminderDue))
		return nil
	}))

	w := newWorker(reader, bus, nil)
	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{LeadID: "l1", AppointmentDate: date})
	require.NoError(t, err)

	err = w.handleAppointmentReminder(context.Background(), task)
	bus.Wait()
	return got, err
}

func TestHandleAppointmentReminder(t *testing.T) {
	reader := fakeReader{target: repository.ReminderTarget{
		LeadID:        "l1",
		LeadName:      "Ana",
		Status:        "Agendado - 12/03/2025",
		AssigneeEmail: "vendas@example.com",
	}}

	got, err := runReminder(t, reader, "2025-03-12")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Ana", got[0].LeadName)
	assert.Equal(t, "vendas@example.com", got[0].AssigneeEmail)

	got, err = runReminder(t, reader, "2025-03-11")
	require.NoError(t, err)
	assert.Empty(t, got)

	reader.target.Status = "Em Contato"
	got, err = runReminder(t, reader, "2025-03-12")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHandleAppointmentReminderErrors(t *testing.T) {
	_, err := runReminder(t, fakeReader{err: errors.New("db down")}, "2025-03-12")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)

	_, err = runReminder(t, fakeReader{err: apperr.NotFound("lead not found")}, "2025-03-12")
	assert.ErrorIs(t, err, asynq.SkipRetry)

	w := newWorker(fakeReader{}, nil, nil)
	err = w.handleAppointmentReminder(context.Background(), asynq.NewTask(TaskAppointmentReminder, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleAppointmentReminderRetriesOnHandlerError(t *testing.T) {
	bus := events.NewInMemoryBus(nil)
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), events.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("smtp down")
	}))

	w := newWorker(fakeReader{target: repository.ReminderTarget{LeadID: "l1", Status: "Agendado - 12/03/2025"}}, bus, nil)
	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{LeadID: "l1", AppointmentDate: "2025-03-12"})
	require.NoError(t, err)

	assert.Error(t, w.handleAppointmentReminder(context.Background(), task))
}
