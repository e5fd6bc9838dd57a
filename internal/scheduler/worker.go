package scheduler

import (
	"context"
	"fmt"

	"leadqueue_backend/internal/events"
	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/internal/leads/repository"
	"leadqueue_backend/platform/apperr"
	"leadqueue_backend/platform/config"
	"leadqueue_backend/platform/datefmt"
	"leadqueue_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// ReminderTargetReader loads what a reminder needs about a lead.
type ReminderTargetReader interface {
	GetReminderTarget(ctx context.Context, leadID string) (repository.ReminderTarget, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	repo   ReminderTargetReader
	bus    events.Bus
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, repo ReminderTargetReader, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		Logger: asynqLogger{log: log},
	})

	w := newWorker(repo, bus, log)
	w.server = server
	return w, nil
}

func newWorker(repo ReminderTargetReader, bus events.Bus, log *logger.Logger) *Worker {
	if log == nil {
		log = logger.Nop()
	}
	mux := asynq.NewServeMux()
	w := &Worker{
		mux:  mux,
		repo: repo,
		bus:  bus,
		log:  log,
	}
	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)
	return w
}

func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
		return err
	}
	return nil
}

// handleAppointmentReminder publishes AppointmentReminderDue unless the lead
// changed status since the reminder was planned. Handler errors make asynq
// retry the task.
func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	target, err := w.repo.GetReminderTarget(ctx, payload.LeadID)
	if apperr.Is(err, apperr.KindNotFound) {
		w.log.Info("appointment reminder dropped; lead no longer exists", "lead_id", payload.LeadID)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if err != nil {
		return err
	}

	if !stillScheduled(target.Status, payload.AppointmentDate) {
		w.log.Info("appointment reminder skipped", "lead_id", payload.LeadID, "status", target.Status)
		return nil
	}

	if w.bus == nil {
		return nil
	}

	return w.bus.PublishSync(ctx, events.AppointmentReminderDue{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          target.LeadID,
		LeadName:        target.LeadName,
		LeadPhone:       target.LeadPhone,
		AppointmentDate: payload.AppointmentDate,
		Observation:     target.Observation,
		AssigneeName:    target.AssigneeName,
		AssigneeEmail:   target.AssigneeEmail,
	})
}

func stillScheduled(status, appointmentDate string) bool {
	date, ok := domain.ScheduledDate(status)
	if !ok {
		return false
	}
	return datefmt.FormatISO(date) == appointmentDate
}

type asynqLogger struct {
	log *logger.Logger
}

func (l asynqLogger) Debug(args ...interface{}) { l.log.Debug(fmt.Sprint(args...)) }
func (l asynqLogger) Info(args ...interface{})  { l.log.Info(fmt.Sprint(args...)) }
func (l asynqLogger) Warn(args ...interface{})  { l.log.Warn(fmt.Sprint(args...)) }
func (l asynqLogger) Error(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
func (l asynqLogger) Fatal(args ...interface{}) { l.log.Error(fmt.Sprint(args...)) }
