// Package leads provides the lead queue bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"time"

	"leadqueue_backend/internal/events"
	apphttp "leadqueue_backend/internal/http"
	"leadqueue_backend/internal/leads/cache"
	"leadqueue_backend/internal/leads/handler"
	"leadqueue_backend/internal/leads/queue"
	"leadqueue_backend/internal/leads/repository"
	"leadqueue_backend/internal/scheduler"
	"leadqueue_backend/platform/config"
	"leadqueue_backend/platform/datefmt"
	"leadqueue_backend/platform/logger"
	"leadqueue_backend/platform/phone"
	"leadqueue_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Config is the configuration the leads module reads.
type Config interface {
	config.LocaleConfig
	GetLeadsCacheTTL() time.Duration
	GetReminderHour() int
}

// Deps are the shared dependencies built by the composition root. Redis and
// Reminders are optional.
type Deps struct {
	Pool      *pgxpool.Pool
	Redis     *redis.Client
	EventBus  events.Bus
	Reminders scheduler.ReminderScheduler
	Validator *validator.Validator
	Config    Config
	Log       *logger.Logger
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	registry *queue.Registry
	repo     *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(deps Deps) *Module {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	phones := phone.NewNormalizer(deps.Config.GetDefaultPhoneRegion())
	formatter := datefmt.NewFormatter(deps.Config.GetLocation())

	repo := repository.New(deps.Pool, phones)

	var store queue.Store = repo
	if deps.Redis != nil {
		store = cache.New(repo, deps.Redis, deps.Config.GetLeadsCacheTTL(), log)
	}

	registry := queue.NewRegistry(func(operator string) *queue.Controller {
		return queue.New(queue.Options{
			Operator:  operator,
			Store:     store,
			Bus:       deps.EventBus,
			Log:       log,
			Formatter: formatter,
		})
	})

	if deps.EventBus != nil && deps.Reminders != nil {
		planner := newReminderPlanner(deps.Reminders, deps.Config.GetReminderHour(), deps.Config.GetLocation(), log)
		deps.EventBus.Subscribe(events.LeadObservationSaved{}.EventName(), planner)
	}

	h := handler.New(registry, deps.Validator, phones, log)
	h.SetAssigneeLister(repo)

	return &Module{
		handler:  h,
		registry: registry,
		repo:     repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository exposes the lead store for the reminder worker.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(leadsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
