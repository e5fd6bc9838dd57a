// Package queue owns one operator's working lead queue: the snapshot, the
// active filter, the page, per-lead edit sessions and the in-flight guards
// around the remote store.
package queue

import (
	"context"
	"sync"
	"time"

	"leadqueue_backend/internal/events"
	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/internal/leads/filter"
	"leadqueue_backend/internal/leads/pagination"
	"leadqueue_backend/internal/leads/scheduling"
	"leadqueue_backend/internal/leads/session"
	"leadqueue_backend/platform/apperr"
	"leadqueue_backend/platform/datefmt"
	"leadqueue_backend/platform/logger"
)

const (
	opRefresh  = "refresh"
	opStatus   = "status"
	opSave     = "save"
	opReassign = "reassign"
)

// Options configures a Controller.
type Options struct {
	Operator  string
	Store     Store
	Bus       events.Bus
	Log       *logger.Logger
	Formatter datefmt.Formatter
	// Now defaults to time.Now.
	Now func() time.Time
}

// Controller is safe for concurrent use. Calls to the Store are made without
// holding the state lock; a second refresh, or a second write for the same
// lead, fails with a conflict while the first is outstanding.
type Controller struct {
	operator  string
	store     Store
	bus       events.Bus
	log       *logger.Logger
	now       func() time.Time
	engine    *filter.Engine
	scheduler *scheduling.Scheduler
	sessions  *session.Store

	loadOnce sync.Once
	loadErr  error

	mu         sync.Mutex
	snapshot   domain.Snapshot
	selection  filter.Selection
	pager      *pagination.Pager
	filtered   []domain.Lead
	signal     scheduling.Signal
	refreshing bool
	// reload is set when a write lands while a refresh is in flight; the
	// in-flight refresh fetches again before installing anything.
	reload   bool
	saving   map[string]bool
	notice   *Notice
	loadedAt time.Time
}

// New creates a controller with an empty snapshot. Call Refresh to load it.
func New(opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logger.Nop()
	}

	return &Controller{
		operator:  opts.Operator,
		store:     opts.Store,
		bus:       opts.Bus,
		log:       opts.Log.WithUserID(opts.Operator),
		now:       opts.Now,
		engine:    filter.NewEngine(opts.Formatter),
		scheduler: scheduling.New(opts.Formatter, opts.Now),
		sessions:  session.NewStore(),
		selection: filter.None(),
		pager:     pagination.NewPager(),
		filtered:  []domain.Lead{},
		saving:    make(map[string]bool),
	}
}

// Operator returns the operator this controller belongs to.
func (c *Controller) Operator() string {
	return c.operator
}

// EnsureLoaded performs the first load of the snapshot. Only the first call
// fetches; concurrent callers block until that load has finished and all see
// its result.
func (c *Controller) EnsureLoaded(ctx context.Context) error {
	c.loadOnce.Do(func() {
		c.loadErr = c.Refresh(ctx)
	})
	return c.loadErr
}

// Refresh fetches a new snapshot and replaces the current one in a single
// step. On failure the stale snapshot stays in place and a notice is set.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.refreshing {
		c.mu.Unlock()
		return apperr.Conflict("refresh already in progress").WithOp("queue.Refresh")
	}
	c.refreshing = true
	c.reload = false
	c.mu.Unlock()

	for {
		start := time.Now()
		leads, err := c.store.FetchLeads(ctx)

		c.mu.Lock()
		if c.reload {
			c.reload = false
			c.mu.Unlock()
			continue
		}
		err = c.installLocked(leads, err, start)
		c.mu.Unlock()
		return err
	}
}

func (c *Controller) installLocked(leads []domain.Lead, fetchErr error, start time.Time) error {
	c.refreshing = false
	c.reload = false

	if fetchErr != nil {
		c.log.TransportFailure(opRefresh, "", fetchErr)
		c.setNoticeLocked(opRefresh, "", "could not load leads; showing the last loaded data")
		return transportError("queue.Refresh", "failed to fetch leads", fetchErr)
	}

	c.snapshot = domain.Snapshot(leads).Clone()
	c.loadedAt = c.now()
	c.sessions.Rebuild(c.snapshot)
	c.recomputeLocked()
	if c.notice != nil && c.notice.Operation == opRefresh {
		c.notice = nil
	}

	c.log.SnapshotRefreshed(c.operator, len(c.snapshot), time.Since(start))
	return nil
}

// ApplyFilter replaces the active selection and returns to page 1.
func (c *Controller) ApplyFilter(sel filter.Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = sel
	c.pager.Reset()
	c.recomputeLocked()
}

// NextPage moves forward one page, stopping at the last page.
func (c *Controller) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pager.Next()
}

// PrevPage moves back one page, stopping at page 1.
func (c *Controller) PrevPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pager.Prev()
}

// View returns the current page and everything rendered around it.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	page := c.pager.Slice(c.filtered)
	rows := make([]Row, 0, len(page))
	for _, lead := range page {
		st, _ := c.sessions.Get(lead.ID)
		rows = append(rows, Row{Lead: lead, Session: st, Saving: c.saving[lead.ID]})
	}

	var notice *Notice
	if c.notice != nil {
		n := *c.notice
		notice = &n
	}

	return View{
		Rows:            rows,
		Page:            c.pager.Page(),
		Filter:          FilterState{Kind: c.selection.Kind(), Value: c.selection.Value()},
		Appointments:    c.signal,
		Refreshing:      c.refreshing,
		HasUnsavedEdits: c.sessions.HasUnsavedEdits(),
		Notice:          notice,
		LoadedAt:        c.loadedAt,
	}
}

// Lead returns a lead of the current snapshot with its edit state.
func (c *Controller) Lead(id string) (Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lead, err := c.leadLocked(id, "queue.Lead")
	if err != nil {
		return Row{}, err
	}
	st, _ := c.sessions.Get(id)
	return Row{Lead: lead, Session: st, Saving: c.saving[id]}, nil
}

// Unlock resets the lead to New so its status can be chosen again.
func (c *Controller) Unlock(ctx context.Context, id string) error {
	c.mu.Lock()
	lead, err := c.leadLocked(id, "queue.Unlock")
	if err != nil {
		c.mu.Unlock()
		return err
	}
	intent := domain.Unlock(lead)
	return c.persistStatus(ctx, lead, intent, "queue.Unlock")
}

// ConfirmStatus persists an operator's status choice.
func (c *Controller) ConfirmStatus(ctx context.Context, id, status string) error {
	c.mu.Lock()
	lead, err := c.leadLocked(id, "queue.ConfirmStatus")
	if err != nil {
		c.mu.Unlock()
		return err
	}
	intent, err := domain.Confirm(lead, status)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	return c.persistStatus(ctx, lead, intent, "queue.ConfirmStatus")
}

// persistStatus is entered with c.mu held and releases it.
func (c *Controller) persistStatus(ctx context.Context, lead domain.Lead, intent domain.StatusIntent, op string) error {
	if err := c.beginWriteLocked(lead.ID, op); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	err := c.store.PersistStatus(ctx, intent.LeadID, intent.Status)
	if err := c.endWrite(lead.ID, opStatus, err); err != nil {
		return transportError(op, "failed to persist status", err)
	}

	c.publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		OldStatus: lead.Status,
		NewStatus: intent.Status,
		Operator:  c.operator,
	})
	c.refreshAfterWrite(ctx)
	return nil
}

// Alter enters editing mode for the lead's observation.
func (c *Controller) Alter(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.leadLocked(id, "queue.Alter"); err != nil {
		return err
	}
	return c.sessions.Alter(id)
}

// SetDraft stores the operator's unsaved observation and appointment.
func (c *Controller) SetDraft(id, observation, appointment string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.leadLocked(id, "queue.SetDraft"); err != nil {
		return err
	}
	return c.sessions.SetDraft(id, observation, appointment)
}

// Save persists the lead's drafts. Validation failures change nothing. A
// transport failure keeps the session in editing mode.
func (c *Controller) Save(ctx context.Context, id string) (scheduling.SavePayload, error) {
	c.mu.Lock()
	lead, err := c.leadLocked(id, "queue.Save")
	if err != nil {
		c.mu.Unlock()
		return scheduling.SavePayload{}, err
	}
	st, _ := c.sessions.Get(id)
	payload, err := scheduling.BuildSavePayload(lead, st.DraftObservation, st.DraftAppointment)
	if err != nil {
		c.mu.Unlock()
		return scheduling.SavePayload{}, err
	}
	if err := c.beginWriteLocked(id, "queue.Save"); err != nil {
		c.mu.Unlock()
		return scheduling.SavePayload{}, err
	}
	c.mu.Unlock()

	err = c.store.PersistObservation(ctx, payload)
	if err := c.endWrite(id, opSave, err); err != nil {
		return scheduling.SavePayload{}, transportError("queue.Save", "failed to save observation", err)
	}

	if err := c.sessions.MarkSaved(id, payload.ObservationText); err != nil {
		return scheduling.SavePayload{}, err
	}

	c.publish(ctx, events.LeadObservationSaved{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          id,
		Observation:     payload.ObservationText,
		AppointmentDate: payload.AppointmentDate,
		NewStatus:       payload.NewStatus,
		Operator:        c.operator,
	})
	c.refreshAfterWrite(ctx)
	return payload, nil
}

// Reassign sets the responsible user of a lead; nil unassigns it.
func (c *Controller) Reassign(ctx context.Context, id string, userID *string) error {
	c.mu.Lock()
	if _, err := c.leadLocked(id, "queue.Reassign"); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.beginWriteLocked(id, "queue.Reassign"); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	err := c.store.ReassignLead(ctx, id, userID)
	if err := c.endWrite(id, opReassign, err); err != nil {
		return transportError("queue.Reassign", "failed to reassign lead", err)
	}

	c.publish(ctx, events.LeadReassigned{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		UserID:    userID,
		Operator:  c.operator,
	})
	c.refreshAfterWrite(ctx)
	return nil
}

// HasUnsavedEdits reports whether any lead has drafts that differ from the
// persisted values while being edited.
func (c *Controller) HasUnsavedEdits() bool {
	return c.sessions.HasUnsavedEdits()
}

// Subscribe registers fn for flips of the unsaved-edits flag. fn runs
// synchronously and must not call back into the controller.
func (c *Controller) Subscribe(fn session.Observer) func() {
	return c.sessions.Subscribe(fn)
}

// RequestLeave reports whether the view may be closed. With unsaved edits
// the decision is delegated to confirm; a nil confirm cancels.
func (c *Controller) RequestLeave(confirm func() bool) bool {
	if !c.sessions.HasUnsavedEdits() {
		return true
	}
	return confirm != nil && confirm()
}

// DismissNotice clears the current failure notice.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
}

func (c *Controller) recomputeLocked() {
	now := c.now()
	c.filtered = pagination.Sort(c.engine.Apply(c.snapshot, c.selection, now))
	c.pager.Recompute(len(c.filtered))
	c.signal = c.scheduler.Signal(c.snapshot)
}

func (c *Controller) leadLocked(id, op string) (domain.Lead, error) {
	lead, ok := c.snapshot.Find(id)
	if !ok {
		return domain.Lead{}, apperr.NotFound("lead not found").WithOp(op).WithDetails(map[string]string{"leadId": id})
	}
	return lead, nil
}

func (c *Controller) beginWriteLocked(id, op string) error {
	if c.saving[id] {
		return apperr.Conflict("a save for this lead is already in progress").
			WithOp(op).
			WithDetails(map[string]string{"leadId": id})
	}
	c.saving[id] = true
	return nil
}

// endWrite clears the in-flight flag and records a notice when the write
// failed. It returns err unchanged.
func (c *Controller) endWrite(id, operation string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.saving, id)
	if err != nil {
		c.log.TransportFailure(operation, id, err)
		c.setNoticeLocked(operation, id, "could not save changes; please try again")
	}
	return err
}

// refreshAfterWrite reloads the snapshot after a successful write. When a
// refresh is already in flight its fetch may predate the write, so it is told
// to fetch again instead. A failed reload only leaves a notice; the write
// itself already succeeded.
func (c *Controller) refreshAfterWrite(ctx context.Context) {
	c.mu.Lock()
	if c.refreshing {
		c.reload = true
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	if err := c.Refresh(ctx); err != nil && !apperr.Is(err, apperr.KindConflict) {
		c.log.Warn("refresh after write failed", "error", err)
	}
}

// publish hands the event to asynchronous subscribers, which outlive the
// request that caused it.
func (c *Controller) publish(ctx context.Context, event events.Event) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(context.WithoutCancel(ctx), event)
}

func (c *Controller) setNoticeLocked(operation, leadID, message string) {
	c.notice = &Notice{Operation: operation, LeadID: leadID, Message: message, At: c.now()}
}

// transportError classifies a store failure. Typed errors from the store
// (for example an unknown user on reassign) keep their kind.
func transportError(op, message string, err error) error {
	if apperr.GetKind(err) != apperr.KindUnknown {
		return err
	}
	return apperr.Transport(message, err).WithOp(op)
}
