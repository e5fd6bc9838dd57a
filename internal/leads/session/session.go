// Package session keeps per-lead draft state for the observation and
// appointment editors and the aggregate unsaved-edits flag.
package session

import (
	"strings"
	"sync"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/platform/apperr"
)

// State is the derived edit state of one lead. The appointment draft starts
// empty; a stored appointment is only replaced when the operator picks a new
// date.
type State struct {
	LeadID             string `json:"leadId"`
	DraftObservation   string `json:"draftObservacao"`
	DraftAppointment   string `json:"draftAgendamento"`
	EditingObservation bool   `json:"editingObservacao"`
	Locked             bool   `json:"locked"`
}

// Dirty reports whether the lead counts toward the unsaved-edits flag. An
// open observation editor counts even before anything is typed, and so does
// a picked appointment date.
func (s State) Dirty() bool {
	return s.EditingObservation || strings.TrimSpace(s.DraftAppointment) != ""
}

// Observer receives the aggregate unsaved-edits flag whenever it flips.
type Observer func(hasUnsaved bool)

// Store holds exactly one State per lead id of the current snapshot.
type Store struct {
	mu        sync.Mutex
	states    map[string]*State
	observers map[int]Observer
	nextID    int
	lastDirty bool
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		states:    make(map[string]*State),
		observers: make(map[int]Observer),
	}
}

func newState(lead domain.Lead) *State {
	return &State{
		LeadID:             lead.ID,
		DraftObservation:   lead.Observacao,
		EditingObservation: strings.TrimSpace(lead.Observacao) == "",
		Locked:             domain.IsLocked(lead.Status),
	}
}

// Rebuild derives state from a new snapshot. Records for ids that left the
// snapshot are dropped. A record whose editor is open, or that holds a picked
// appointment, keeps its drafts and editing flag when its id is still
// present; everything else is derived afresh.
func (s *Store) Rebuild(snapshot domain.Snapshot) {
	s.mu.Lock()
	next := make(map[string]*State, len(snapshot))
	for _, lead := range snapshot {
		fresh := newState(lead)
		if prev, ok := s.states[lead.ID]; ok && prev.Dirty() {
			fresh.DraftObservation = prev.DraftObservation
			fresh.DraftAppointment = prev.DraftAppointment
			fresh.EditingObservation = prev.EditingObservation || fresh.EditingObservation
		}
		next[lead.ID] = fresh
	}
	s.states = next
	s.mu.Unlock()

	s.notify()
}

// Get returns a copy of the state for id.
func (s *Store) Get(id string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[id]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Alter enters editing mode for an existing note.
func (s *Store) Alter(id string) error {
	s.mu.Lock()
	st, ok := s.states[id]
	if !ok {
		s.mu.Unlock()
		return notFound(id, "session.Alter")
	}
	st.EditingObservation = true
	s.mu.Unlock()

	s.notify()
	return nil
}

// SetDraft updates the drafts for id. The observation draft only changes
// while the observation is being edited; the appointment draft always does.
func (s *Store) SetDraft(id, observation, appointment string) error {
	s.mu.Lock()
	st, ok := s.states[id]
	if !ok {
		s.mu.Unlock()
		return notFound(id, "session.SetDraft")
	}
	if st.EditingObservation {
		st.DraftObservation = observation
	}
	st.DraftAppointment = appointment
	s.mu.Unlock()

	s.notify()
	return nil
}

// MarkSaved leaves editing mode after a successful save and takes the saved
// observation as the current draft.
func (s *Store) MarkSaved(id, observation string) error {
	s.mu.Lock()
	st, ok := s.states[id]
	if !ok {
		s.mu.Unlock()
		return notFound(id, "session.MarkSaved")
	}
	st.EditingObservation = false
	st.DraftObservation = observation
	st.DraftAppointment = ""
	s.mu.Unlock()

	s.notify()
	return nil
}

// HasUnsavedEdits reports whether any lead is in editing mode or holds a
// picked appointment date.
func (s *Store) HasUnsavedEdits() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

// Subscribe registers fn for flips of the aggregate flag. It returns a
// function that removes the subscription.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Len returns the number of tracked leads.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}

func (s *Store) dirtyLocked() bool {
	for _, st := range s.states {
		if st.Dirty() {
			return true
		}
	}
	return false
}

// notify runs observers synchronously, outside the lock, when the aggregate
// flag changed since the last notification.
func (s *Store) notify() {
	s.mu.Lock()
	dirty := s.dirtyLocked()
	if dirty == s.lastDirty {
		s.mu.Unlock()
		return
	}
	s.lastDirty = dirty
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(dirty)
	}
}

func notFound(id, op string) error {
	return apperr.NotFound("lead not found").WithOp(op).WithDetails(map[string]string{"leadId": id})
}
