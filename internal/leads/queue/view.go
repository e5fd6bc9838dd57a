package queue

import (
	"time"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/internal/leads/filter"
	"leadqueue_backend/internal/leads/pagination"
	"leadqueue_backend/internal/leads/scheduling"
	"leadqueue_backend/internal/leads/session"
)

// Notice is a dismissible failure message shown above stale data.
type Notice struct {
	Operation string    `json:"operation"`
	LeadID    string    `json:"leadId,omitempty"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

// Row is one lead on the current page together with its edit state.
type Row struct {
	Lead    domain.Lead
	Session session.State
	Saving  bool
}

// FilterState mirrors the active selection.
type FilterState struct {
	Kind  filter.Kind `json:"kind"`
	Value string      `json:"value"`
}

// View is a consistent read of the controller state.
type View struct {
	Rows            []Row
	Page            pagination.Page
	Filter          FilterState
	Appointments    scheduling.Signal
	Refreshing      bool
	HasUnsavedEdits bool
	Notice          *Notice
	LoadedAt        time.Time
}
