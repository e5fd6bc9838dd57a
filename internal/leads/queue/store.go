package queue

import (
	"context"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/internal/leads/scheduling"
)

// Store is the remote lead store the queue reads from and writes to.
// Implementations report unreachable or failing backends as plain errors;
// the controller classifies them as transport failures.
type Store interface {
	FetchLeads(ctx context.Context) ([]domain.Lead, error)
	PersistStatus(ctx context.Context, leadID, status string) error
	PersistObservation(ctx context.Context, payload scheduling.SavePayload) error
	// ReassignLead sets the responsible user; a nil userID unassigns.
	ReassignLead(ctx context.Context, leadID string, userID *string) error
}
