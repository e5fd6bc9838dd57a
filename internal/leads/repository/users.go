package repository

import (
	"context"

	"github.com/google/uuid"
)

// Assignee is the user responsible for a lead.
type Assignee struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// UserExists reports whether a user with id exists.
func (r *Repository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListAssignees returns the users a lead can be assigned to.
func (r *Repository) ListAssignees(ctx context.Context) ([]Assignee, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, email FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]Assignee, 0)
	for rows.Next() {
		var a Assignee
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return nil, err
		}
		items = append(items, a)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
