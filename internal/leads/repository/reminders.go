package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// ReminderTarget is what the reminder worker needs to notify the assignee of
// an appointment.
type ReminderTarget struct {
	LeadID        string
	LeadName      string
	LeadPhone     string
	Status        string
	Observation   string
	Appointment   string
	AssigneeName  string
	AssigneeEmail string
}

// GetReminderTarget loads a lead with its assignee's contact details.
func (r *Repository) GetReminderTarget(ctx context.Context, id string) (ReminderTarget, error) {
	leadID, err := parseLeadID(id, "repository.GetReminderTarget")
	if err != nil {
		return ReminderTarget{}, err
	}

	var (
		t           ReminderTarget
		appointment *string
		name, email *string
	)
	err = r.pool.QueryRow(ctx, `
		SELECT l.name, l.phone, l.status, l.observacao, to_char(l.agendamento, 'YYYY-MM-DD'),
			u.name, u.email
		FROM leads l
		LEFT JOIN users u ON u.id = l.responsavel_id
		WHERE l.id = $1
	`, leadID).Scan(&t.LeadName, &t.LeadPhone, &t.Status, &t.Observation, &appointment, &name, &email)
	if err == pgx.ErrNoRows {
		return ReminderTarget{}, notFound(id, "repository.GetReminderTarget")
	}
	if err != nil {
		return ReminderTarget{}, err
	}

	t.LeadID = leadID.String()
	if appointment != nil {
		t.Appointment = *appointment
	}
	if name != nil {
		t.AssigneeName = *name
	}
	if email != nil {
		t.AssigneeEmail = *email
	}
	t.LeadPhone = r.phone.NormalizeE164(t.LeadPhone)
	return t, nil
}
