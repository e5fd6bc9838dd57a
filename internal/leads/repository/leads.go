package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/internal/leads/scheduling"
	"leadqueue_backend/platform/apperr"
	"leadqueue_backend/platform/datefmt"
)

const (
	activityStatus      = "status_changed"
	activityObservation = "observation_saved"
	activityReassign    = "reassigned"
)

type phoneNormalizer interface {
	NormalizeE164(input string) string
}

type leadRow struct {
	ID            uuid.UUID
	Name          string
	Phone         string
	Status        string
	Observacao    string
	Agendamento   *time.Time
	ResponsavelID *uuid.UUID
	Responsavel   *string
	CreatedAt     *time.Time
}

func (r leadRow) toDomain(phone phoneNormalizer) domain.Lead {
	lead := domain.Lead{
		ID:         r.ID.String(),
		Name:       r.Name,
		Status:     r.Status,
		Observacao: r.Observacao,
		Telefone:   phone.NormalizeE164(r.Phone),
	}
	if r.CreatedAt != nil {
		lead.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	if r.Agendamento != nil {
		lead.Agendamento = datefmt.FormatISO(*r.Agendamento)
	}
	if r.ResponsavelID != nil {
		lead.ResponsavelID = r.ResponsavelID.String()
	}
	if r.Responsavel != nil {
		lead.Responsavel = *r.Responsavel
	}
	return lead
}

const selectLeads = `
	SELECT l.id, l.name, l.phone, l.status, l.observacao, l.agendamento,
		l.responsavel_id, u.name, l.created_at
	FROM leads l
	LEFT JOIN users u ON u.id = l.responsavel_id`

func scanLead(row pgx.Row) (leadRow, error) {
	var r leadRow
	err := row.Scan(&r.ID, &r.Name, &r.Phone, &r.Status, &r.Observacao, &r.Agendamento,
		&r.ResponsavelID, &r.Responsavel, &r.CreatedAt)
	return r, err
}

// FetchLeads returns every lead, newest first.
func (r *Repository) FetchLeads(ctx context.Context) ([]domain.Lead, error) {
	rows, err := r.pool.Query(ctx, selectLeads+` ORDER BY l.created_at DESC NULLS LAST`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Lead, 0)
	for rows.Next() {
		row, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, row.toDomain(r.phone))
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

// GetLead returns one lead.
func (r *Repository) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	leadID, err := parseLeadID(id, "repository.GetLead")
	if err != nil {
		return domain.Lead{}, err
	}

	row, err := scanLead(r.pool.QueryRow(ctx, selectLeads+` WHERE l.id = $1`, leadID))
	if err == pgx.ErrNoRows {
		return domain.Lead{}, notFound(id, "repository.GetLead")
	}
	if err != nil {
		return domain.Lead{}, err
	}
	return row.toDomain(r.phone), nil
}

// PersistStatus stores a new status and records the change.
func (r *Repository) PersistStatus(ctx context.Context, id, status string) error {
	leadID, err := parseLeadID(id, "repository.PersistStatus")
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var old string
		err := tx.QueryRow(ctx, `SELECT status FROM leads WHERE id = $1 FOR UPDATE`, leadID).Scan(&old)
		if err == pgx.ErrNoRows {
			return notFound(id, "repository.PersistStatus")
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `
			UPDATE leads SET status = $2, updated_at = now() WHERE id = $1
		`, leadID, status); err != nil {
			return err
		}
		return addActivity(ctx, tx, leadID, activityStatus, old, status)
	})
}

// PersistObservation stores the note and, when present, the appointment date
// together with the status the payload carries. An empty appointment keeps
// the stored one.
func (r *Repository) PersistObservation(ctx context.Context, payload scheduling.SavePayload) error {
	leadID, err := parseLeadID(payload.LeadID, "repository.PersistObservation")
	if err != nil {
		return err
	}

	var appointment *time.Time
	if payload.HasAppointment() {
		date, err := datefmt.ParseISO(payload.AppointmentDate)
		if err != nil {
			return apperr.Validation("invalid appointment date").WithOp("repository.PersistObservation")
		}
		appointment = &date
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE leads
			SET observacao = $2,
				agendamento = COALESCE($3, agendamento),
				status = $4,
				updated_at = now()
			WHERE id = $1
		`, leadID, payload.ObservationText, appointment, payload.NewStatus)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return notFound(payload.LeadID, "repository.PersistObservation")
		}
		return addActivity(ctx, tx, leadID, activityObservation, "", payload.NewStatus)
	})
}

// ReassignLead sets or clears the responsible user.
func (r *Repository) ReassignLead(ctx context.Context, id string, userID *string) error {
	leadID, err := parseLeadID(id, "repository.ReassignLead")
	if err != nil {
		return err
	}

	var assignee *uuid.UUID
	if userID != nil && strings.TrimSpace(*userID) != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(*userID))
		if err != nil {
			return apperr.Validation("invalid user id").WithOp("repository.ReassignLead")
		}
		exists, err := r.UserExists(ctx, parsed)
		if err != nil {
			return err
		}
		if !exists {
			return apperr.Validation("unknown user").
				WithOp("repository.ReassignLead").
				WithDetails(map[string]string{"userId": parsed.String()})
		}
		assignee = &parsed
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE leads SET responsavel_id = $2, updated_at = now() WHERE id = $1
		`, leadID, assignee)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return notFound(id, "repository.ReassignLead")
		}
		newValue := ""
		if assignee != nil {
			newValue = assignee.String()
		}
		return addActivity(ctx, tx, leadID, activityReassign, "", newValue)
	})
}

func addActivity(ctx context.Context, tx pgx.Tx, leadID uuid.UUID, action, oldValue, newValue string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO lead_activity (lead_id, action, old_value, new_value)
		VALUES ($1, $2, $3, $4)
	`, leadID, action, oldValue, newValue)
	return err
}
