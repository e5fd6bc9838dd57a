package transport

import (
	"time"

	"leadqueue_backend/internal/leads/pagination"
	"leadqueue_backend/internal/leads/queue"
	"leadqueue_backend/internal/leads/scheduling"
	"leadqueue_backend/platform/phone"
)

// Filter kinds accepted by ApplyFilterRequest.
const (
	FilterNone   = "none"
	FilterName   = "name"
	FilterMonth  = "month"
	FilterStatus = "status"
)

type ApplyFilterRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=none name month status"`
	Value string `json:"value" validate:"max=200"`
}

type ConfirmStatusRequest struct {
	Status string `json:"status" validate:"required,max=40"`
}

type DraftRequest struct {
	Observacao  string `json:"observacao" validate:"max=8000"`
	Agendamento string `json:"agendamento" validate:"omitempty,datetime=2006-01-02"`
}

type ReassignRequest struct {
	UserID OptionalUUID `json:"userId"`
}

type LeadResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Status            string `json:"status"`
	CreatedAt         string `json:"createdAt"`
	Observacao        string `json:"observacao"`
	Agendamento       string `json:"agendamento"`
	Responsavel       string `json:"responsavel"`
	ResponsavelID     string `json:"responsavelId,omitempty"`
	Telefone          string `json:"telefone,omitempty"`
	WhatsAppURL       string `json:"whatsappUrl,omitempty"`
	Locked            bool   `json:"locked"`
	EditingObservacao bool   `json:"editingObservacao"`
	DraftObservacao   string `json:"draftObservacao"`
	DraftAgendamento  string `json:"draftAgendamento"`
	Saving            bool   `json:"saving"`
}

type AgendaItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	Responsavel string `json:"responsavel"`
	WhatsAppURL string `json:"whatsappUrl,omitempty"`
}

type AppointmentsResponse struct {
	HasToday bool         `json:"hasToday"`
	Today    []AgendaItem `json:"today"`
}

type FilterResponse struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type NoticeResponse struct {
	Operation string    `json:"operation"`
	LeadID    string    `json:"leadId,omitempty"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

type QueueResponse struct {
	Leads           []LeadResponse       `json:"leads"`
	Page            pagination.Page      `json:"page"`
	Filter          FilterResponse       `json:"filter"`
	Appointments    AppointmentsResponse `json:"appointments"`
	Statuses        []string             `json:"statuses"`
	Refreshing      bool                 `json:"refreshing"`
	HasUnsavedEdits bool                 `json:"hasUnsavedEdits"`
	Notice          *NoticeResponse      `json:"notice,omitempty"`
	LoadedAt        *time.Time           `json:"loadedAt,omitempty"`
}

type UnsavedResponse struct {
	HasUnsavedEdits bool `json:"hasUnsavedEdits"`
}

type SaveResponse struct {
	Payload scheduling.SavePayload `json:"payload"`
	Queue   QueueResponse          `json:"queue"`
}

// ToLeadResponse flattens a queue row.
func ToLeadResponse(row queue.Row, phones phone.Normalizer) LeadResponse {
	lead := row.Lead
	return LeadResponse{
		ID:                lead.ID,
		Name:              lead.Name,
		Status:            lead.Status,
		CreatedAt:         lead.CreatedAt,
		Observacao:        lead.Observacao,
		Agendamento:       lead.Agendamento,
		Responsavel:       lead.Responsavel,
		ResponsavelID:     lead.ResponsavelID,
		Telefone:          lead.Telefone,
		WhatsAppURL:       phones.WhatsAppURL(lead.Telefone),
		Locked:            row.Session.Locked,
		EditingObservacao: row.Session.EditingObservation,
		DraftObservacao:   row.Session.DraftObservation,
		DraftAgendamento:  row.Session.DraftAppointment,
		Saving:            row.Saving,
	}
}

// ToQueueResponse renders a controller view.
func ToQueueResponse(v queue.View, statuses []string, phones phone.Normalizer) QueueResponse {
	leads := make([]LeadResponse, 0, len(v.Rows))
	for _, row := range v.Rows {
		leads = append(leads, ToLeadResponse(row, phones))
	}

	agenda := make([]AgendaItem, 0, len(v.Appointments.Today))
	for _, lead := range v.Appointments.Today {
		agenda = append(agenda, AgendaItem{
			ID:          lead.ID,
			Name:        lead.Name,
			Status:      lead.Status,
			Responsavel: lead.Responsavel,
			WhatsAppURL: phones.WhatsAppURL(lead.Telefone),
		})
	}

	resp := QueueResponse{
		Leads:           leads,
		Page:            v.Page,
		Filter:          FilterResponse{Kind: string(v.Filter.Kind), Value: v.Filter.Value},
		Appointments:    AppointmentsResponse{HasToday: v.Appointments.HasToday, Today: agenda},
		Statuses:        statuses,
		Refreshing:      v.Refreshing,
		HasUnsavedEdits: v.HasUnsavedEdits,
	}
	if v.Notice != nil {
		resp.Notice = &NoticeResponse{
			Operation: v.Notice.Operation,
			LeadID:    v.Notice.LeadID,
			Message:   v.Notice.Message,
			At:        v.Notice.At,
		}
	}
	if !v.LoadedAt.IsZero() {
		loaded := v.LoadedAt
		resp.LoadedAt = &loaded
	}
	return resp
}

type AssigneeResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
