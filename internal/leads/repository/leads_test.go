package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"leadqueue_backend/platform/apperr"
	"leadqueue_backend/platform/phone"
)

func TestLeadRowToDomain(t *testing.T) {
	id := uuid.New()
	assignee := uuid.New()
	name := "Paula"
	created := time.Date(2025, 3, 1, 13, 4, 5, 0, time.FixedZone("BRT", -3*3600))
	appointment := time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)

	lead := leadRow{
		ID:            id,
		Name:          "João",
		Phone:         "(11) 98765-4321",
		Status:        "Agendado - 05/01/2025",
		Agendamento:   &appointment,
		ResponsavelID: &assignee,
		Responsavel:   &name,
		CreatedAt:     &created,
	}.toDomain(phone.NewNormalizer("BR"))

	if lead.ID != id.String() || lead.ResponsavelID != assignee.String() || lead.Responsavel != "Paula" {
		t.Fatalf("unexpected identity fields %+v", lead)
	}
	if lead.CreatedAt != "2025-03-01T16:04:05Z" {
		t.Fatalf("unexpected createdAt %q", lead.CreatedAt)
	}
	if lead.Agendamento != "2025-01-05" {
		t.Fatalf("unexpected agendamento %q", lead.Agendamento)
	}
	if lead.Telefone != "+5511987654321" {
		t.Fatalf("unexpected telefone %q", lead.Telefone)
	}
}

func TestLeadRowToDomainNullables(t *testing.T) {
	lead := leadRow{ID: uuid.New(), Name: "Sem data"}.toDomain(phone.NewNormalizer("BR"))
	if lead.CreatedAt != "" || lead.Agendamento != "" || lead.Responsavel != "" || lead.ResponsavelID != "" {
		t.Fatalf("expected empty optional fields, got %+v", lead)
	}
}

func TestParseLeadID(t *testing.T) {
	if _, err := parseLeadID("not-a-uuid", "op"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	id := uuid.New()
	got, err := parseLeadID(id.String(), "op")
	if err != nil || got != id {
		t.Fatalf("parseLeadID = %v, %v", got, err)
	}
}
