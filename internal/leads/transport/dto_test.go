package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/internal/leads/filter"
	"leadqueue_backend/internal/leads/pagination"
	"leadqueue_backend/internal/leads/queue"
	"leadqueue_backend/internal/leads/scheduling"
	"leadqueue_backend/internal/leads/session"
	"leadqueue_backend/platform/phone"
)

func TestOptionalUUID(t *testing.T) {
	id := uuid.New()

	var req ReassignRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &req))
	assert.False(t, req.UserID.Set)

	req = ReassignRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"userId":null}`), &req))
	assert.True(t, req.UserID.Set)
	assert.Nil(t, req.UserID.StringPtr())

	req = ReassignRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"userId":"`+id.String()+`"}`), &req))
	require.NotNil(t, req.UserID.StringPtr())
	assert.Equal(t, id.String(), *req.UserID.StringPtr())

	req = ReassignRequest{}
	assert.Error(t, json.Unmarshal([]byte(`{"userId":"nope"}`), &req))
}

func TestToQueueResponse(t *testing.T) {
	phones := phone.NewNormalizer("BR")
	loaded := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	today := domain.Lead{ID: "b", Name: "Bia", Status: "Agendado - 10/03/2025", Telefone: "11987654321"}

	view := queue.View{
		Rows: []queue.Row{{
			Lead:    domain.Lead{ID: "a", Name: "Ana", Status: domain.StatusInContact, Telefone: "+5511987654321"},
			Session: session.State{LeadID: "a", Locked: true, DraftObservation: "oi", EditingObservation: true},
			Saving:  true,
		}},
		Page:         pagination.Page{Index: 1, Size: pagination.PageSize, TotalPages: 1, TotalItems: 1},
		Filter:       queue.FilterState{Kind: filter.KindName, Value: "ana"},
		Appointments: scheduling.Signal{HasToday: true, Today: []domain.Lead{today}},
		Notice:       &queue.Notice{Operation: "refresh", Message: "falhou"},
		LoadedAt:     loaded,
	}

	resp := ToQueueResponse(view, domain.SelectableStatuses(), phones)

	require.Len(t, resp.Leads, 1)
	lead := resp.Leads[0]
	assert.True(t, lead.Locked)
	assert.True(t, lead.Saving)
	assert.True(t, lead.EditingObservacao)
	assert.Equal(t, "oi", lead.DraftObservacao)
	assert.Equal(t, "https://wa.me/5511987654321", lead.WhatsAppURL)

	assert.Equal(t, "name", resp.Filter.Kind)
	require.Len(t, resp.Appointments.Today, 1)
	assert.Equal(t, "https://wa.me/5511987654321", resp.Appointments.Today[0].WhatsAppURL)
	require.NotNil(t, resp.Notice)
	assert.Equal(t, "refresh", resp.Notice.Operation)
	require.NotNil(t, resp.LoadedAt)
	assert.True(t, loaded.Equal(*resp.LoadedAt))
}

func TestToQueueResponseEmptyView(t *testing.T) {
	resp := ToQueueResponse(queue.View{}, nil, phone.NewNormalizer("BR"))

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"leads":[]`)
	assert.NotContains(t, string(data), "notice")
	assert.NotContains(t, string(data), "loadedAt")
}
