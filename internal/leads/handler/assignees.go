package handler

import (
	"context"

	"leadqueue_backend/internal/leads/repository"
	"leadqueue_backend/internal/leads/transport"
	"leadqueue_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// AssigneeLister lists the users a lead can be reassigned to.
type AssigneeLister interface {
	ListAssignees(ctx context.Context) ([]repository.Assignee, error)
}

// SetAssigneeLister enables GET /assignees.
func (h *Handler) SetAssigneeLister(lister AssigneeLister) { h.assignees = lister }

func (h *Handler) ListAssignees(c *gin.Context) {
	if h.assignees == nil {
		httpkit.OK(c, []transport.AssigneeResponse{})
		return
	}

	items, err := h.assignees.ListAssignees(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]transport.AssigneeResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, transport.AssigneeResponse{ID: a.ID.String(), Name: a.Name, Email: a.Email})
	}
	httpkit.OK(c, resp)
}
