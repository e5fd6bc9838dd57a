package handler

import (
	"net/http"
	"regexp"

	"leadqueue_backend/internal/leads/transport"
	"leadqueue_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func (h *Handler) Unlock(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, ctrl.Unlock(c.Request.Context(), c.Param("id"))) {
		return
	}
	httpkit.OK(c, h.render(c, ctrl))
}

func (h *Handler) ConfirmStatus(c *gin.Context) {
	var req transport.ConfirmStatusRequest
	if !h.bind(c, &req) {
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, ctrl.ConfirmStatus(c.Request.Context(), c.Param("id"), req.Status)) {
		return
	}
	httpkit.OK(c, h.render(c, ctrl))
}

func (h *Handler) Alter(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, ctrl.Alter(c.Param("id"))) {
		return
	}
	row, err := ctrl.Lead(c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(row, h.phones))
}

func (h *Handler) SetDraft(c *gin.Context) {
	var req transport.DraftRequest
	if !h.bind(c, &req) {
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, ctrl.SetDraft(c.Param("id"), req.Observacao, req.Agendamento)) {
		return
	}
	row, err := ctrl.Lead(c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ToLeadResponse(row, h.phones))
}

func (h *Handler) Save(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	payload, err := ctrl.Save(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusOK, transport.SaveResponse{Payload: payload, Queue: h.render(c, ctrl)})
}

func (h *Handler) Reassign(c *gin.Context) {
	var req transport.ReassignRequest
	if !h.bind(c, &req) {
		return
	}
	if !req.UserID.Set {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, map[string]string{"userId": "required"})
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, ctrl.Reassign(c.Request.Context(), c.Param("id"), req.UserID.StringPtr())) {
		return
	}
	httpkit.OK(c, h.render(c, ctrl))
}
