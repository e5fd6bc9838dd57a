package handler

import (
	"net/http"
	"strconv"

	"leadqueue_backend/internal/leads/domain"
	"leadqueue_backend/internal/leads/filter"
	"leadqueue_backend/internal/leads/queue"
	"leadqueue_backend/internal/leads/transport"
	"leadqueue_backend/platform/apperr"
	"leadqueue_backend/platform/httpkit"
	"leadqueue_backend/platform/logger"
	"leadqueue_backend/platform/phone"
	"leadqueue_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	queues    *queue.Registry
	assignees AssigneeLister
	val       *validator.Validator
	phones    phone.Normalizer
	log       *logger.Logger
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(queues *queue.Registry, val *validator.Validator, phones phone.Normalizer, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{queues: queues, val: val, phones: phones, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	q := rg.Group("/queue")
	q.GET("", h.View)
	q.DELETE("", h.Close)
	q.POST("/refresh", h.Refresh)
	q.PUT("/filter", h.ApplyFilter)
	q.POST("/page/next", h.NextPage)
	q.POST("/page/prev", h.PrevPage)
	q.GET("/unsaved", h.Unsaved)
	q.DELETE("/notice", h.DismissNotice)

	rg.GET("/assignees", h.ListAssignees)

	rg.POST("/:id/unlock", h.Unlock)
	rg.PUT("/:id/status", h.ConfirmStatus)
	rg.POST("/:id/observation/alter", h.Alter)
	rg.PUT("/:id/draft", h.SetDraft)
	rg.POST("/:id/observation", h.Save)
	rg.PUT("/:id/assignee", h.Reassign)
}

// controller returns the operator's queue, loading the snapshot the first
// time it is opened. Requests racing the first load wait for it. A failed
// first load still yields the (empty) queue with its notice set.
func (h *Handler) controller(c *gin.Context) (*queue.Controller, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return nil, false
	}

	ctrl, created := h.queues.Get(id.Operator())
	if err := ctrl.EnsureLoaded(c.Request.Context()); err != nil && created {
		h.log.WithContext(c.Request.Context()).Warn("initial queue load failed", "error", err)
	}
	return ctrl, true
}

func (h *Handler) render(c *gin.Context, ctrl *queue.Controller) transport.QueueResponse {
	return transport.ToQueueResponse(ctrl.View(), domain.SelectableStatuses(), h.phones)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return false
	}
	return true
}

func (h *Handler) View(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	httpkit.OK(c, h.render(c, ctrl))
}

func (h *Handler) Close(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	force, _ := strconv.ParseBool(c.DefaultQuery("force", "false"))
	if httpkit.HandleError(c, h.queues.Close(id.Operator(), force)) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) Refresh(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, ctrl.Refresh(c.Request.Context())) {
		return
	}
	httpkit.OK(c, h.render(c, ctrl))
}

func (h *Handler) ApplyFilter(c *gin.Context) {
	var req transport.ApplyFilterRequest
	if !h.bind(c, &req) {
		return
	}
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}

	sel, err := toSelection(req)
	if httpkit.HandleError(c, err) {
		return
	}
	ctrl.ApplyFilter(sel)
	httpkit.OK(c, h.render(c, ctrl))
}

func toSelection(req transport.ApplyFilterRequest) (filter.Selection, error) {
	switch req.Kind {
	case transport.FilterName:
		return filter.ByName(req.Value), nil
	case transport.FilterMonth:
		if req.Value != "" && !monthPattern.MatchString(req.Value) {
			return filter.Selection{}, apperr.Validation("month must be yyyy-mm").
				WithDetails(map[string]string{"value": req.Value})
		}
		return filter.ByMonth(req.Value), nil
	case transport.FilterStatus:
		return filter.ByStatus(req.Value), nil
	default:
		return filter.None(), nil
	}
}

func (h *Handler) NextPage(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.NextPage()
	httpkit.OK(c, h.render(c, ctrl))
}

func (h *Handler) PrevPage(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.PrevPage()
	httpkit.OK(c, h.render(c, ctrl))
}

func (h *Handler) Unsaved(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	httpkit.OK(c, transport.UnsavedResponse{HasUnsavedEdits: ctrl.HasUnsavedEdits()})
}

func (h *Handler) DismissNotice(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	ctrl.DismissNotice()
	httpkit.OK(c, h.render(c, ctrl))
}
