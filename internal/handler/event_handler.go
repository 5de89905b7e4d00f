package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

// EventHandler handles calendar event endpoints.
type EventHandler struct {
	eventService *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// eventQuery holds the listing filters.
type eventQuery struct {
	Month  int    `form:"month" binding:"omitempty,min=1,max=12"`
	Year   int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Tag    string `form:"tag" binding:"max=100"`
	Search string `form:"search" binding:"max=200"`
}

func (h *EventHandler) list(c *gin.Context, includeHidden bool) {
	var q eventQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	events, err := h.eventService.List(c.Request.Context(), model.EventFilter{
		Month:         q.Month,
		Year:          q.Year,
		Tag:           q.Tag,
		Search:        q.Search,
		IncludeHidden: includeHidden,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, events)
}

// ListPublic godoc
// GET /api/v1/events?month=&year=&tag=&search=
func (h *EventHandler) ListPublic(c *gin.Context) {
	h.list(c, false)
}

// ListAll godoc
// GET /api/v1/admin/events
// Includes hidden events.
func (h *EventHandler) ListAll(c *gin.Context) {
	h.list(c, true)
}

// ListTags godoc
// GET /api/v1/events/tags
func (h *EventHandler) ListTags(c *gin.Context) {
	tags, err := h.eventService.Tags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tags)
}

// GetEvent godoc
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	e, err := h.eventService.Get(c.Request.Context(), id, false)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

// CreateEvent godoc
// POST /api/v1/admin/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.CreateEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e, err := h.eventService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, e)
}

// UpdateEvent godoc
// PUT /api/v1/admin/events/:id
// Creator or master only.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateEventRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	e, err := h.eventService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

// DeleteEvent godoc
// DELETE /api/v1/admin/events/:id
// Creator or master only.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Event erfolgreich gelöscht"})
}
