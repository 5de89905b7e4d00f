package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

// ContactHandler relays the public contact form.
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Submit godoc
// POST /api/v1/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req model.ContactRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.contactService.Relay(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
