package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

// CodeHandler manages admin-issued multi-use codes.
type CodeHandler struct {
	codeService *service.CodeService
}

// NewCodeHandler creates a new CodeHandler.
func NewCodeHandler(codeService *service.CodeService) *CodeHandler {
	return &CodeHandler{codeService: codeService}
}

// ListCodes godoc
// GET /api/v1/admin/codes
func (h *CodeHandler) ListCodes(c *gin.Context) {
	codes, err := h.codeService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, codes)
}

// CreateCode godoc
// POST /api/v1/admin/codes
func (h *CodeHandler) CreateCode(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.CreateIssuedCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	code, err := h.codeService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, code)
}

// UpdateCode godoc
// PUT /api/v1/admin/codes/:id
func (h *CodeHandler) UpdateCode(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateIssuedCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	code, err := h.codeService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, code)
}

// DeleteCode godoc
// DELETE /api/v1/admin/codes/:id
func (h *CodeHandler) DeleteCode(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.codeService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Code erfolgreich gelöscht"})
}
