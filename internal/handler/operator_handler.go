package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

// OperatorHandler handles operator management endpoints.
type OperatorHandler struct {
	operatorService *service.OperatorService
}

// NewOperatorHandler creates a new OperatorHandler.
func NewOperatorHandler(operatorService *service.OperatorService) *OperatorHandler {
	return &OperatorHandler{operatorService: operatorService}
}

// ListOperators godoc
// GET /api/v1/admin/operators
func (h *OperatorHandler) ListOperators(c *gin.Context) {
	ops, err := h.operatorService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ops)
}

// GetOperator godoc
// GET /api/v1/admin/operators/:id
func (h *OperatorHandler) GetOperator(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	op, err := h.operatorService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, op)
}

// CreateOperator godoc
// POST /api/v1/admin/operators
// Master only. Duplicate usernames or emails give 409.
func (h *OperatorHandler) CreateOperator(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.CreateOperatorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	op, err := h.operatorService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, op)
}

// UpdateOperator godoc
// PUT /api/v1/admin/operators/:id
// Masters may update anyone, other operators only their own email and display name.
func (h *OperatorHandler) UpdateOperator(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateOperatorRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	op, err := h.operatorService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, op)
}

// DeleteOperator godoc
// DELETE /api/v1/admin/operators/:id
func (h *OperatorHandler) DeleteOperator(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.operatorService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Admin erfolgreich gelöscht"})
}
