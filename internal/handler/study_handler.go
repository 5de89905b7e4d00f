package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

// StudyHandler handles study categories, programs and curriculum updates.
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler creates a new StudyHandler.
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// ─── Categories ────────────────────────────────────────────────────────

// ListCategories godoc
// GET /api/v1/study/categories
// Categories with their active programs nested.
func (h *StudyHandler) ListCategories(c *gin.Context) {
	cats, err := h.studyService.Categories(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cats)
}

// AdminListCategories godoc
// GET /api/v1/admin/study/categories
func (h *StudyHandler) AdminListCategories(c *gin.Context) {
	cats, err := h.studyService.Categories(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cats)
}

// CreateCategory godoc
// POST /api/v1/admin/study/categories
func (h *StudyHandler) CreateCategory(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.StudyCategoryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cat, err := h.studyService.CreateCategory(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, cat)
}

// UpdateCategory godoc
// PUT /api/v1/admin/study/categories/:id
func (h *StudyHandler) UpdateCategory(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.StudyCategoryRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cat, err := h.studyService.UpdateCategory(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cat)
}

// DeleteCategory godoc
// DELETE /api/v1/admin/study/categories/:id
// Programs and their updates are removed with the category.
func (h *StudyHandler) DeleteCategory(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.studyService.DeleteCategory(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Kategorie erfolgreich gelöscht"})
}

// ─── Programs ──────────────────────────────────────────────────────────

func (h *StudyHandler) listPrograms(c *gin.Context, activeOnly bool) {
	categoryID, ok := queryInt(c, "category_id", 0)
	if !ok {
		return
	}

	programs, err := h.studyService.Programs(c.Request.Context(), categoryID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, programs)
}

// ListPrograms godoc
// GET /api/v1/study/programs?category_id=
func (h *StudyHandler) ListPrograms(c *gin.Context) {
	h.listPrograms(c, true)
}

// AdminListPrograms godoc
// GET /api/v1/admin/study/programs?category_id=
func (h *StudyHandler) AdminListPrograms(c *gin.Context) {
	h.listPrograms(c, false)
}

// CreateProgram godoc
// POST /api/v1/admin/study/programs
func (h *StudyHandler) CreateProgram(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.StudyProgramRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.studyService.CreateProgram(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p)
}

// UpdateProgram godoc
// PUT /api/v1/admin/study/programs/:id
func (h *StudyHandler) UpdateProgram(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.StudyProgramRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.studyService.UpdateProgram(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// DeleteProgram godoc
// DELETE /api/v1/admin/study/programs/:id
func (h *StudyHandler) DeleteProgram(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.studyService.DeleteProgram(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Studiengang erfolgreich gelöscht"})
}

// ─── Updates ───────────────────────────────────────────────────────────

func (h *StudyHandler) listUpdates(c *gin.Context, activeOnly bool) {
	programID, ok := queryInt(c, "program_id", 0)
	if !ok {
		return
	}

	updates, err := h.studyService.Updates(c.Request.Context(), programID, activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, updates)
}

// ListUpdates godoc
// GET /api/v1/study/updates?program_id=
func (h *StudyHandler) ListUpdates(c *gin.Context) {
	h.listUpdates(c, true)
}

// AdminListUpdates godoc
// GET /api/v1/admin/study/updates?program_id=
func (h *StudyHandler) AdminListUpdates(c *gin.Context) {
	h.listUpdates(c, false)
}

// GroupedUpdates godoc
// GET /api/v1/study/updates/grouped
func (h *StudyHandler) GroupedUpdates(c *gin.Context) {
	groups, err := h.studyService.GroupedUpdates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, groups)
}

// CreateUpdate godoc
// POST /api/v1/admin/study/updates
func (h *StudyHandler) CreateUpdate(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.StudyUpdateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	u, err := h.studyService.CreateUpdate(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, u)
}

// UpdateUpdate godoc
// PUT /api/v1/admin/study/updates/:id
func (h *StudyHandler) UpdateUpdate(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.StudyUpdateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	u, err := h.studyService.UpdateUpdate(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// DeleteUpdate godoc
// DELETE /api/v1/admin/study/updates/:id
func (h *StudyHandler) DeleteUpdate(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.studyService.DeleteUpdate(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Update erfolgreich gelöscht"})
}
