package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

// CourseHandler serves the public course ratings and course administration.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// ListCourses godoc
// GET /api/v1/courses?search=
// Active courses by name with their aggregated ratings.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context(), c.Query("search"), false)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, courses)
}

// TopCourses godoc
// GET /api/v1/courses/top?limit=
func (h *CourseHandler) TopCourses(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	courses, err := h.courseService.Top(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, courses)
}

// CourseStats godoc
// GET /api/v1/courses/stats
func (h *CourseHandler) CourseStats(c *gin.Context) {
	stats, err := h.courseService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GetCourse godoc
// GET /api/v1/courses/:id
// Inactive courses are reported as missing.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	course, err := h.courseService.Get(c.Request.Context(), id, false)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// AdminListCourses godoc
// GET /api/v1/admin/courses?search=&page=&per_page=
// Includes inactive courses. Without page the full list is returned.
func (h *CourseHandler) AdminListCourses(c *gin.Context) {
	courses, err := h.courseService.List(c.Request.Context(), c.Query("search"), true)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("page") == "" {
		response.Success(c, http.StatusOK, courses)
		return
	}
	page, ok := queryInt(c, "page", 1)
	if !ok {
		return
	}
	perPage, ok := queryInt(c, "per_page", 50)
	if !ok {
		return
	}
	page = max(page, 1)
	perPage = min(max(perPage, 1), 200)

	start := min((page-1)*perPage, len(courses))
	end := min(start+perPage, len(courses))
	response.SuccessWithPagination(c, http.StatusOK, courses[start:end],
		response.NewPagination(page, perPage, len(courses)))
}

// CreateCourse godoc
// POST /api/v1/admin/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, course)
}

// UpdateCourse godoc
// PUT /api/v1/admin/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	course, err := h.courseService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// DeleteCourse godoc
// DELETE /api/v1/admin/courses/:id
// Ratings of the course are removed with it.
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.courseService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "LVA erfolgreich gelöscht"})
}

// ImportCourses godoc
// POST /api/v1/admin/courses/import
// Adds the catalog courses that do not exist yet.
func (h *CourseHandler) ImportCourses(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	res, err := h.courseService.Import(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}
