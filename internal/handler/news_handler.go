package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

// NewsHandler handles news endpoints.
type NewsHandler struct {
	newsService *service.NewsService
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

// ListPublished godoc
// GET /api/v1/news
func (h *NewsHandler) ListPublished(c *gin.Context) {
	news, err := h.newsService.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, news)
}

// ListAll godoc
// GET /api/v1/news/all
// Includes drafts.
func (h *NewsHandler) ListAll(c *gin.Context) {
	news, err := h.newsService.List(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, news)
}

// GetNews godoc
// GET /api/v1/news/:id
// Published items only. Each call counts as a view.
func (h *NewsHandler) GetNews(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	n, err := h.newsService.View(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, n)
}

// CreateNews godoc
// POST /api/v1/news
func (h *NewsHandler) CreateNews(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.CreateNewsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.newsService.Create(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, n)
}

// UpdateNews godoc
// PUT /api/v1/news/:id
// Author or master only.
func (h *NewsHandler) UpdateNews(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateNewsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	n, err := h.newsService.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, n)
}

// DeleteNews godoc
// DELETE /api/v1/news/:id
// Author or master only.
func (h *NewsHandler) DeleteNews(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.newsService.Delete(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "News erfolgreich gelöscht"})
}
