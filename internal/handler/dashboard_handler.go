package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
)

// DashboardHandler handles admin dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	activityService  *service.ActivityService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, activityService *service.ActivityService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, activityService: activityService}
}

// GetDashboardData godoc
// GET /api/v1/admin/stats
// Returns news and operator counters plus the latest activity.
func (h *DashboardHandler) GetDashboardData(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	data, err := h.dashboardService.GetDashboardData(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, data)
}

// GetActivity godoc
// GET /api/v1/admin/activity?limit=50
// The limit is clamped to 1..500.
func (h *DashboardHandler) GetActivity(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	entries, err := h.activityService.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}
