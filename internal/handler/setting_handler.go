package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

type SettingHandler struct {
	settingService *service.SettingService
}

func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// GetAllSettings godoc
// GET /api/v1/admin/settings
func (h *SettingHandler) GetAllSettings(c *gin.Context) {
	settings, err := h.settingService.GetAllSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, settings)
}

// GetSetting godoc
// GET /api/v1/admin/settings/:key
func (h *SettingHandler) GetSetting(c *gin.Context) {
	setting, err := h.settingService.GetSettingByKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, setting)
}

// UpdateSetting godoc
// PUT /api/v1/admin/settings/:key
// Master only.
func (h *SettingHandler) UpdateSetting(c *gin.Context) {
	actor, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.UpdateSettingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	setting, err := h.settingService.UpdateSetting(c.Request.Context(), actor, c.Param("key"), req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, setting)
}
