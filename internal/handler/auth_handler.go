package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/middleware"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// POST /api/v1/auth/login
// Accepts the username or the email address and returns a bearer token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, res)
}

// Me godoc
// GET /api/v1/auth/me
// Returns the authenticated operator and the permissions of their role.
func (h *AuthHandler) Me(c *gin.Context) {
	op, ok := currentOperator(c)
	if !ok {
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"operator":    op,
		"permissions": model.PermissionCodes(op.Role),
	})
}

// ChangePassword godoc
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	op, ok := currentOperator(c)
	if !ok {
		return
	}

	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), op, &req); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Passwort erfolgreich geändert"})
}

// Logout godoc
// POST /api/v1/auth/logout
// Revokes the presented token until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Erfolgreich abgemeldet"})
}
