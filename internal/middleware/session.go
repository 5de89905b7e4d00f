package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/rs/zerolog"
)

// ContextKeyOperator is the Gin context key for the authenticated operator.
const ContextKeyOperator = "operator"

// LoadOperator resolves the token subject to a fresh operator record.
// Revoked tokens and vanished subjects are rejected with 401, deactivated
// operators with 403. Must run after RequireOperatorJWT.
func LoadOperator(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		op, err := authService.Authenticate(c.Request.Context(), claims)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrTokenRevoked):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRevoked)
			return
		case errors.Is(err, service.ErrUnauthenticated):
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		case errors.Is(err, service.ErrOperatorDeactivated):
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		default:
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to authenticate operator")
			response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}

		c.Set(ContextKeyOperator, op)
		c.Next()
	}
}

// GetOperator returns the operator loaded by LoadOperator.
func GetOperator(c *gin.Context) *model.Operator {
	val, exists := c.Get(ContextKeyOperator)
	if !exists {
		return nil
	}
	op, _ := val.(*model.Operator)
	return op
}
