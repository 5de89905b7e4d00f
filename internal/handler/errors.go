package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/middleware"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/rs/zerolog"
)

// errorMapping ties a service sentinel to its HTTP status and error code.
type errorMapping struct {
	err    error
	status int
	code   response.ErrCode
}

// Order matters: the first match wins.
var errorMappings = []errorMapping{
	{service.ErrInvalidCredentials, http.StatusUnauthorized, response.ErrInvalidCredentials},
	{service.ErrUnauthenticated, http.StatusUnauthorized, response.ErrTokenInvalid},
	{service.ErrTokenRevoked, http.StatusUnauthorized, response.ErrTokenRevoked},
	{service.ErrAccountDisabled, http.StatusForbidden, response.ErrAccountDisabled},
	{service.ErrOperatorDeactivated, http.StatusForbidden, response.ErrForbidden},
	{service.ErrForbidden, http.StatusForbidden, response.ErrPermissionDenied},
	{service.ErrMasterPasswordImmutable, http.StatusForbidden, response.ErrMasterPasswordImmutable},
	{service.ErrMasterImmutable, http.StatusForbidden, response.ErrMasterRecordImmutable},
	{service.ErrWrongCurrentPassword, http.StatusBadRequest, response.ErrWrongCurrentPassword},
	{service.ErrCourseNotFound, http.StatusNotFound, response.ErrCourseNotFound},
	{service.ErrNotFound, http.StatusNotFound, response.ErrNotFound},
	{service.ErrConflict, http.StatusConflict, response.ErrConflict},
	{service.ErrRatingOutOfRange, http.StatusBadRequest, response.ErrRatingOutOfRange},
	{service.ErrCodeInvalid, http.StatusBadRequest, response.ErrCodeInvalid},
	{service.ErrCodeConsumed, http.StatusBadRequest, response.ErrCodeConsumed},
	{service.ErrCodeExpired, http.StatusConflict, response.ErrCodeExpired},
	{service.ErrCodeExhausted, http.StatusConflict, response.ErrCodeExhausted},
	{service.ErrMaxUsesBelowUseCount, http.StatusConflict, response.ErrMaxUsesBelowUseCount},
	{service.ErrRateLimited, http.StatusTooManyRequests, response.ErrRateLimitExceeded},
	{service.ErrDelivery, http.StatusBadGateway, response.ErrDeliveryFailed},
	{service.ErrInvalidInput, http.StatusBadRequest, response.ErrValidation},
}

// respondError writes the error envelope for a service error. Unknown errors
// are logged and reported as 500.
func respondError(c *gin.Context, err error) {
	var domainErr *service.EmailDomainError
	if errors.As(err, &domainErr) {
		response.FailWithMessage(c, http.StatusForbidden, response.ErrEmailDomainNotAllowed, domainErr.Error())
		return
	}

	var inputErr *service.InputError
	if errors.As(err, &inputErr) {
		response.FailWithMessage(c, http.StatusBadRequest, response.ErrValidation, inputErr.Message)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			response.Fail(c, m.status, m.code)
			return
		}
	}

	zerolog.Ctx(c.Request.Context()).Error().Err(err).
		Str("path", c.FullPath()).
		Msg("Unhandled service error")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// paramID parses the named path parameter, writing a 400 when it is malformed.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{name: name + " must be a number"})
		return 0, false
	}
	return n, true
}

// currentOperator returns the authenticated operator or writes a 401.
func currentOperator(c *gin.Context) (*model.Operator, bool) {
	op := middleware.GetOperator(c)
	if op == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	return op, true
}
