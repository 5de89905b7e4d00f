package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/response"
	"github.com/oeh-wirtschaft/oeh-backend/internal/service"
	"github.com/oeh-wirtschaft/oeh-backend/internal/validator"
)

// VerificationHandler handles the public code request, check and rating flow.
type VerificationHandler struct {
	verificationService *service.VerificationService
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verificationService *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService}
}

// RequestCode godoc
// POST /api/v1/courses/:id/request-code
// Mails a personal one-time code for rating the course.
func (h *VerificationHandler) RequestCode(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.RequestCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	// The path wins; a body course_id is optional but must agree with it.
	if req.CourseID != 0 && req.CourseID != courseID {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"course_id": "course_id does not match the course in the path"})
		return
	}

	res, err := h.verificationService.RequestCode(c.Request.Context(), req.Email, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// VerifyCode godoc
// POST /api/v1/courses/verify-code
// Read-only check of a personal or admin-issued code.
func (h *VerificationHandler) VerifyCode(c *gin.Context) {
	var req model.VerifyCodeRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.verificationService.VerifyCode(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// SubmitRating godoc
// POST /api/v1/courses/submit-rating
// Consumes the code and stores an anonymous rating.
func (h *VerificationHandler) SubmitRating(c *gin.Context) {
	var req model.SubmitRatingRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	res, err := h.verificationService.SubmitRating(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}
