package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/testhive/testhive-backend/internal/middleware"
	"github.com/testhive/testhive-backend/internal/model"
	"github.com/testhive/testhive-backend/internal/response"
	"github.com/testhive/testhive-backend/internal/service"
	"github.com/testhive/testhive-backend/internal/validator"
)

// SubmissionHandler handles test submission.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// Submit godoc
// POST /api/v1/test/:test_id/submit (student)
// Grades a submission and returns the score summary. The percentage is
// rendered to two decimals here; the stored result keeps the raw float.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	testID, err := uuid.Parse(c.Param("test_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidTestID)
		return
	}

	var req model.SubmitTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithDetails(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), testID, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTestNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		case errors.Is(err, service.ErrInvalidAnswers):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidAnswers)
		case errors.Is(err, service.ErrRetakeNotAllowed):
			response.Fail(c, http.StatusConflict, response.ErrRetakeNotAllowed)
		default:
			// Includes ErrInvalidTestState: the API never creates a test
			// with zero questions.
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"result": model.SubmissionSummary{
			ResultID:           result.ID,
			Score:              result.Score,
			TotalQuestions:     result.TotalQuestions,
			Percentage:         fmt.Sprintf("%.2f", result.Percentage),
			FlaggedForCheating: result.FlaggedForCheating,
		},
	})
}
