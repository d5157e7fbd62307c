package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/testhive/testhive-backend/internal/middleware"
	"github.com/testhive/testhive-backend/internal/response"
	"github.com/testhive/testhive-backend/internal/service"
)

// ResultHandler handles result listing endpoints.
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// ListStudentResults godoc
// GET /api/v1/student/results (student)
// Returns the caller's result history with test and teacher context.
func (h *ResultHandler) ListStudentResults(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	results, err := h.resultService.ListStudentResults(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, results)
}

// ListTestResults godoc
// GET /api/v1/test/:test_id/results (teacher, owner only)
// Returns all submissions for one of the caller's tests.
func (h *ResultHandler) ListTestResults(c *gin.Context) {
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

	results, err := h.resultService.ListTestResults(c.Request.Context(), testID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTestNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		case errors.Is(err, service.ErrNotTestOwner):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"results": results,
		"total":   len(results),
	})
}

// ListProctorEvents godoc
// GET /api/v1/test/:test_id/proctor-events (teacher, owner only)
// Returns recorded proctoring events for review alongside the results.
func (h *ResultHandler) ListProctorEvents(c *gin.Context) {
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

	events, err := h.resultService.ListProctorEvents(c.Request.Context(), testID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTestNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
		case errors.Is(err, service.ErrNotTestOwner):
			response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
	})
}
