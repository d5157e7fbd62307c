package handler

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/testhive/testhive-backend/internal/middleware"
	"github.com/testhive/testhive-backend/internal/model"
	"github.com/testhive/testhive-backend/internal/response"
	"github.com/testhive/testhive-backend/internal/service"
	"github.com/testhive/testhive-backend/internal/validator"
)

// textExtensions are the course-document formats the extractor accepts.
// Binary formats (PDF, DOCX) are rejected rather than half-parsed.
var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
	".csv": true,
}

// TestHandler handles test creation and access endpoints.
type TestHandler struct {
	testService    *service.TestService
	maxUploadBytes int64
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(testService *service.TestService, maxUploadBytes int64) *TestHandler {
	return &TestHandler{
		testService:    testService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Generate godoc
// POST /api/v1/test/generate (teacher, multipart)
// Extracts course content from the uploaded document and generates a test.
func (h *TestHandler) Generate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.GenerateTestRequest
	if fields := validator.BindForm(c, &req); fields != nil {
		response.FailWithDetails(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > h.maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !textExtensions[ext] {
		response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	test, err := h.testService.GenerateFromDocument(c.Request.Context(), claims.UserID, &req, string(content), fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientContent):
			response.Fail(c, http.StatusBadRequest, response.ErrInsufficientContent)
		case errors.Is(err, service.ErrCodeGenerationFailed):
			response.Fail(c, http.StatusInternalServerError, response.ErrCodeGenerationFailed)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"test": gin.H{
			"id":               test.ID,
			"title":            test.Title,
			"subject":          test.Subject,
			"difficulty":       test.Difficulty,
			"duration_minutes": test.DurationMinutes,
			"total_questions":  test.TotalQuestions,
			"test_code":        test.TestCode,
			"created_at":       test.CreatedAt,
		},
	})
}

// Access godoc
// POST /api/v1/test/access (student)
// Redeems a test code for the sanitized test payload.
func (h *TestHandler) Access(c *gin.Context) {
	var req model.AccessTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		switch validator.FailedRule(err, "test_code") {
		case "required":
			response.Fail(c, http.StatusBadRequest, response.ErrMissingCode)
		case "testcode":
			// Malformed codes are turned away here, before any lookup.
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidCode)
		default:
			response.FailWithDetails(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		}
		return
	}

	view, err := h.testService.AccessByCode(c.Request.Context(), req.TestCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMalformedCode):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidCode)
		case errors.Is(err, service.ErrCodeNotFound):
			response.Fail(c, http.StatusForbidden, response.ErrInvalidCode)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": view})
}

// GetByCode godoc
// GET /api/v1/test/code/:code (student)
// Fetches the sanitized test payload by its code.
func (h *TestHandler) GetByCode(c *gin.Context) {
	view, err := h.testService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": view})
}

// GetByID godoc
// GET /api/v1/test/:test_id
// Returns the role-appropriate view of a test.
func (h *TestHandler) GetByID(c *gin.Context) {
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

	view, err := h.testService.GetForRole(c.Request.Context(), testID, claims.Role)
	if err != nil {
		if errors.Is(err, service.ErrTestNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrTestNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": view})
}

// ListTeacherTests godoc
// GET /api/v1/test/teacher (teacher)
// Lists the caller's tests with submission counts.
func (h *TestHandler) ListTeacherTests(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	tests, err := h.testService.ListByTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"tests": tests,
		"total": len(tests),
	})
}
