package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhive/testhive-backend/internal/middleware"
	"github.com/testhive/testhive-backend/internal/model"
	"github.com/testhive/testhive-backend/internal/repository"
	"github.com/testhive/testhive-backend/internal/response"
	"github.com/testhive/testhive-backend/internal/service"
)

type fakeSubmissionTests struct{ tst *model.Test }

func (f *fakeSubmissionTests) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	if f.tst != nil && f.tst.ID == id {
		return f.tst, nil
	}
	return nil, repository.ErrNotFound
}

type fakeSubmissionResults struct{ created []*model.Result }

func (f *fakeSubmissionResults) Create(ctx context.Context, res *model.Result) error {
	f.created = append(f.created, res)
	return nil
}

func (f *fakeSubmissionResults) ExistsByTestAndStudent(ctx context.Context, testID, studentID uuid.UUID) (bool, error) {
	return false, nil
}

func submitRouter(tst *model.Test) (*gin.Engine, *fakeSubmissionResults) {
	results := &fakeSubmissionResults{}
	svc := service.NewSubmissionService(&fakeSubmissionTests{tst: tst}, results, true, zerolog.Nop())
	h := NewSubmissionHandler(svc)

	r := gin.New()
	r.POST("/test/:test_id/submit", func(c *gin.Context) {
		c.Set(middleware.ContextKeyClaims, &service.Claims{
			Role:   model.RoleStudent,
			UserID: uuid.New(),
		})
	}, h.Submit)
	return r, results
}

func postSubmit(t *testing.T, r *gin.Engine, testID string, payload interface{}) (*httptest.ResponseRecorder, *response.Response) {
	t.Helper()
	buf, err := json.Marshal(payload)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test/"+testID+"/submit", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, &body
}

func submitPayload() gin.H {
	return gin.H{
		"answers": []gin.H{
			{"question_id": "q-1", "selected_answer": 1, "time_spent_seconds": 400},
		},
		"total_time_seconds": 400,
	}
}

func TestSubmitEndpoint(t *testing.T) {
	gradable := &model.Test{
		ID:              uuid.New(),
		DurationMinutes: 30,
		TotalQuestions:  1,
		Questions: []model.Question{{
			ID:            "q-1",
			Question:      "pick b",
			Options:       []string{"a", "b"},
			CorrectAnswer: 1,
		}},
	}

	t.Run("graded submission", func(t *testing.T) {
		r, results := submitRouter(gradable)
		w, body := postSubmit(t, r, gradable.ID.String(), submitPayload())
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, body.Success)
		require.Len(t, results.created, 1)
		assert.Equal(t, 1, results.created[0].Score)
		assert.Contains(t, w.Body.String(), `"100.00"`)
	})

	t.Run("malformed test id", func(t *testing.T) {
		r, _ := submitRouter(gradable)
		w, body := postSubmit(t, r, "not-a-uuid", submitPayload())
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidTestID, body.Error.Code)
	})

	t.Run("unknown test", func(t *testing.T) {
		r, _ := submitRouter(gradable)
		w, body := postSubmit(t, r, uuid.NewString(), submitPayload())
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, response.ErrTestNotFound, body.Error.Code)
	})

	t.Run("test without questions surfaces as internal", func(t *testing.T) {
		empty := &model.Test{ID: uuid.New(), DurationMinutes: 30}
		r, results := submitRouter(empty)
		w, body := postSubmit(t, r, empty.ID.String(), submitPayload())
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, response.ErrInternal, body.Error.Code)
		assert.Empty(t, results.created)
	})
}
