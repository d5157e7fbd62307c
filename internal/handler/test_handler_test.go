package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhive/testhive-backend/internal/model"
	"github.com/testhive/testhive-backend/internal/repository"
	"github.com/testhive/testhive-backend/internal/response"
	"github.com/testhive/testhive-backend/internal/service"
	"github.com/testhive/testhive-backend/internal/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

type fakeTestStore struct {
	byCode  map[string]*model.Test
	lookups int
}

func (f *fakeTestStore) Create(ctx context.Context, tst *model.Test) error { return nil }

func (f *fakeTestStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeTestStore) GetByCode(ctx context.Context, code string) (*model.Test, error) {
	f.lookups++
	if tst, ok := f.byCode[code]; ok {
		return tst, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeTestStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return false, nil
}

func (f *fakeTestStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.TeacherTestSummary, error) {
	return nil, nil
}

func accessRouter(store *fakeTestStore) *gin.Engine {
	svc := service.NewTestService(store, nil, nil, zerolog.Nop())
	h := NewTestHandler(svc, 1<<20)
	r := gin.New()
	r.POST("/test/access", h.Access)
	return r
}

func postAccess(t *testing.T, r *gin.Engine, payload interface{}) (*httptest.ResponseRecorder, *response.Response) {
	t.Helper()
	buf, err := json.Marshal(payload)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/test/access", bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, &body
}

func TestAccessEndpoint(t *testing.T) {
	stored := &model.Test{
		ID:              uuid.New(),
		Title:           "Networking Basics",
		Subject:         "Networking",
		Difficulty:      model.DifficultyEasy,
		DurationMinutes: 30,
		TotalQuestions:  1,
		TestCode:        "ABCDEF23",
		Questions: []model.Question{{
			ID:            "q-1",
			Question:      "What does TCP stand for?",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 1,
			Explanation:   "transport layer",
		}},
	}

	t.Run("missing code", func(t *testing.T) {
		store := &fakeTestStore{}
		w, body := postAccess(t, accessRouter(store), gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrMissingCode, body.Error.Code)
		assert.Zero(t, store.lookups)
	})

	t.Run("short code rejected without lookup", func(t *testing.T) {
		store := &fakeTestStore{}
		w, body := postAccess(t, accessRouter(store), gin.H{"test_code": "AB"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidCode, body.Error.Code)
		assert.Zero(t, store.lookups)
	})

	t.Run("ambiguous symbol rejected without lookup", func(t *testing.T) {
		store := &fakeTestStore{}
		w, body := postAccess(t, accessRouter(store), gin.H{"test_code": "ABCDEF01"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.ErrInvalidCode, body.Error.Code)
		assert.Zero(t, store.lookups)
	})

	t.Run("unknown code", func(t *testing.T) {
		store := &fakeTestStore{}
		w, body := postAccess(t, accessRouter(store), gin.H{"test_code": "ZZZZZZ99"})
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, response.ErrInvalidCode, body.Error.Code)
		assert.Equal(t, 1, store.lookups)
	})

	t.Run("valid code returns sanitized test", func(t *testing.T) {
		store := &fakeTestStore{byCode: map[string]*model.Test{"ABCDEF23": stored}}
		w, body := postAccess(t, accessRouter(store), gin.H{"test_code": "abcdef23"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, body.Success)
		raw := w.Body.String()
		assert.Contains(t, raw, "Networking Basics")
		assert.NotContains(t, raw, "correct_answer")
		assert.NotContains(t, raw, "explanation")
	})
}
