package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhive/testhive-backend/internal/model"
	"github.com/testhive/testhive-backend/internal/response"
	"github.com/testhive/testhive-backend/internal/service"
)

type fakeAuth struct {
	tokens     map[string]*service.Claims
	sessionErr error
}

func (f *fakeAuth) ValidateToken(tokenStr string) (*service.Claims, error) {
	if claims, ok := f.tokens[tokenStr]; ok {
		return claims, nil
	}
	return nil, errors.New("token is malformed")
}

func (f *fakeAuth) ValidateSession(ctx context.Context, userID uuid.UUID, jti string) error {
	return f.sessionErr
}

func claimsFor(role model.Role) *service.Claims {
	return &service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: uuid.New().String()},
		Role:             role,
		UserID:           uuid.New(),
	}
}

func serve(t *testing.T, handler gin.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, *response.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Handle(req.Method, req.URL.Path, handler, func(c *gin.Context) {
		require.NotNil(t, GetClaims(c))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, &body
}

func TestRequireStudentWSAuth(t *testing.T) {
	auth := &fakeAuth{tokens: map[string]*service.Claims{
		"student-token": claimsFor(model.RoleStudent),
		"teacher-token": claimsFor(model.RoleTeacher),
	}}

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stream", nil)
		w, body := serve(t, RequireStudentWSAuth(auth), req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.ErrTokenRequired, body.Error.Code)
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stream?token=nope", nil)
		w, body := serve(t, RequireStudentWSAuth(auth), req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.ErrTokenInvalid, body.Error.Code)
	})

	t.Run("teacher token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stream?token=teacher-token", nil)
		w, body := serve(t, RequireStudentWSAuth(auth), req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, response.ErrStudentAccessOnly, body.Error.Code)
	})

	t.Run("student token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stream?token=student-token", nil)
		w, _ := serve(t, RequireStudentWSAuth(auth), req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalidated session", func(t *testing.T) {
		stale := &fakeAuth{
			tokens:     map[string]*service.Claims{"student-token": claimsFor(model.RoleStudent)},
			sessionErr: errors.New("no active session"),
		}
		req := httptest.NewRequest(http.MethodGet, "/stream?token=student-token", nil)
		w, body := serve(t, RequireStudentWSAuth(stale), req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.ErrSessionInvalidated, body.Error.Code)
	})
}

func TestRequireTeacher(t *testing.T) {
	auth := &fakeAuth{tokens: map[string]*service.Claims{
		"student-token": claimsFor(model.RoleStudent),
		"teacher-token": claimsFor(model.RoleTeacher),
	}}

	t.Run("no authorization header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tests", nil)
		w, body := serve(t, RequireTeacher(auth), req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.ErrTokenRequired, body.Error.Code)
	})

	t.Run("student token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tests", nil)
		req.Header.Set("Authorization", "Bearer student-token")
		w, body := serve(t, RequireTeacher(auth), req)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, response.ErrTeacherAccessOnly, body.Error.Code)
	})

	t.Run("teacher token passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tests", nil)
		req.Header.Set("Authorization", "Bearer teacher-token")
		w, _ := serve(t, RequireTeacher(auth), req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
