package service

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testhive/testhive-backend/internal/config"
	"github.com/testhive/testhive-backend/internal/model"
)

func TestCheckPasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "Password123", wantErr: false},
		{name: "missing uppercase", password: "password123", wantErr: true},
		{name: "missing lowercase", password: "PASSWORD123", wantErr: true},
		{name: "missing digit", password: "PasswordOnly", wantErr: true},
		{name: "symbols do not substitute", password: "!!!!!!!!!!", wantErr: true},
		{name: "unicode letters count", password: "Pässword123", wantErr: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkPasswordPolicy(tc.password)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrWeakPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	svc := NewAuthService(cfg, nil, nil)
	userID := uuid.New()

	sign := func(secret string, method jwt.SigningMethod) string {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:      uuid.New().String(),
				Subject: userID.String(),
			},
			Role:   model.RoleTeacher,
			UserID: userID,
		}
		token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}

	t.Run("round trip", func(t *testing.T) {
		claims, err := svc.ValidateToken(sign("test-secret", jwt.SigningMethodHS256))
		require.NoError(t, err)

		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, model.RoleTeacher, claims.Role)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		_, err := svc.ValidateToken(sign("other-secret", jwt.SigningMethodHS256))

		assert.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")

		assert.Error(t, err)
	})
}
