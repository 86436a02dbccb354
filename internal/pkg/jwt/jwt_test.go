package jwt_test

import (
	"testing"
	"time"

	"github.com/kiennt169/quiz-core-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParse_Roundtrip(t *testing.T) {
	jwt.SetSecret("test-secret")

	token, err := jwt.Sign("user-1", "alice@example.com", []string{"ROLE_USER"}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwt.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, []string{"ROLE_USER"}, claims.Roles)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParse_Expired(t *testing.T) {
	jwt.SetSecret("test-secret")

	token, err := jwt.Sign("user-1", "alice@example.com", []string{"ROLE_USER"}, -time.Minute)
	require.NoError(t, err)

	claims, err := jwt.Parse(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParse_Malformed(t *testing.T) {
	jwt.SetSecret("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"truncated", "eyJhbGciOiJIUzI1NiJ9.eyJ1aWQi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := jwt.Parse(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
		})
	}
}

func TestParse_WrongSecret(t *testing.T) {
	jwt.SetSecret("first-secret")
	token, err := jwt.Sign("user-1", "alice@example.com", nil, time.Hour)
	require.NoError(t, err)

	jwt.SetSecret("second-secret")
	claims, err := jwt.Parse(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}
