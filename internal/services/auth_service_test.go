package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"maker3d-backend/internal/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	service := NewAuthService("test-secret", 3600)
	user := &models.User{
		ID:      "user-1",
		Email:   "ali@example.com",
		IsAdmin: true,
	}

	token, err := service.GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ali@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "ali@example.com"}

	token, err := NewAuthService("secret-a", 3600).GenerateToken(user)
	assert.NoError(t, err)

	_, err = NewAuthService("secret-b", 3600).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	service := NewAuthService("test-secret", -1)
	user := &models.User{ID: "user-1", Email: "ali@example.com"}

	token, err := service.GenerateToken(user)
	assert.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	service := NewAuthService("test-secret", 3600)

	_, err := service.ValidateToken("not-a-token")
	assert.Error(t, err)
}
