package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-length", 15*time.Minute)

	userID := uuid.New()
	tokenString, err := manager.GenerateAccessToken(userID, "student@example.com", "student")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := manager.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.Equal(t, "student", claims.UserType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-length", 15*time.Minute)
	other := NewJWTManager("another-secret-key-entirely-here", 15*time.Minute)

	tokenString, err := manager.GenerateAccessToken(uuid.New(), "staff@example.com", "staff")
	assert.NoError(t, err)

	_, err = other.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-length", -1*time.Minute)

	tokenString, err := manager.GenerateAccessToken(uuid.New(), "admin@example.com", "admin")
	assert.NoError(t, err)

	_, err = manager.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key-with-enough-length", 15*time.Minute)

	_, err := manager.ValidateToken("not-a-token")
	assert.Error(t, err)
}
