package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmail = "alice@example.com"

func TestJWTService_GenerateToken(t *testing.T) {
	service := NewJWTService("test-secret-key", "visage-test", 1*time.Hour)
	identityID := uuid.New()

	token, err := service.GenerateToken(identityID, testEmail)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestJWTService_ValidateToken(t *testing.T) {
	service := NewJWTService("test-secret-key", "visage-test", 1*time.Hour)
	identityID := uuid.New()

	token, err := service.GenerateToken(identityID, testEmail)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, identityID, claims.IdentityID)
	assert.Equal(t, testEmail, claims.Email)
	assert.Equal(t, "visage-test", claims.Issuer)
	assert.Equal(t, identityID.String(), claims.Subject)
}

func TestJWTService_ValidateToken_InvalidToken(t *testing.T) {
	service := NewJWTService("test-secret-key", "visage-test", 1*time.Hour)

	tests := []struct {
		name        string
		token       string
		expectedErr error
	}{
		{
			name:        "invalid token format",
			token:       "invalid.token.format",
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "empty token",
			token:       "",
			expectedErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ValidateToken(tt.token)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestJWTService_ValidateToken_ExpiredToken(t *testing.T) {
	service := NewJWTService("test-secret-key", "visage-test", -1*time.Hour)
	identityID := uuid.New()

	token, err := service.GenerateToken(identityID, testEmail)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateToken_DifferentSecret(t *testing.T) {
	service1 := NewJWTService("secret-1", "visage-test", 1*time.Hour)
	service2 := NewJWTService("secret-2", "visage-test", 1*time.Hour)

	identityID := uuid.New()

	token, err := service1.GenerateToken(identityID, testEmail)
	require.NoError(t, err)

	_, err = service2.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RefreshToken(t *testing.T) {
	service := NewJWTService("test-secret-key", "visage-test", 1*time.Hour)
	identityID := uuid.New()

	oldToken, err := service.GenerateToken(identityID, testEmail)
	require.NoError(t, err)

	time.Sleep(1 * time.Second)

	newToken, err := service.RefreshToken(oldToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newToken)
	assert.NotEqual(t, oldToken, newToken)

	claims, err := service.ValidateToken(newToken)
	require.NoError(t, err)
	assert.Equal(t, identityID, claims.IdentityID)
	assert.Equal(t, testEmail, claims.Email)
}

func TestJWTService_RefreshToken_InvalidToken(t *testing.T) {
	service := NewJWTService("test-secret-key", "visage-test", 1*time.Hour)

	_, err := service.RefreshToken("invalid.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
