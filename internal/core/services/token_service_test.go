package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/core/services"
	"github.com/2025XRRPKOREA/api-server/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	secret := "test-secret-key"
	service := services.NewTokenService(secret, time.Hour, "api-server")
	user := &domain.User{UserID: uuid.NewString(), Role: domain.RoleAdmin}

	token, expiresAt, err := service.GenerateAccessToken(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, claims.Subject)
	assert.Equal(t, string(domain.RoleAdmin), claims.Role)
	assert.Equal(t, "api-server", claims.Issuer)
}

func TestGenerateAccessToken_WrongSecretRejected(t *testing.T) {
	service := services.NewTokenService("right-secret", time.Hour, "api-server")
	user := &domain.User{UserID: uuid.NewString(), Role: domain.RoleUser}

	token, _, err := service.GenerateAccessToken(context.Background(), user)
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestGenerateAccessToken_NilUser(t *testing.T) {
	service := services.NewTokenService("secret", time.Hour, "api-server")

	_, _, err := service.GenerateAccessToken(context.Background(), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
