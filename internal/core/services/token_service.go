package services

import (
	"context"
	"fmt"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/utils"
)

// tokenService issues access tokens.
type tokenService struct {
	secret string
	expiry time.Duration
	issuer string
}

// NewTokenService creates a new token service.
func NewTokenService(secret string, expiry time.Duration, issuer string) portssvc.TokenSvcFacade {
	return &tokenService{secret: secret, expiry: expiry, issuer: issuer}
}

// Ensure tokenService implements the portssvc.TokenSvcFacade interface
var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateAccessToken creates a signed JWT for the user and returns it with
// its expiry time.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	if user == nil || user.UserID == "" {
		return "", time.Time{}, fmt.Errorf("%w: user is required", apperrors.ErrValidation)
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, string(user.Role), s.secret, s.expiry, s.issuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}
