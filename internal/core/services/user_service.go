package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/ledger"
	portsrepo "github.com/2025XRRPKOREA/api-server/internal/core/ports/repositories"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/2025XRRPKOREA/api-server/internal/utils"
	"github.com/google/uuid"
)

// userService provides business logic for user accounts and their
// custodial wallets.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
	ledger   ledger.Client
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, ledgerClient ledger.Client) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, ledger: ledgerClient}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

// GetUserByID retrieves a user by ID.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", apperrors.ErrValidation)
	}
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByEmail retrieves a user by email.
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	return s.userRepo.FindUserByEmail(ctx, email)
}

// ListUsers retrieves a paginated list of users.
func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.FindUsers(ctx, limit, offset)
}

// CreateUser creates a new user and provisions their custodial ledger
// wallet. The wallet seed is stored server-side and never returned.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}

	if _, err := s.userRepo.FindUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email %s is already registered", apperrors.ErrDuplicate, email)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	wallet, err := s.ledger.CreateWallet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to provision wallet: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:        uuid.NewString(),
		Email:         email,
		Name:          name,
		PasswordHash:  passwordHash,
		Role:          domain.RoleUser,
		WalletAddress: wallet.Address,
		WalletSeed:    wallet.Seed,
	}
	user.Touch(user.UserID, now)

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("user created",
		slog.String("user_id", user.UserID),
		slog.String("wallet_address", user.WalletAddress),
	)
	return &user, nil
}

// UpdateUser updates an existing user. Users may edit themselves; only
// admins may edit others.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, requestingUserID string) (*domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user ID is required", apperrors.ErrValidation)
	}
	if err := s.authorizeActor(ctx, userID, requestingUserID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidation)
		}
		user.Name = name
	}
	user.Touch(requestingUserID, time.Now())

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser marks a user as deleted. Same authorization as updates.
func (s *userService) DeleteUser(ctx context.Context, userID string, requestingUserID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if userID == "" {
		return fmt.Errorf("%w: user ID is required", apperrors.ErrValidation)
	}
	if err := s.authorizeActor(ctx, userID, requestingUserID); err != nil {
		return err
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now(), requestingUserID); err != nil {
		return err
	}

	logger.Info("user deleted",
		slog.String("user_id", userID),
		slog.String("deleted_by", requestingUserID),
	)
	return nil
}

// AuthenticateUser authenticates a user with email and password. Wrong
// email and wrong password return the same error.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	return user, nil
}

// authorizeActor allows self-service, otherwise requires the requesting
// user to be an admin.
func (s *userService) authorizeActor(ctx context.Context, targetUserID, requestingUserID string) error {
	if requestingUserID == "" {
		return fmt.Errorf("%w: requesting user unknown", apperrors.ErrUnauthorized)
	}
	if targetUserID == requestingUserID {
		return nil
	}
	actor, err := s.userRepo.FindUserByID(ctx, requestingUserID)
	if err != nil {
		return fmt.Errorf("failed to load requesting user: %w", err)
	}
	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins may manage other users", apperrors.ErrForbidden)
	}
	return nil
}
