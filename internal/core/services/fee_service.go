package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	portsrepo "github.com/2025XRRPKOREA/api-server/internal/core/ports/repositories"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultFeeRate applies when no active fee configuration exists for a
// swap type. Charging a conservative default keeps the engine running
// through configuration gaps instead of rejecting every swap.
var DefaultFeeRate = decimal.RequireFromString("0.001")

// feeService provides business logic for fee configuration and calculation.
type feeService struct {
	feeRepo portsrepo.FeeRepositoryFacade
}

// NewFeeService creates a new fee service.
func NewFeeService(feeRepo portsrepo.FeeRepositoryFacade) portssvc.FeeSvcFacade {
	return &feeService{feeRepo: feeRepo}
}

// Ensure feeService implements the portssvc.FeeSvcFacade interface
var _ portssvc.FeeSvcFacade = (*feeService)(nil)

// GetActiveFeeConfig retrieves the fee configuration currently in force
// for a swap type.
func (s *feeService) GetActiveFeeConfig(ctx context.Context, swapType domain.SwapType) (*domain.FeeConfig, error) {
	if _, err := domain.ParseSwapType(string(swapType)); err != nil {
		return nil, err
	}
	return s.feeRepo.FindActiveFeeConfig(ctx, swapType, time.Now())
}

// GetFeeConfigByID retrieves a specific fee configuration.
func (s *feeService) GetFeeConfigByID(ctx context.Context, feeConfigID string) (*domain.FeeConfig, error) {
	if feeConfigID == "" {
		return nil, fmt.Errorf("%w: fee config ID is required", apperrors.ErrValidation)
	}
	return s.feeRepo.FindFeeConfigByID(ctx, feeConfigID)
}

// ListFeeConfigs retrieves fee configurations, optionally filtered by swap type.
func (s *feeService) ListFeeConfigs(ctx context.Context, swapType *domain.SwapType, limit, offset int) ([]domain.FeeConfig, error) {
	if swapType != nil {
		if _, err := domain.ParseSwapType(string(*swapType)); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.feeRepo.FindFeeConfigs(ctx, swapType, limit, offset)
}

// CalculateFee applies the active fee configuration for the swap type to
// the given amount. When no configuration is active the default rate is
// charged and the breakdown is marked as defaulted; missing configuration
// degrades the fee, it never blocks the swap.
func (s *feeService) CalculateFee(ctx context.Context, swapType domain.SwapType, amount decimal.Decimal) (*domain.FeeBreakdown, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := domain.ParseSwapType(string(swapType)); err != nil {
		return nil, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	config, err := s.feeRepo.FindActiveFeeConfig(ctx, swapType, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load fee config: %w", err)
		}
		logger.Warn("no active fee config, charging default rate",
			slog.String("swap_type", string(swapType)),
			slog.String("default_rate", DefaultFeeRate.String()),
		)
		breakdown := defaultFeeBreakdown(amount)
		return &breakdown, nil
	}

	breakdown := config.CalculateFee(amount)
	return &breakdown, nil
}

func defaultFeeBreakdown(amount decimal.Decimal) domain.FeeBreakdown {
	rate := DefaultFeeRate
	fee := amount.Mul(rate)
	return domain.FeeBreakdown{
		GrossAmount: amount,
		Fee:         fee,
		NetAmount:   amount.Sub(fee),
		FeeType:     domain.FeePercentage,
		FeeRate:     &rate,
		Defaulted:   true,
	}
}

// ActivateFeeConfig installs a new fee configuration for a swap type,
// atomically retiring the previous active one.
func (s *feeService) ActivateFeeConfig(ctx context.Context, req dto.CreateFeeConfigRequest, creatorUserID string) (*domain.FeeConfig, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	swapType, err := domain.ParseSwapType(req.SwapType)
	if err != nil {
		return nil, err
	}
	if req.ValidTo != nil && !req.ValidTo.After(time.Now()) {
		return nil, fmt.Errorf("%w: validTo must be in the future", apperrors.ErrValidation)
	}

	now := time.Now()
	config := domain.FeeConfig{
		FeeConfigID: uuid.NewString(),
		SwapType:    swapType,
		FeeType:     domain.FeeType(req.FeeType),
		BaseFee:     req.BaseFee,
		MinFee:      req.MinFee,
		MaxFee:      req.MaxFee,
		TieredRates: req.ToFeeTiers(),
		Description: req.Description,
		IsActive:    true,
		ValidFrom:   now,
		ValidTo:     req.ValidTo,
	}
	config.Touch(creatorUserID, now)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := s.feeRepo.ActivateFeeConfig(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to activate fee config: %w", err)
	}

	logger.Info("fee config activated",
		slog.String("fee_config_id", config.FeeConfigID),
		slog.String("swap_type", string(config.SwapType)),
		slog.String("fee_type", string(config.FeeType)),
	)
	return &config, nil
}

// DeactivateFeeConfigs retires all active fee configurations for a swap type.
func (s *feeService) DeactivateFeeConfigs(ctx context.Context, swapType domain.SwapType, updaterUserID string) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := domain.ParseSwapType(string(swapType)); err != nil {
		return 0, err
	}

	count, err := s.feeRepo.DeactivateFeeConfigs(ctx, swapType, updaterUserID, time.Now())
	if err != nil {
		return 0, err
	}

	logger.Info("fee configs deactivated",
		slog.String("swap_type", string(swapType)),
		slog.Int64("count", count),
	)
	return count, nil
}

// SimulateFee evaluates a candidate fee configuration against sample
// amounts without persisting anything.
func (s *feeService) SimulateFee(ctx context.Context, req dto.SimulateFeeRequest) ([]domain.FeeBreakdown, error) {
	if _, err := domain.ParseSwapType(req.Config.SwapType); err != nil {
		return nil, err
	}

	config := domain.FeeConfig{
		FeeConfigID: "simulation",
		SwapType:    domain.SwapType(req.Config.SwapType),
		FeeType:     domain.FeeType(req.Config.FeeType),
		BaseFee:     req.Config.BaseFee,
		MinFee:      req.Config.MinFee,
		MaxFee:      req.Config.MaxFee,
		TieredRates: req.Config.ToFeeTiers(),
		IsActive:    true,
		ValidFrom:   time.Now(),
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	breakdowns := make([]domain.FeeBreakdown, 0, len(req.Amounts))
	for _, amount := range req.Amounts {
		if amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: amounts must be positive", apperrors.ErrValidation)
		}
		breakdowns = append(breakdowns, config.CalculateFee(amount))
	}
	return breakdowns, nil
}
