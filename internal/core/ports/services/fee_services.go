package services

import (
	"context"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/shopspring/decimal"
)

// FeeReaderSvc defines read operations for fee policy data
type FeeReaderSvc interface {
	// GetActiveFeeConfig retrieves the effective fee config for a swap type.
	GetActiveFeeConfig(ctx context.Context, swapType domain.SwapType) (*domain.FeeConfig, error)

	// GetFeeConfigByID retrieves a specific fee config.
	GetFeeConfigByID(ctx context.Context, feeConfigID string) (*domain.FeeConfig, error)

	// ListFeeConfigs retrieves fee configs, optionally narrowed to one swap
	// type, newest first.
	ListFeeConfigs(ctx context.Context, swapType *domain.SwapType, limit, offset int) ([]domain.FeeConfig, error)

	// CalculateFee prices an amount under the active config for the swap
	// type. When no config is active the built-in default rate applies and
	// the breakdown says so; a missing config is degraded service, not an
	// error.
	CalculateFee(ctx context.Context, swapType domain.SwapType, amount decimal.Decimal) (*domain.FeeBreakdown, error)
}

// FeeWriterSvc defines write operations for fee policy data
type FeeWriterSvc interface {
	// ActivateFeeConfig installs a new fee config for a swap type,
	// atomically retiring the previous active one.
	ActivateFeeConfig(ctx context.Context, req dto.CreateFeeConfigRequest, creatorUserID string) (*domain.FeeConfig, error)

	// DeactivateFeeConfigs retires all active fee configs for a swap type
	// and reports how many records were touched.
	DeactivateFeeConfigs(ctx context.Context, swapType domain.SwapType, updaterUserID string) (int64, error)

	// SimulateFee prices sample amounts under a prospective config without
	// persisting anything.
	SimulateFee(ctx context.Context, req dto.SimulateFeeRequest) ([]domain.FeeBreakdown, error)
}

// FeeSvcFacade combines all fee-related service interfaces
type FeeSvcFacade interface {
	FeeReaderSvc
	FeeWriterSvc
}
