package repositories

import (
	"context"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
)

// FeeConfigReader defines read operations for fee policy data
type FeeConfigReader interface {
	// FindActiveFeeConfig retrieves the effective fee config for a swap type
	// at the given instant, newest validFrom winning ties.
	FindActiveFeeConfig(ctx context.Context, swapType domain.SwapType, at time.Time) (*domain.FeeConfig, error)

	// FindFeeConfigByID retrieves a specific fee config by its ID.
	FindFeeConfigByID(ctx context.Context, feeConfigID string) (*domain.FeeConfig, error)

	// FindFeeConfigs retrieves fee configs, optionally narrowed to one swap
	// type, newest first.
	FindFeeConfigs(ctx context.Context, swapType *domain.SwapType, limit, offset int) ([]domain.FeeConfig, error)
}

// FeeConfigWriter defines write operations for fee policy data
type FeeConfigWriter interface {
	// ActivateFeeConfig retires the currently active config for the swap
	// type and inserts the new one inside one transaction.
	ActivateFeeConfig(ctx context.Context, config domain.FeeConfig) error

	// DeactivateFeeConfigs retires all active configs for a swap type.
	DeactivateFeeConfigs(ctx context.Context, swapType domain.SwapType, deactivatedBy string, at time.Time) (int64, error)
}

// FeeRepositoryFacade combines all fee-related repository interfaces
// This is a facade for clients that need access to all operations
type FeeRepositoryFacade interface {
	FeeConfigReader
	FeeConfigWriter
}

// FeeRepositoryWithTx extends FeeRepositoryFacade with transaction capabilities
type FeeRepositoryWithTx interface {
	FeeRepositoryFacade
	TransactionManager
}
