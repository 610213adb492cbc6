package repositories

import (
	"context"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
)

// RateReader defines read operations for exchange rate data
type RateReader interface {
	// FindCurrentRate retrieves the single effective rate for a pair at the
	// given instant: active, inside its validity window, newest validFrom
	// winning ties.
	FindCurrentRate(ctx context.Context, baseAsset, quoteAsset string, at time.Time) (*domain.ExchangeRate, error)

	// FindRateByID retrieves a specific rate record by its ID.
	FindRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error)

	// FindRateHistory retrieves past and present rate records for a pair,
	// newest first.
	FindRateHistory(ctx context.Context, baseAsset, quoteAsset string, limit, offset int) ([]domain.ExchangeRate, error)
}

// RateWriter defines write operations for exchange rate data
type RateWriter interface {
	// ReplaceActiveRate deactivates every active rate for the pair and
	// inserts the new record inside one transaction, so readers never see
	// zero or two active rates.
	ReplaceActiveRate(ctx context.Context, rate domain.ExchangeRate) error

	// DeactivateRates retires all active rates for a pair without
	// installing a replacement.
	DeactivateRates(ctx context.Context, baseAsset, quoteAsset string, deactivatedBy string, at time.Time) (int64, error)
}

// RateRepositoryFacade combines all rate-related repository interfaces
// This is a facade for clients that need access to all operations
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}

// RateRepositoryWithTx extends RateRepositoryFacade with transaction capabilities
type RateRepositoryWithTx interface {
	RateRepositoryFacade
	TransactionManager
}
