package services

import (
	"context"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
)

// RateReaderSvc defines read operations for exchange rate data
type RateReaderSvc interface {
	// GetCurrentRate retrieves the effective rate for a pair right now.
	GetCurrentRate(ctx context.Context, baseAsset, quoteAsset string) (*domain.ExchangeRate, error)

	// GetRateByID retrieves a specific rate record.
	GetRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error)

	// ListRateHistory retrieves past and present rate records for a pair,
	// newest first.
	ListRateHistory(ctx context.Context, baseAsset, quoteAsset string, limit, offset int) ([]domain.ExchangeRate, error)
}

// RateWriterSvc defines write operations for exchange rate data
type RateWriterSvc interface {
	// UpsertRate installs a new rate for a pair, atomically retiring the
	// previous active record.
	UpsertRate(ctx context.Context, req dto.UpsertRateRequest, updaterUserID string) (*domain.ExchangeRate, error)

	// DeactivateRates retires all active rates for a pair and reports how
	// many records were touched.
	DeactivateRates(ctx context.Context, baseAsset, quoteAsset string, updaterUserID string) (int64, error)
}

// RateSvcFacade combines all rate-related service interfaces
type RateSvcFacade interface {
	RateReaderSvc
	RateWriterSvc
}
