package services

import (
	"context"

	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
)

// SwapSvcFacade orchestrates pricing and settlement of swaps.
type SwapSvcFacade interface {
	// QuoteSwap prices a prospective swap without touching the ledger.
	QuoteSwap(ctx context.Context, req dto.SwapRequest) (*domain.SwapQuote, error)

	// ExecuteSwap runs the full pipeline for a user: access check, quote,
	// then the ledger legs in order. Business failures come back inside
	// the SwapResult, not as an error; the error return is for broken
	// requests and infrastructure faults before settlement starts.
	ExecuteSwap(ctx context.Context, user *domain.User, req dto.SwapRequest) (*domain.SwapResult, error)
}

// IssuanceSvcFacade reports on the outstanding issued token supply.
type IssuanceSvcFacade interface {
	// GetIssuanceSummary totals what the issuer currently owes holders,
	// read live from the ledger.
	GetIssuanceSummary(ctx context.Context) (*domain.IssuanceReport, error)
}
