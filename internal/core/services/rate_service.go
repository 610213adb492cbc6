package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
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

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// rateService provides business logic for exchange rates.
type rateService struct {
	rateRepo portsrepo.RateRepositoryFacade
}

// NewRateService creates a new rate service.
func NewRateService(rateRepo portsrepo.RateRepositoryFacade) portssvc.RateSvcFacade {
	return &rateService{rateRepo: rateRepo}
}

// Ensure rateService implements the portssvc.RateSvcFacade interface
var _ portssvc.RateSvcFacade = (*rateService)(nil)

func normalizePair(baseAsset, quoteAsset string) (string, string, error) {
	base := strings.ToUpper(strings.TrimSpace(baseAsset))
	quote := strings.ToUpper(strings.TrimSpace(quoteAsset))
	if base == "" || quote == "" {
		return "", "", fmt.Errorf("%w: base and quote assets are required", apperrors.ErrValidation)
	}
	if base == quote {
		return "", "", fmt.Errorf("%w: base and quote assets cannot be the same", apperrors.ErrValidation)
	}
	return base, quote, nil
}

// GetCurrentRate retrieves the effective rate for a pair right now.
func (s *rateService) GetCurrentRate(ctx context.Context, baseAsset, quoteAsset string) (*domain.ExchangeRate, error) {
	base, quote, err := normalizePair(baseAsset, quoteAsset)
	if err != nil {
		return nil, err
	}

	rate, err := s.rateRepo.FindCurrentRate(ctx, base, quote, time.Now())
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// GetRateByID retrieves a specific rate record.
func (s *rateService) GetRateByID(ctx context.Context, rateID string) (*domain.ExchangeRate, error) {
	if rateID == "" {
		return nil, fmt.Errorf("%w: rate ID is required", apperrors.ErrValidation)
	}
	return s.rateRepo.FindRateByID(ctx, rateID)
}

// ListRateHistory retrieves past and present rate records for a pair.
func (s *rateService) ListRateHistory(ctx context.Context, baseAsset, quoteAsset string, limit, offset int) ([]domain.ExchangeRate, error) {
	base, quote, err := normalizePair(baseAsset, quoteAsset)
	if err != nil {
		return nil, err
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

	return s.rateRepo.FindRateHistory(ctx, base, quote, limit, offset)
}

// UpsertRate installs a new rate for a pair, atomically retiring the
// previous active record.
func (s *rateService) UpsertRate(ctx context.Context, req dto.UpsertRateRequest, updaterUserID string) (*domain.ExchangeRate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	base, quote, err := normalizePair(req.BaseAsset, req.QuoteAsset)
	if err != nil {
		return nil, err
	}
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: rate must be positive", apperrors.ErrValidation)
	}
	if req.Spread.IsNegative() || req.Spread.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("%w: spread must be in [0, 1)", apperrors.ErrValidation)
	}
	if req.ValidTo != nil && !req.ValidTo.After(time.Now()) {
		return nil, fmt.Errorf("%w: validTo must be in the future", apperrors.ErrValidation)
	}

	source := req.Source
	if source == "" {
		source = "manual"
	}

	rate := domain.NewExchangeRate(uuid.NewString(), base, quote, req.Rate, req.Spread, source, updaterUserID, time.Now())
	rate.ValidTo = req.ValidTo

	if err := s.rateRepo.ReplaceActiveRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to install rate: %w", err)
	}

	logger.Info("rate installed",
		slog.String("rate_id", rate.RateID),
		slog.String("pair", base+"/"+quote),
		slog.String("rate", rate.Rate.String()),
		slog.String("spread", rate.Spread.String()),
	)
	return &rate, nil
}

// DeactivateRates retires all active rates for a pair.
func (s *rateService) DeactivateRates(ctx context.Context, baseAsset, quoteAsset string, updaterUserID string) (int64, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	base, quote, err := normalizePair(baseAsset, quoteAsset)
	if err != nil {
		return 0, err
	}

	count, err := s.rateRepo.DeactivateRates(ctx, base, quote, updaterUserID, time.Now())
	if err != nil {
		return 0, err
	}

	logger.Info("rates deactivated",
		slog.String("pair", base+"/"+quote),
		slog.Int64("count", count),
	)
	return count, nil
}
