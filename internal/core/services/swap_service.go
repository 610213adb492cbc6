package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/apperrors"
	"github.com/2025XRRPKOREA/api-server/internal/core/domain"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/events"
	"github.com/2025XRRPKOREA/api-server/internal/core/ports/ledger"
	portssvc "github.com/2025XRRPKOREA/api-server/internal/core/ports/services"
	"github.com/2025XRRPKOREA/api-server/internal/dto"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SwapConfig carries the operator-side identities a swap engine settles
// against. It is injected at construction so tests and multi-tenant setups
// can run engines side by side.
type SwapConfig struct {
	AdminWallet   domain.Wallet
	IOUCurrency   string
	IssuerAddress string
	BaseAsset     string
	QuoteAsset    string
}

// swapLeg is one planned ledger payment within a swap.
type swapLeg struct {
	purpose string
	payment ledger.Payment
}

// swapService orchestrates pricing and settlement of swaps.
type swapService struct {
	cfg       SwapConfig
	accessSvc portssvc.AccessReaderSvc
	rateSvc   portssvc.RateReaderSvc
	feeSvc    portssvc.FeeReaderSvc
	ledger    ledger.Client
	publisher events.Publisher
	collector *metrics.Collector
}

// NewSwapService creates a new swap orchestration service.
func NewSwapService(
	cfg SwapConfig,
	accessSvc portssvc.AccessReaderSvc,
	rateSvc portssvc.RateReaderSvc,
	feeSvc portssvc.FeeReaderSvc,
	ledgerClient ledger.Client,
	publisher events.Publisher,
	collector *metrics.Collector,
) portssvc.SwapSvcFacade {
	return &swapService{
		cfg:       cfg,
		accessSvc: accessSvc,
		rateSvc:   rateSvc,
		feeSvc:    feeSvc,
		ledger:    ledgerClient,
		publisher: publisher,
		collector: collector,
	}
}

// Ensure swapService implements the portssvc.SwapSvcFacade interface
var _ portssvc.SwapSvcFacade = (*swapService)(nil)

// QuoteSwap prices a prospective swap without touching the ledger.
func (s *swapService) QuoteSwap(ctx context.Context, req dto.SwapRequest) (*domain.SwapQuote, error) {
	swapType, err := domain.ParseSwapType(req.SwapType)
	if err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	quote, err := s.buildQuote(ctx, swapType, req.Amount)
	if err != nil {
		return nil, err
	}
	s.collector.RecordQuote()
	return quote, nil
}

// ExecuteSwap runs the full pipeline: access check and quote in parallel,
// then the ledger legs strictly in order. Once the first leg settles there
// is no way back; a later failure leaves a PARTIAL result for operators
// instead of attempting compensation.
func (s *swapService) ExecuteSwap(ctx context.Context, user *domain.User, req dto.SwapRequest) (*domain.SwapResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	started := time.Now()

	swapType, err := domain.ParseSwapType(req.SwapType)
	if err != nil {
		return nil, err
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if user == nil || user.WalletAddress == "" {
		return nil, fmt.Errorf("%w: user has no wallet", apperrors.ErrValidation)
	}

	destination := ""
	if swapType == domain.SwapTypeTransfer {
		destination, err = validateAddress(req.DestinationAddress)
		if err != nil {
			return nil, err
		}
		if destination == user.WalletAddress {
			return nil, fmt.Errorf("%w: cannot transfer to own wallet", apperrors.ErrValidation)
		}
	}

	result := &domain.SwapResult{
		SwapID:     uuid.NewString(),
		UserID:     user.UserID,
		SwapType:   swapType,
		Stage:      domain.StageCheckAccess,
		ExecutedAt: started,
	}

	var (
		userDecision *domain.PermissionDecision
		destDecision *domain.PermissionDecision
		quote        *domain.SwapQuote
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d, err := s.accessSvc.CheckPermission(gctx, user.WalletAddress)
		if err != nil {
			return err
		}
		userDecision = d
		return nil
	})
	if destination != "" {
		g.Go(func() error {
			d, err := s.accessSvc.CheckPermission(gctx, destination)
			if err != nil {
				return err
			}
			destDecision = d
			return nil
		})
	}
	g.Go(func() error {
		q, err := s.buildQuote(gctx, swapType, req.Amount)
		if err != nil {
			return err
		}
		quote = q
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			result.Status = domain.SwapFailed
			result.Stage = domain.StageQuote
			result.ErrorCode = domain.SwapErrQuoteUnavailable
			result.Reason = fmt.Sprintf("no active exchange rate for %s/%s", s.cfg.BaseAsset, s.cfg.QuoteAsset)
			s.complete(ctx, result, swapType, started)
			return result, nil
		}
		return nil, err
	}

	if !userDecision.Allowed {
		result.Status = domain.SwapFailed
		result.ErrorCode = domain.SwapErrPermissionDenied
		result.Reason = userDecision.Reason
		s.complete(ctx, result, swapType, started)
		return result, nil
	}
	if destDecision != nil && !destDecision.Allowed {
		result.Status = domain.SwapFailed
		result.ErrorCode = domain.SwapErrPermissionDenied
		result.Reason = fmt.Sprintf("destination %s: %s", destination, destDecision.Reason)
		s.complete(ctx, result, swapType, started)
		return result, nil
	}

	result.Quote = quote
	result.Stage = domain.StageQuote

	swapCtx := domain.SwapContext{
		AdminWallet:   s.cfg.AdminWallet,
		UserWallet:    user.Wallet(),
		IOUCurrency:   s.cfg.IOUCurrency,
		IssuerAddress: s.cfg.IssuerAddress,
	}

	for i, leg := range s.legPlan(swapCtx, swapType, destination, quote) {
		if i == 0 {
			result.Stage = domain.StageLegOne
		} else {
			result.Stage = domain.StageLegTwo
		}

		legResult := domain.LegResult{Leg: i + 1, Purpose: leg.purpose}
		submit, err := s.ledger.SubmitPayment(ctx, leg.payment)
		if err != nil {
			legResult.ErrorCode = engineCode(err)
			result.Legs = append(result.Legs, legResult)
			if i == 0 {
				result.Status = domain.SwapFailed
				result.ErrorCode = domain.SwapErrLedger
				result.Reason = fmt.Sprintf("leg 1 (%s) rejected: %v", leg.purpose, err)
			} else {
				result.Status = domain.SwapPartial
				result.ErrorCode = domain.SwapErrPartialFailure
				result.Reason = fmt.Sprintf("leg %d (%s) failed after value moved: %v", i+1, leg.purpose, err)
			}
			s.complete(ctx, result, swapType, started)
			return result, nil
		}

		legResult.TxHash = submit.TxHash
		legResult.Succeeded = true
		result.Legs = append(result.Legs, legResult)
		logger.Info("swap leg settled",
			slog.String("swap_id", result.SwapID),
			slog.Int("leg", i+1),
			slog.String("purpose", leg.purpose),
			slog.String("tx_hash", submit.TxHash),
		)
	}

	result.Status = domain.SwapSucceeded
	result.Stage = domain.StageSettled
	s.complete(ctx, result, swapType, started)
	return result, nil
}

// buildQuote prices the swap, fetching the fee breakdown and, for
// conversion swaps, the current rate in parallel.
func (s *swapService) buildQuote(ctx context.Context, swapType domain.SwapType, amount decimal.Decimal) (*domain.SwapQuote, error) {
	var (
		breakdown *domain.FeeBreakdown
		rate      *domain.ExchangeRate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.feeSvc.CalculateFee(gctx, swapType, amount)
		if err != nil {
			return err
		}
		breakdown = b
		return nil
	})
	if swapType != domain.SwapTypeTransfer {
		g.Go(func() error {
			r, err := s.rateSvc.GetCurrentRate(gctx, s.cfg.BaseAsset, s.cfg.QuoteAsset)
			if err != nil {
				return err
			}
			rate = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	quote := &domain.SwapQuote{
		SwapType:     swapType,
		GrossAmount:  breakdown.GrossAmount,
		Fee:          breakdown.Fee,
		NetAmount:    breakdown.NetAmount,
		FeeType:      breakdown.FeeType,
		FeeRate:      breakdown.FeeRate,
		FeeDefaulted: breakdown.Defaulted,
		QuotedAt:     time.Now(),
	}

	switch swapType {
	case domain.SwapTypeXRPToIOU:
		execRate, err := rate.ExecutionRate(swapType)
		if err != nil {
			return nil, err
		}
		pay, err := domain.Convert(breakdown.NetAmount, execRate, domain.BaseToQuote)
		if err != nil {
			return nil, err
		}
		quote.PayAmount = pay
		quote.PayCurrency = s.cfg.IOUCurrency
		quote.RateUsed = rate
	case domain.SwapTypeIOUToXRP:
		execRate, err := rate.ExecutionRate(swapType)
		if err != nil {
			return nil, err
		}
		pay, err := domain.Convert(breakdown.NetAmount, execRate, domain.QuoteToBase)
		if err != nil {
			return nil, err
		}
		quote.PayAmount = pay
		quote.PayCurrency = s.cfg.BaseAsset
		quote.RateUsed = rate
	case domain.SwapTypeTransfer:
		quote.PayAmount = breakdown.NetAmount
		quote.PayCurrency = s.cfg.IOUCurrency
	}
	return quote, nil
}

// legPlan lays out the ledger payments for a swap. Leg order is the
// settlement order: the user's side always moves first.
func (s *swapService) legPlan(sc domain.SwapContext, swapType domain.SwapType, destination string, quote *domain.SwapQuote) []swapLeg {
	switch swapType {
	case domain.SwapTypeXRPToIOU:
		return []swapLeg{
			{purpose: "collect-xrp", payment: ledger.Payment{
				Sender:      sc.UserWallet,
				Destination: sc.AdminWallet.Address,
				Amount:      ledger.XRP(quote.GrossAmount),
			}},
			{purpose: "issue-iou", payment: ledger.Payment{
				Sender:      sc.AdminWallet,
				Destination: sc.UserWallet.Address,
				Amount:      ledger.IssuedToken(sc.IOUCurrency, sc.IssuerAddress, quote.PayAmount),
			}},
		}
	case domain.SwapTypeIOUToXRP:
		return []swapLeg{
			{purpose: "return-iou", payment: ledger.Payment{
				Sender:      sc.UserWallet,
				Destination: sc.IssuerAddress,
				Amount:      ledger.IssuedToken(sc.IOUCurrency, sc.IssuerAddress, quote.GrossAmount),
			}},
			{purpose: "payout-xrp", payment: ledger.Payment{
				Sender:      sc.AdminWallet,
				Destination: sc.UserWallet.Address,
				Amount:      ledger.XRP(quote.PayAmount),
			}},
		}
	case domain.SwapTypeTransfer:
		legs := []swapLeg{
			{purpose: "transfer-iou", payment: ledger.Payment{
				Sender:      sc.UserWallet,
				Destination: destination,
				Amount:      ledger.IssuedToken(sc.IOUCurrency, sc.IssuerAddress, quote.NetAmount),
			}},
		}
		if quote.Fee.IsPositive() {
			legs = append(legs, swapLeg{purpose: "collect-fee", payment: ledger.Payment{
				Sender:      sc.UserWallet,
				Destination: sc.IssuerAddress,
				Amount:      ledger.IssuedToken(sc.IOUCurrency, sc.IssuerAddress, quote.Fee),
			}})
		}
		return legs
	}
	return nil
}

// complete records metrics and publishes the outcome. Publishing is best
// effort; the settled result is already final.
func (s *swapService) complete(ctx context.Context, result *domain.SwapResult, swapType domain.SwapType, started time.Time) {
	logger := middleware.GetLoggerFromCtx(ctx)
	s.collector.RecordSwap(string(swapType), string(result.Status), time.Since(started))

	if result.NeedsReconciliation() {
		logger.Error("swap settled partially, manual reconciliation required",
			slog.String("swap_id", result.SwapID),
			slog.String("user_id", result.UserID),
			slog.String("swap_type", string(swapType)),
			slog.String("reason", result.Reason),
		)
	}

	if err := s.publisher.PublishSwapResult(ctx, *result); err != nil {
		logger.Error("failed to publish swap result",
			slog.String("swap_id", result.SwapID),
			slog.String("error", err.Error()),
		)
	}
}

func engineCode(err error) string {
	var ledgerErr *apperrors.LedgerError
	if errors.As(err, &ledgerErr) && ledgerErr.EngineCode != "" {
		return ledgerErr.EngineCode
	}
	return domain.SwapErrLedger
}
